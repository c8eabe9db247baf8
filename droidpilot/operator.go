package droidpilot

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasttemplate"

	"github.com/spance/droidpilot-go/constants"
	"github.com/spance/droidpilot-go/droidpilot/definitions"
	"github.com/spance/droidpilot-go/droidpilot/helper"
	"github.com/spance/droidpilot-go/utils"
)

// AndroidOperator captures the device screen and turns model-produced action
// requests into adb input commands. The device id is fixed at construction;
// the round counter is its only other mutable state and only the screenshot
// pipeline touches it. Concurrent calls on one instance get distinct rounds,
// but racing capture commands on the one physical device is the caller's
// problem to avoid.
type AndroidOperator struct {
	deviceID string
	runner   Runner

	session string
	round   atomic.Int64

	devicePathTpl *fasttemplate.Template
	hostNameTpl   *fasttemplate.Template
}

func NewAndroidOperator(deviceID string, runner Runner) *AndroidOperator {
	return &AndroidOperator{
		deviceID:      deviceID,
		runner:        runner,
		session:       uuid.New().String()[:8],
		devicePathTpl: fasttemplate.New(constants.DevicePathPattern, "{", "}"),
		hostNameTpl:   fasttemplate.New(constants.HostNamePattern, "{", "}"),
	}
}

func (o *AndroidOperator) args(tail ...string) []string {
	if o.deviceID != "" {
		return append([]string{"-s", o.deviceID}, tail...)
	}
	return tail
}

// Screenshot runs one capture round: screencap on the device, pull to a
// host path unique to this round, decode for dimensions, re-encode as
// base64. Every failure mode surfaces as an error; there is no fallback
// image, so callers can tell "screenshot unavailable" from a blank screen.
func (o *AndroidOperator) Screenshot(ctx context.Context) (*definitions.Screenshot, error) {
	round := strconv.FormatInt(o.round.Add(1), 10)

	vars := map[string]any{"session": o.session, "round": round}
	devicePath := o.devicePathTpl.ExecuteString(vars)
	hostPath := filepath.Join(os.TempDir(), o.hostNameTpl.ExecuteString(vars))
	defer func() {
		_ = os.Remove(hostPath)
	}()

	output, err := o.runner.Run(ctx, constants.TransferTimeout,
		o.args("shell", "screencap", "-p", devicePath)...)
	if err != nil {
		return nil, fmt.Errorf("screenshot capture: %w", err)
	}
	if strings.Contains(output, "Status: -1") || strings.Contains(output, "Failed") {
		return nil, fmt.Errorf("screenshot capture failed: %s", strings.TrimSpace(output))
	}

	if _, err = o.runner.Run(ctx, constants.TransferTimeout,
		o.args("pull", devicePath, hostPath)...); err != nil {
		return nil, fmt.Errorf("screenshot pull: %w", err)
	}

	// Best-effort: the device would otherwise collect one PNG per round.
	if _, err = o.runner.Run(ctx, constants.DefaultCommandTimeout,
		o.args("shell", "rm", "-f", devicePath)...); err != nil {
		log.Warn().Err(err).Str("path", devicePath).Msg("[Screenshot] device-side cleanup failed")
	}

	data, err := os.ReadFile(hostPath)
	if err != nil {
		return nil, fmt.Errorf("screenshot read: %w", err)
	}

	// Decoded only for the pixel dimensions.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("screenshot decode: %w", err)
	}

	return &definitions.Screenshot{
		Base64Data:  base64.StdEncoding.EncodeToString(data),
		Width:       cfg.Width,
		Height:      cfg.Height,
		ScaleFactor: 1.0,
	}, nil
}

// Execute dispatches one action request. Unresolvable coordinates and
// unsupported action types are logged no-ops; transport failures while
// issuing a recognized action come back as errors.
func (o *AndroidOperator) Execute(ctx context.Context, req *definitions.ActionRequest) error {
	log.Debug().Str("action", string(req.ActionType)).Str("inputs", utils.JsonString(req.ActionInputs)).Msg("[Execute] dispatching")

	switch req.ActionType {
	case definitions.ActionClick:
		return o.tap(ctx, req, 1, 0)
	case definitions.ActionDoubleClick:
		return o.tap(ctx, req, 2, constants.DoubleTapInterval)
	case definitions.ActionLongPress:
		return o.longPress(ctx, req)
	case definitions.ActionTypeText:
		return o.typeText(ctx, req)
	case definitions.ActionSwipe:
		return o.swipe(ctx, req, constants.SwipeDuration)
	case definitions.ActionDrag:
		return o.swipe(ctx, req, constants.DragDuration)
	case definitions.ActionPressBack:
		return o.keyEvent(ctx, req.ActionType, constants.KeycodeBack)
	case definitions.ActionPressHome:
		return o.keyEvent(ctx, req.ActionType, constants.KeycodeHome)
	case definitions.ActionPressEnter:
		return o.keyEvent(ctx, req.ActionType, constants.KeycodeEnter)
	case definitions.ActionWait:
		return o.wait(ctx, req)
	case definitions.ActionOpenApp:
		return o.openApp(ctx, req)
	default:
		log.Warn().Str("action", string(req.ActionType)).Msg("[Execute] unsupported action type, skipping")
		return nil
	}
}

// resolveInput maps a named box input to pixel coordinates, nil when the
// target cannot be resolved.
func (o *AndroidOperator) resolveInput(req *definitions.ActionRequest, key string) *helper.Point {
	box := req.Input(key)
	pt := helper.ResolveBox(box, req.ScreenWidth, req.ScreenHeight)
	if pt == nil {
		log.Warn().Str("action", string(req.ActionType)).Str(key, box).Msg("[Execute] unresolvable target, skipping")
	}
	return pt
}

func pixel(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

func (o *AndroidOperator) tap(ctx context.Context, req *definitions.ActionRequest, count int, interval time.Duration) error {
	pt := o.resolveInput(req, "start_box")
	if pt == nil {
		return nil
	}

	for i := 0; i < count; i++ {
		if i > 0 {
			time.Sleep(interval)
		}
		_, err := o.runner.Run(ctx, constants.DefaultCommandTimeout,
			o.args("shell", "input", "tap", pixel(pt.X), pixel(pt.Y))...)
		if err != nil {
			return fmt.Errorf("%s: %w", req.ActionType, err)
		}
	}
	return nil
}

func (o *AndroidOperator) longPress(ctx context.Context, req *definitions.ActionRequest) error {
	pt := o.resolveInput(req, "start_box")
	if pt == nil {
		return nil
	}

	x, y := pixel(pt.X), pixel(pt.Y)
	_, err := o.runner.Run(ctx, constants.DefaultCommandTimeout,
		o.args("shell", "input", "swipe", x, y, x, y,
			strconv.Itoa(int(constants.LongPressDuration.Milliseconds())))...)
	if err != nil {
		return fmt.Errorf("long_press: %w", err)
	}
	return nil
}

func (o *AndroidOperator) typeText(ctx context.Context, req *definitions.ActionRequest) error {
	content := strings.TrimSpace(req.Input("content"))
	if content == "" {
		log.Warn().Msg("[Execute] empty content, skipping type")
		return nil
	}

	_, err := o.runner.Run(ctx, constants.DefaultCommandTimeout,
		o.args("shell", "input", "text", helper.EscapeShellText(content))...)
	if err != nil {
		return fmt.Errorf("type: %w", err)
	}
	return nil
}

// swipe issues a single swipe only when both endpoints resolve; one missing
// endpoint suppresses the whole gesture, no partial swipe is ever sent.
func (o *AndroidOperator) swipe(ctx context.Context, req *definitions.ActionRequest, duration time.Duration) error {
	start := o.resolveInput(req, "start_box")
	end := o.resolveInput(req, "end_box")
	if start == nil || end == nil {
		return nil
	}

	_, err := o.runner.Run(ctx, constants.DefaultCommandTimeout,
		o.args("shell", "input", "swipe",
			pixel(start.X), pixel(start.Y), pixel(end.X), pixel(end.Y),
			strconv.Itoa(int(duration.Milliseconds())))...)
	if err != nil {
		return fmt.Errorf("%s: %w", req.ActionType, err)
	}
	return nil
}

func (o *AndroidOperator) keyEvent(ctx context.Context, action definitions.ActionType, keycode string) error {
	_, err := o.runner.Run(ctx, constants.DefaultCommandTimeout,
		o.args("shell", "input", "keyevent", keycode)...)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

func (o *AndroidOperator) wait(ctx context.Context, req *definitions.ActionRequest) error {
	seconds := utils.AnyToFloat64(req.ActionInputs["duration"], 1.0)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(seconds * float64(time.Second))):
		return nil
	}
}

func (o *AndroidOperator) openApp(ctx context.Context, req *definitions.ActionRequest) error {
	name := req.Input("app")
	if name == "" {
		name = req.Input("content")
	}

	pkg, ok := constants.PackageForApp(name)
	if !ok {
		log.Warn().Str("app", name).Msg("[Execute] unknown app, skipping")
		return nil
	}

	_, err := o.runner.Run(ctx, constants.DefaultCommandTimeout,
		o.args("shell", "monkey", "-p", pkg,
			"-c", "android.intent.category.LAUNCHER", "1")...)
	if err != nil {
		return fmt.Errorf("open_app: %w", err)
	}
	return nil
}
