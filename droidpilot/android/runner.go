package android

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spance/droidpilot-go/constants"
)

const adbPath = "adb"

// ADBRunner executes single adb invocations with a bounded lifetime. The
// spawned process is killed when the timeout elapses, so callers are never
// left blocked on a hung transport; the only signal they get back is an
// error value alongside empty output.
type ADBRunner struct{}

func NewRunner() *ADBRunner {
	return &ADBRunner{}
}

func (r *ADBRunner) Run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	if timeout <= 0 {
		timeout = constants.DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().Str("cmd", fmt.Sprintf("%s %s", adbPath, strings.Join(args, " "))).Msg("[Run] adb")

	output, err := exec.CommandContext(ctx, adbPath, args...).CombinedOutput()
	if err != nil {
		log.Error().Err(err).Str("output", string(output)).Msg("[Run] adb command failed")
		return "", fmt.Errorf("adb %s: %w", strings.Join(args, " "), err)
	}

	return string(output), nil
}

// DeviceArgs prepends the -s selector when a device id is bound, so the same
// argv tail works against the default and an explicit device.
func DeviceArgs(deviceID string, args ...string) []string {
	if deviceID != "" {
		return append([]string{"-s", deviceID}, args...)
	}
	return args
}
