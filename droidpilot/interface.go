package droidpilot

import (
	"context"
	"fmt"
	"time"

	"github.com/spance/droidpilot-go/constants"
	"github.com/spance/droidpilot-go/droidpilot/android"
	"github.com/spance/droidpilot-go/droidpilot/definitions"
)

// Runner executes one transport command. Implementations must enforce the
// timeout themselves: a call may fail but never block its caller past the
// bound. Empty output with a nil error is a legitimate outcome (most input
// commands print nothing), so callers must not read it as failure.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, args ...string) (string, error)
}

// Operator is the surface an agent control loop drives: observe the screen,
// apply a decided action.
type Operator interface {
	Screenshot(ctx context.Context) (*definitions.Screenshot, error)
	Execute(ctx context.Context, req *definitions.ActionRequest) error
}

// DeviceManager covers device lifecycle outside of a bound operator.
type DeviceManager interface {
	Connect(ctx context.Context, address string) (string, error)
	Disconnect(ctx context.Context, address string) (string, error)
	ListDevices(ctx context.Context) ([]definitions.DeviceInfo, error)
	EnableTCPIP(ctx context.Context, port int, deviceID string) error
	GetDeviceIP(ctx context.Context, deviceID string) (string, error)
}

// NewOperator binds an operator to a device on the given transport.
func NewOperator(deviceType, deviceID string) (Operator, error) {
	switch deviceType {
	case constants.ADB:
		return NewAndroidOperator(deviceID, android.NewRunner()), nil
	default:
		return nil, fmt.Errorf("unknown device type: %v", deviceType)
	}
}

// NewManager returns the device manager for the given transport.
func NewManager(deviceType string) (DeviceManager, error) {
	switch deviceType {
	case constants.ADB:
		return android.NewManager(nil), nil
	default:
		return nil, fmt.Errorf("unknown device type: %v", deviceType)
	}
}
