package constants

import "time"

const (
	// ADB is the only device transport supported right now.
	ADB = "adb"

	// DefaultCommandTimeout bounds a single input/shell command.
	DefaultCommandTimeout = 3 * time.Second
	// TransferTimeout bounds commands that move file payloads (screencap, pull).
	TransferTimeout = 10 * time.Second

	SwipeDuration     = 300 * time.Millisecond
	DragDuration      = 600 * time.Millisecond
	LongPressDuration = 1000 * time.Millisecond
	DoubleTapInterval = 100 * time.Millisecond

	// DevicePathPattern is where screencap writes on the device, one file per
	// capture round.
	DevicePathPattern = "/sdcard/droidpilot_{round}.png"
	// HostNamePattern names the pulled file on the host. The session id keeps
	// two operator instances from colliding, the round keeps two captures of
	// the same instance from colliding.
	HostNamePattern = "droidpilot_{session}_{round}.png"

	KeycodeBack  = "4"
	KeycodeEnter = "66"
	KeycodeHome  = "KEYCODE_HOME"
)
