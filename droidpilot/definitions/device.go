package definitions

type ConnectionType string

const (
	USB    ConnectionType = "usb"
	Remote ConnectionType = "remote"
)

type DeviceInfo struct {
	DeviceID       string         `json:"device_id"`
	Status         string         `json:"status"`
	ConnectionType ConnectionType `json:"connection_type"`
	Model          string         `json:"model,omitempty"`
}

// Screenshot is one capture of the device screen. Produced fresh on every
// request, never cached. ScaleFactor stays 1.0 over ADB: device pixels equal
// reported pixels.
type Screenshot struct {
	Base64Data  string  `json:"base64_data"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ScaleFactor float64 `json:"scale_factor"`
}
