package android

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spance/droidpilot-go/droidpilot/definitions"
)

func TestParseDeviceListSkipsHeader(t *testing.T) {
	output := "List of devices attached\n" +
		"emulator-5554\tdevice product:sdk_gphone64 model:sdk_gphone64_x86_64 device:emu64x\n" +
		"192.168.1.20:5555\tdevice model:Pixel_7\n" +
		"0A261FDD40032M\tunauthorized\n"

	devices := parseDeviceList(output)
	require.Len(t, devices, 3)

	assert.Equal(t, "emulator-5554", devices[0].DeviceID)
	assert.Equal(t, "device", devices[0].Status)
	assert.Equal(t, definitions.USB, devices[0].ConnectionType)
	assert.Equal(t, "sdk_gphone64_x86_64", devices[0].Model)

	assert.Equal(t, definitions.Remote, devices[1].ConnectionType)
	assert.Equal(t, "Pixel_7", devices[1].Model)

	assert.Equal(t, "unauthorized", devices[2].Status)
}

func TestParseDeviceListEmpty(t *testing.T) {
	assert.Empty(t, parseDeviceList("List of devices attached\n"))
	assert.Empty(t, parseDeviceList(""))
	// Malformed lines without a status column are dropped.
	assert.Empty(t, parseDeviceList("List of devices attached\nlonelyid\n"))
}

func TestIPParsing(t *testing.T) {
	routes := "192.168.1.0/24 dev wlan0 proto kernel scope link src 192.168.1.42\n"
	assert.Equal(t, "192.168.1.42", ipFromRoutes(routes))
	assert.Equal(t, "", ipFromRoutes("default via 10.0.0.1 dev radio0\n"))

	addr := "    inet 10.0.2.16/24 brd 10.0.2.255 scope global wlan0\n"
	assert.Equal(t, "10.0.2.16", ipFromAddrShow(addr))
	assert.Equal(t, "", ipFromAddrShow("link/ether 02:00:00:00:00:00\n"))
}

func TestDeviceArgs(t *testing.T) {
	assert.Equal(t, []string{"-s", "emulator-5554", "shell", "input", "tap"},
		DeviceArgs("emulator-5554", "shell", "input", "tap"))
	assert.Equal(t, []string{"shell", "input", "tap"},
		DeviceArgs("", "shell", "input", "tap"))
}
