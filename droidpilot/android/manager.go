package android

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spance/droidpilot-go/constants"
	"github.com/spance/droidpilot-go/droidpilot/definitions"
)

// ADBManager covers the transport-level device lifecycle: enumeration,
// remote connect/disconnect, TCP/IP debugging setup.
type ADBManager struct {
	Runner *ADBRunner
}

func NewManager(runner *ADBRunner) *ADBManager {
	if runner == nil {
		runner = NewRunner()
	}
	return &ADBManager{Runner: runner}
}

func (m *ADBManager) Connect(ctx context.Context, address string) (string, error) {
	output, err := m.Runner.Run(ctx, 5*time.Second, "connect", address)
	if err != nil {
		return fmt.Sprintf("Connect error: %v", err), err
	}

	lowerOutput := strings.ToLower(output)
	if strings.Contains(lowerOutput, "already connected") {
		return fmt.Sprintf("Already connected to %s", address), nil
	}
	if strings.Contains(lowerOutput, " connected") {
		return fmt.Sprintf("Connected to %s", address), nil
	}
	return fmt.Sprintf("Connection error: %s", strings.TrimSpace(output)), nil
}

func (m *ADBManager) Disconnect(ctx context.Context, address string) (string, error) {
	args := []string{"disconnect"}
	if len(address) > 0 {
		args = append(args, address)
	}
	output, err := m.Runner.Run(ctx, 5*time.Second, args...)
	if err != nil {
		return fmt.Sprintf("Disconnect error: %v", err), err
	}
	return strings.TrimSpace(output), nil
}

func (m *ADBManager) ListDevices(ctx context.Context) ([]definitions.DeviceInfo, error) {
	output, err := m.Runner.Run(ctx, 5*time.Second, "devices", "-l")
	if err != nil {
		return nil, err
	}
	return parseDeviceList(output), nil
}

// parseDeviceList reads the line-oriented `adb devices -l` output. The first
// line is a header and skipped.
func parseDeviceList(output string) []definitions.DeviceInfo {
	var devices []definitions.DeviceInfo

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Scan() // header

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		deviceID := parts[0]
		status := parts[1]

		connType := definitions.USB
		if strings.Contains(deviceID, ":") {
			connType = definitions.Remote
		}

		var model string
		for _, part := range parts[2:] {
			if strings.HasPrefix(part, "model:") {
				model = strings.SplitN(part, ":", 2)[1]
				break
			}
		}

		devices = append(devices, definitions.DeviceInfo{
			DeviceID:       deviceID,
			Status:         status,
			ConnectionType: connType,
			Model:          model,
		})
	}

	return devices
}

func (m *ADBManager) EnableTCPIP(ctx context.Context, port int, deviceID string) error {
	args := DeviceArgs(deviceID, "tcpip", strconv.Itoa(port))
	output, err := m.Runner.Run(ctx, constants.TransferTimeout, args...)
	if err != nil {
		return err
	}

	if strings.Contains(strings.ToLower(output), "restarting") {
		time.Sleep(5 * time.Second)
		return nil
	}
	return fmt.Errorf("error enabling TCP/IP: %s", strings.TrimSpace(output))
}

func (m *ADBManager) GetDeviceIP(ctx context.Context, deviceID string) (string, error) {
	args := DeviceArgs(deviceID, "shell", "ip", "route")
	output, err := m.Runner.Run(ctx, 5*time.Second, args...)
	if err != nil {
		return "", err
	}
	if ip := ipFromRoutes(output); ip != "" {
		return ip, nil
	}

	// Fallback for devices whose route table carries no src entry.
	args = DeviceArgs(deviceID, "shell", "ip", "addr", "show", "wlan0")
	output, err = m.Runner.Run(ctx, 5*time.Second, args...)
	if err != nil {
		return "", err
	}
	if ip := ipFromAddrShow(output); ip != "" {
		return ip, nil
	}

	log.Warn().Str("device", deviceID).Msg("[GetDeviceIP] no IP address found")
	return "", nil
}

func ipFromRoutes(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "src") {
			continue
		}
		parts := strings.Fields(line)
		for i, part := range parts {
			if part == "src" && i+1 < len(parts) {
				return parts[i+1]
			}
		}
	}
	return ""
}

func ipFromAddrShow(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "inet ") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			return strings.Split(parts[1], "/")[0]
		}
	}
	return ""
}
