package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	json "github.com/bytedance/sonic"

	"github.com/spance/droidpilot-go/constants"
	"github.com/spance/droidpilot-go/droidpilot"
	"github.com/spance/droidpilot-go/droidpilot/definitions"
	"github.com/spance/droidpilot-go/utils"
)

// Config holds all the configuration values from command line arguments
type Config struct {
	DeviceID    string `json:"device_id"`
	Connect     string `json:"connect"`
	Disconnect  string `json:"disconnect"`
	ListDevices bool   `json:"list_devices"`
	EnableTCPIP int    `json:"enable_tcpip"`
	GetDeviceIP string `json:"get_device_ip"`

	Screenshot string `json:"screenshot"`
	Action     string `json:"action"`
	ListApps   bool   `json:"list_apps"`
	Debug      bool   `json:"debug"`
}

var rootCmd = &cobra.Command{
	Use:   "droidpilot",
	Short: "DroidPilot - device operator for GUI agents over ADB",
	Long: `DroidPilot captures Android screen state and replays normalized,
model-produced actions (click, type, swipe, ...) as adb input commands.`,
	Example: `  # List connected devices
  go run main.go --list-devices

  # Capture a screenshot to a local file
  go run main.go --screenshot screen.png

  # Run with specific device
  go run main.go --device-id emulator-5554 --screenshot screen.png

  # Execute a single action
  go run main.go --action '{"action_type":"click","action_inputs":{"start_box":"0.5,0.5"}}'

  # Connect to remote device
  go run main.go --connect 192.168.1.100:5555

  # Enable TCP/IP debugging on USB device
  go run main.go --enable-tcpip 5555

  # List app names usable with the open_app action
  go run main.go --list-apps`,
	Run: func(cmd *cobra.Command, args []string) {},
}

var config = &Config{}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as int with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func init() {
	// Device options
	rootCmd.PersistentFlags().StringVarP(&config.DeviceID, "device-id", "d",
		getEnv("DROIDPILOT_DEVICE_ID", ""),
		"ADB device ID")

	rootCmd.PersistentFlags().StringVarP(&config.Connect, "connect", "c", "",
		"Connect to remote device (e.g., 192.168.1.100:5555)")

	rootCmd.PersistentFlags().StringVar(&config.Disconnect, "disconnect", "",
		"Disconnect from remote device (or 'all' to disconnect all)")

	rootCmd.PersistentFlags().BoolVar(&config.ListDevices, "list-devices", false,
		"List connected devices and exit")

	rootCmd.PersistentFlags().IntVar(&config.EnableTCPIP, "enable-tcpip",
		getEnvInt("DROIDPILOT_TCPIP_PORT", 0),
		"Enable TCP/IP debugging on USB device on the given port")

	rootCmd.PersistentFlags().StringVar(&config.GetDeviceIP, "get-device-ip", "",
		"Print the WiFi IP of the given device and exit")

	// Operator options
	rootCmd.PersistentFlags().StringVar(&config.Screenshot, "screenshot", "",
		"Capture a screenshot, write it to the given path and exit")

	rootCmd.PersistentFlags().StringVar(&config.Action, "action", "",
		"Execute a single action given as JSON and exit")

	// Other options
	rootCmd.PersistentFlags().BoolVar(&config.ListApps, "list-apps", false,
		"List app names usable with open_app and exit")

	rootCmd.PersistentFlags().BoolVar(&config.Debug, "debug", false,
		"Enable debug logging (default: false)")
}

func main() {
	_ = godotenv.Load()
	cobra.CheckErr(rootCmd.Execute())

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx := context.Background()

	if config.ListApps {
		apps, err := constants.KnownApps()
		if err != nil {
			log.Error().Err(err).Msg("loading app aliases failed")
			return
		}
		names := lo.Flatten(lo.Values(apps))
		sort.Strings(names)
		log.Info().Msg("Supported app names:")
		for _, name := range names {
			log.Info().Str("app", name).Msg("-")
		}
		return
	}

	manager, err := droidpilot.NewManager(constants.ADB)
	if err != nil {
		log.Error().Err(err).Msg("creating device manager failed")
		return
	}

	if hitCmd := handleDeviceCommands(ctx, manager); hitCmd {
		return
	}

	if passed := checkSystemRequirements(); !passed {
		log.Error().Msg("system check failed, please fix the issues above")
		return
	}

	deviceID, err := selectDevice(ctx, manager, config.DeviceID)
	if err != nil {
		log.Error().Err(err).Msg("device selection failed")
		return
	}

	operator, err := droidpilot.NewOperator(constants.ADB, deviceID)
	if err != nil {
		log.Error().Err(err).Msg("creating operator failed")
		return
	}

	switch {
	case config.Screenshot != "":
		if err := captureToFile(ctx, operator, config.Screenshot); err != nil {
			log.Error().Err(err).Msg("screenshot failed")
		}
	case config.Action != "":
		if err := runAction(ctx, operator, config.Action); err != nil {
			log.Error().Err(err).Msg("action failed")
		}
	default:
		interactiveLoop(ctx, operator)
	}
}

func handleDeviceCommands(ctx context.Context, manager droidpilot.DeviceManager) bool {
	if config.ListDevices {
		devices, _ := manager.ListDevices(ctx)
		if len(devices) == 0 {
			log.Info().Msg("No devices connected.")
			return true
		}
		log.Info().Msg("Connected devices:")
		log.Info().Msg(strings.Repeat("-", 60))
		for _, d := range devices {
			statusIcon := "✅"
			if d.Status != "device" {
				statusIcon = "❌"
			}
			modelInfo := ""
			if d.Model != "" {
				modelInfo = fmt.Sprintf(" (%s)", d.Model)
			}
			log.Info().Str("device", fmt.Sprintf("  %s %-30s [%s]%s", statusIcon, d.DeviceID, d.ConnectionType, modelInfo)).Msg("")
		}
		return true
	}

	if config.Connect != "" {
		log.Info().Msgf("Connecting to %s...", config.Connect)
		message, err := manager.Connect(ctx, config.Connect)
		if err != nil {
			log.Error().Str("msg", message).Msg("❌")
		} else {
			log.Info().Str("msg", message).Msg("✅")
		}
		return true
	}

	if config.EnableTCPIP > 0 {
		log.Info().Msgf("Enabling TCP/IP debugging on port %d...", config.EnableTCPIP)
		if err := manager.EnableTCPIP(ctx, config.EnableTCPIP, config.DeviceID); err != nil {
			log.Error().Err(err).Msg("❌ enable tcpip failed")
		} else {
			log.Info().Msg("✅ enable tcpip success")
		}
		return true
	}

	if len(config.GetDeviceIP) > 0 {
		ip, err := manager.GetDeviceIP(ctx, config.GetDeviceIP)
		if err != nil || ip == "" {
			log.Error().Err(err).Msg("❌ get device ip failed")
		} else {
			log.Info().Msgf("✅ device ip: %s", ip)
		}
		return true
	}

	if config.Disconnect != "" {
		address := config.Disconnect
		if address == "all" {
			address = ""
		}
		message, err := manager.Disconnect(ctx, address)
		statusSymbol := "✅"
		if err != nil {
			statusSymbol = "❌"
		}
		log.Info().Msgf("%s %s", statusSymbol, message)
		return true
	}

	return false
}

func checkSystemRequirements() bool {
	log.Info().Msg("🔍 Checking system requirements...")

	if _, err := exec.LookPath("adb"); err != nil {
		log.Error().Msg("❌ adb is not installed or not in PATH")
		log.Info().Msg("   Solution: install android platform tools:")
		log.Info().Msg("     - macOS: brew install android-platform-tools")
		log.Info().Msg("     - Linux: sudo apt install android-tools-adb")
		return false
	}

	output, err := exec.Command("adb", "version").Output()
	if err != nil {
		log.Error().Err(err).Msg("❌ adb command failed to run")
		return false
	}
	versionLine := strings.TrimSpace(strings.SplitN(string(output), "\n", 2)[0])
	log.Info().Msgf("✅ OK (%s)", versionLine)
	return true
}

// selectDevice enumerates attached devices and picks one: a configured id is
// taken as-is, a single ready device binds automatically, several ready
// devices hand the choice to the user.
func selectDevice(ctx context.Context, manager droidpilot.DeviceManager, configured string) (string, error) {
	devices, err := manager.ListDevices(ctx)
	if err != nil {
		return "", err
	}

	ready := lo.Filter(devices, func(d definitions.DeviceInfo, _ int) bool {
		return d.Status == "device"
	})

	if configured != "" {
		if !lo.ContainsBy(ready, func(d definitions.DeviceInfo) bool { return d.DeviceID == configured }) {
			log.Warn().Str("device", configured).Msg("configured device not in ready list, using it anyway")
		}
		return configured, nil
	}

	switch len(ready) {
	case 0:
		return "", fmt.Errorf("no ready devices attached")
	case 1:
		log.Info().Msgf("Device: %s (auto-detected)", ready[0].DeviceID)
		return ready[0].DeviceID, nil
	}

	fmt.Println("Multiple devices attached:")
	for i, d := range ready {
		fmt.Printf("  [%d] %s (%s)\n", i+1, d.DeviceID, d.Model)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Select device [1-%d]: ", len(ready))
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		idx, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && idx >= 1 && idx <= len(ready) {
			return ready[idx-1].DeviceID, nil
		}
	}
}

func captureToFile(ctx context.Context, operator droidpilot.Operator, path string) error {
	shot, err := operator.Screenshot(ctx)
	if err != nil {
		return err
	}

	data, err := base64.StdEncoding.DecodeString(shot.Base64Data)
	if err != nil {
		return fmt.Errorf("decoding screenshot payload: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	log.Info().Msgf("📸 %dx%d (scale %.1f) -> %s", shot.Width, shot.Height, shot.ScaleFactor, path)
	return nil
}

func runAction(ctx context.Context, operator droidpilot.Operator, rawAction string) error {
	var req definitions.ActionRequest
	if err := json.Unmarshal([]byte(rawAction), &req); err != nil {
		return fmt.Errorf("parsing action JSON: %w", err)
	}

	// Boxes are relative to the current screen; fill in the resolution when
	// the caller did not supply one.
	if req.ScreenWidth <= 0 || req.ScreenHeight <= 0 {
		shot, err := operator.Screenshot(ctx)
		if err != nil {
			return err
		}
		req.ScreenWidth = shot.Width
		req.ScreenHeight = shot.Height
	}

	return operator.Execute(ctx, &req)
}

func interactiveLoop(ctx context.Context, operator droidpilot.Operator) {
	log.Info().Msg("Entering interactive mode. Type 'screenshot', an action JSON, or 'quit'.")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			log.Info().Msg("Goodbye!")
			return
		case "screenshot":
			shot, err := operator.Screenshot(ctx)
			if err != nil {
				log.Error().Err(err).Msg("screenshot failed")
				continue
			}
			log.Info().Msg(utils.JsonIndent(map[string]any{
				"width":        shot.Width,
				"height":       shot.Height,
				"scale_factor": shot.ScaleFactor,
				"bytes":        len(shot.Base64Data),
			}))
		default:
			if err := runAction(ctx, operator, line); err != nil {
				log.Error().Err(err).Msg("action failed")
			}
		}
	}
}
