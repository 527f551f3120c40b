package cmd

import (
	"fmt"
	"os"
	"strings"

	config "github.com/bluespot/cli/config"
	logger "github.com/bluespot/cli/internal/logger"
	mapstructure "github.com/go-viper/mapstructure/v2"
	cobra "github.com/spf13/cobra"
	viper "github.com/spf13/viper"
	gotenv "github.com/subosito/gotenv"

	_ "github.com/bluespot/cli/internal/display/macos"
	_ "github.com/bluespot/cli/internal/display/wayland"
	_ "github.com/bluespot/cli/internal/display/x11"
)

// V is the global viper instance backing all commands.
var V *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "bluespot",
	Short: "Locate blue buttons on screen with a vision model",
	Long: `bluespot captures the screen (or a region of it), sends the capture to a
vision language model and maps the buttons the model reports back into
absolute screen coordinates. It can then move the mouse onto a detection
and optionally click it.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is .bluespot/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	logger.Init(verbose)

	_ = gotenv.Load()

	V = viper.New()
	V.SetEnvPrefix("BLUESPOT")
	V.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	V.AutomaticEnv()
	_ = V.BindEnv("model.url")
	_ = V.BindEnv("model.name")
}

// getConfigFromViper loads the config file over the built-in defaults, then
// overlays the environment held by the global viper instance.
func getConfigFromViper() (*config.Config, error) {
	configPath, _ := rootCmd.PersistentFlags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if V == nil {
		return cfg, nil
	}

	decodeYAML := func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }
	if err := V.Unmarshal(cfg, decodeYAML); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
