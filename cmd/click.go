package cmd

import (
	"fmt"
	"strconv"
	"time"

	detect "github.com/bluespot/cli/internal/detect"
	logger "github.com/bluespot/cli/internal/logger"
	services "github.com/bluespot/cli/internal/services"
	cobra "github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click <x> <y>",
	Short: "Move the mouse to a screen position and click it",
	Long: `Move the mouse to the given absolute screen coordinates and click the left
button. The click is preceded by the configured countdown so it can be
abandoned with Ctrl+C. With --move-only the mouse is positioned without
clicking.`,
	Args: cobra.ExactArgs(2),
	RunE: runClick,
}

func init() {
	clickCmd.Flags().Bool("move-only", false, "move the mouse without clicking")

	rootCmd.AddCommand(clickCmd)
}

func runClick(cmd *cobra.Command, args []string) error {
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid x coordinate %q: %w", args[0], err)
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid y coordinate %q: %w", args[1], err)
	}

	cfg, err := getConfigFromViper()
	if err != nil {
		return err
	}

	controller, err := resolveController(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := controller.Close(); err != nil {
			logger.Warn("Failed to close display controller", "error", err)
		}
	}()

	width, height, err := controller.GetScreenDimensions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read screen dimensions: %w", err)
	}
	screen := detect.Screen{Width: width, Height: height}
	if !screen.Contains(detect.Point{X: x, Y: y}) {
		return fmt.Errorf("(%d, %d) is outside the %dx%d screen", x, y, width, height)
	}

	interaction := services.NewInteractionController(
		controller,
		time.Duration(cfg.Interaction.CountdownSeconds)*time.Second,
		cfg.Interaction.MoveTolerancePx,
	)
	interaction.SetOutput(cmd.OutOrStdout())

	moveOnly, _ := cmd.Flags().GetBool("move-only")
	target := []detect.ScreenDetection{{Label: "manual target", X: x, Y: y}}

	result, err := interaction.Interact(cmd.Context(), target, 0, !moveOnly)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Outcome: %s (%d, %d)\n", result.Outcome, x, y)
	return nil
}
