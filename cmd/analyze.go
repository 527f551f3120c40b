package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	config "github.com/bluespot/cli/config"
	clipboard "github.com/bluespot/cli/internal/clipboard"
	detect "github.com/bluespot/cli/internal/detect"
	display "github.com/bluespot/cli/internal/display"
	storage "github.com/bluespot/cli/internal/infra/storage"
	logger "github.com/bluespot/cli/internal/logger"
	services "github.com/bluespot/cli/internal/services"
	ui "github.com/bluespot/cli/internal/ui"
	vlm "github.com/bluespot/cli/internal/vlm"
	cobra "github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Capture the screen and locate blue buttons",
	Long: `Capture the screen (or a region of it), send the capture to the configured
vision model and print every detected blue button with its absolute screen
coordinates. With --move or --click the mouse is driven onto a detection
after a countdown.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("image", "", "analyze an image file instead of capturing the screen")
	analyzeCmd.Flags().String("rect", "", "capture region as x,y,w,h")
	analyzeCmd.Flags().String("region", "", "capture a saved region by name")
	analyzeCmd.Flags().String("save", "", "write the analyzed capture as PNG to this path")
	analyzeCmd.Flags().String("model", "", "override the configured model name")
	analyzeCmd.Flags().Int("index", 0, "detection to act on with --move/--click/--copy")
	analyzeCmd.Flags().Bool("pick", false, "pick the detection interactively")
	analyzeCmd.Flags().Bool("move", false, "move the mouse onto the chosen detection")
	analyzeCmd.Flags().Bool("click", false, "move the mouse and click the chosen detection")
	analyzeCmd.Flags().Bool("copy", false, "copy the chosen detection's coordinates to the clipboard")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := getConfigFromViper()
	if err != nil {
		return err
	}

	modelName := cfg.Model.Name
	if override, _ := cmd.Flags().GetString("model"); override != "" {
		modelName = override
	}

	client := vlm.NewClient(cfg.Model.URL, modelName, time.Duration(cfg.Model.Timeout)*time.Second)
	analyzer := services.NewAnalyzer(client)
	imageService := services.NewImageService(cfg.Capture.MaxImageWidth)

	imagePath, _ := cmd.Flags().GetString("image")

	var (
		attachment *services.ImageAttachment
		raw        []byte
		region     detect.Region
		screen     detect.Screen
		controller display.DisplayController
	)

	if imagePath != "" {
		attachment, region, screen, err = loadImageInput(imageService, imagePath)
		if err != nil {
			return err
		}
	} else {
		controller, err = resolveController(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := controller.Close(); err != nil {
				logger.Warn("Failed to close display controller", "error", err)
			}
		}()

		attachment, raw, region, screen, err = captureInput(ctx, cmd, cfg, imageService, controller)
		if err != nil {
			return err
		}
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if raw == nil {
			return fmt.Errorf("--save requires a live capture, not --image")
		}
		if err := os.WriteFile(savePath, raw, 0644); err != nil {
			return fmt.Errorf("failed to save capture: %w", err)
		}
		fmt.Fprintf(out, "Saved capture to %s\n", savePath)
	}

	fmt.Fprintf(out, "Analyzing %dx%d region with %s...\n", region.Width, region.Height, modelName)

	result, err := analyzer.Analyze(ctx, attachment, region, screen)
	if err != nil {
		return err
	}

	printResult(out, result)

	if len(result.Detections) == 0 {
		return nil
	}

	index, _ := cmd.Flags().GetInt("index")
	if pick, _ := cmd.Flags().GetBool("pick"); pick {
		index, err = pickDetection(result.Detections)
		if err != nil {
			return err
		}
		if index < 0 {
			return nil
		}
	}
	if index < 0 || index >= len(result.Detections) {
		return fmt.Errorf("detection index %d out of range (%d detections)", index, len(result.Detections))
	}

	if copyCoords, _ := cmd.Flags().GetBool("copy"); copyCoords {
		det := result.Detections[index]
		if err := clipboard.Init(); err != nil {
			logger.Warn("Clipboard unavailable", "error", err)
		} else {
			clipboard.WriteText(fmt.Sprintf("%d,%d", det.X, det.Y))
			fmt.Fprintf(out, "Copied %d,%d to clipboard\n", det.X, det.Y)
		}
	}

	click, _ := cmd.Flags().GetBool("click")
	move, _ := cmd.Flags().GetBool("move")
	if !click && !move {
		return nil
	}
	if controller == nil {
		return fmt.Errorf("--move and --click require a live capture, not --image")
	}

	interaction := services.NewInteractionController(
		controller,
		time.Duration(cfg.Interaction.CountdownSeconds)*time.Second,
		cfg.Interaction.MoveTolerancePx,
	)
	interaction.SetOutput(out)

	interactionResult, err := interaction.Interact(ctx, result.Detections, index, click)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Outcome: %s %q at (%d, %d)\n",
		interactionResult.Outcome,
		interactionResult.Detection.Label,
		interactionResult.Detection.X, interactionResult.Detection.Y)
	return nil
}

// loadImageInput analyzes a file on disk. The image is its own coordinate
// space, so the region and screen both span the source pixel dimensions.
func loadImageInput(imageService *services.ImageService, path string) (*services.ImageAttachment, detect.Region, detect.Screen, error) {
	if !imageService.IsImageFile(path) {
		return nil, detect.Region{}, detect.Screen{}, fmt.Errorf("unsupported image file %q", path)
	}

	attachment, err := imageService.ReadImageFromFile(path)
	if err != nil {
		return nil, detect.Region{}, detect.Screen{}, err
	}

	region := detect.Region{X: 0, Y: 0, Width: attachment.SourceWidth, Height: attachment.SourceHeight}
	screen := detect.Screen{Width: attachment.SourceWidth, Height: attachment.SourceHeight}
	return attachment, region, screen, nil
}

// captureInput resolves the requested region against the live screen,
// rescales it when it does not fit and captures it.
func captureInput(ctx context.Context, cmd *cobra.Command, cfg *config.Config, imageService *services.ImageService, controller display.DisplayController) (*services.ImageAttachment, []byte, detect.Region, detect.Screen, error) {
	width, height, err := controller.GetScreenDimensions(ctx)
	if err != nil {
		return nil, nil, detect.Region{}, detect.Screen{}, fmt.Errorf("failed to read screen dimensions: %w", err)
	}
	screen := detect.Screen{Width: width, Height: height}

	region, err := resolveRegion(ctx, cmd, cfg, screen)
	if err != nil {
		return nil, nil, detect.Region{}, detect.Screen{}, err
	}

	if scaled := detect.ScaleCaptureRegion(region, screen); scaled != region {
		logger.Info("Capture region rescaled to fit screen",
			"from", fmt.Sprintf("%d,%d %dx%d", region.X, region.Y, region.Width, region.Height),
			"to", fmt.Sprintf("%d,%d %dx%d", scaled.X, scaled.Y, scaled.Width, scaled.Height))
		region = scaled
	}

	captureRegion := &display.Region{X: region.X, Y: region.Y, Width: region.Width, Height: region.Height}
	raw, err := controller.CaptureScreenBytes(ctx, captureRegion)
	if err != nil {
		return nil, nil, detect.Region{}, detect.Screen{}, fmt.Errorf("failed to capture screen: %w", err)
	}

	attachment, err := imageService.ReadImageFromBinary(raw, "capture.png")
	if err != nil {
		return nil, nil, detect.Region{}, detect.Screen{}, err
	}
	return attachment, raw, region, screen, nil
}

// resolveRegion picks the capture region from --rect, --region or the full
// screen, in that order.
func resolveRegion(ctx context.Context, cmd *cobra.Command, cfg *config.Config, screen detect.Screen) (detect.Region, error) {
	if rect, _ := cmd.Flags().GetString("rect"); rect != "" {
		return parseRect(rect)
	}

	if name, _ := cmd.Flags().GetString("region"); name != "" {
		store, err := storage.NewRegionStore(cfg.Storage)
		if err != nil {
			return detect.Region{}, err
		}
		defer func() { _ = store.Close() }()

		record, err := store.GetRegion(ctx, name)
		if err != nil {
			return detect.Region{}, fmt.Errorf("failed to load region %q: %w", name, err)
		}
		return record.Region(), nil
	}

	return detect.NewRegion(0, 0, screen.Width, screen.Height)
}

func resolveController(cfg *config.Config) (display.DisplayController, error) {
	var provider display.Provider
	if cfg.Capture.Display == "" || cfg.Capture.Display == "auto" {
		detected, err := display.DetectDisplay()
		if err != nil {
			return nil, err
		}
		provider = detected
	} else {
		provider = display.GetProvider(cfg.Capture.Display)
		if provider == nil {
			return nil, fmt.Errorf("unknown display server %q", cfg.Capture.Display)
		}
	}

	logger.Debug("Using display server", "name", provider.GetDisplayInfo().Name)
	return provider.GetController("")
}

func pickDetection(detections []detect.ScreenDetection) (int, error) {
	items := make([]ui.Item, 0, len(detections))
	for _, det := range detections {
		desc := fmt.Sprintf("(%d, %d)", det.X, det.Y)
		if det.Appearance != "" {
			desc += " " + det.Appearance
		}
		items = append(items, ui.Item{Title: det.Label, Desc: desc})
	}
	return ui.Pick("Pick a detection", items)
}

func printResult(out io.Writer, result *services.AnalysisResult) {
	if len(result.Detections) == 0 {
		fmt.Fprintln(out, "No blue buttons detected")
	}

	for i, det := range result.Detections {
		notes := make([]string, 0, 2)
		if det.Adjusted {
			notes = append(notes, "adjusted")
		}
		if det.OutOfBounds {
			notes = append(notes, "out of bounds")
		}
		suffix := ""
		if len(notes) > 0 {
			suffix = " [" + strings.Join(notes, ", ") + "]"
		}
		fmt.Fprintf(out, "%d. %q at (%d, %d)%s\n", i, det.Label, det.X, det.Y, suffix)
		if det.Appearance != "" {
			fmt.Fprintf(out, "   %s\n", det.Appearance)
		}
	}

	if result.Unmapped > 0 {
		fmt.Fprintf(out, "%d candidate(s) without usable coordinates\n", result.Unmapped)
	}
	fmt.Fprintf(out, "Model: %d tokens in %s\n", result.EvalCount, result.Duration.Round(time.Millisecond))
}

// parseRect parses a region given as "x,y,w,h".
func parseRect(s string) (detect.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return detect.Region{}, fmt.Errorf("invalid rect %q, expected x,y,w,h", s)
	}

	values := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return detect.Region{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		values[i] = v
	}

	return detect.NewRegion(values[0], values[1], values[2], values[3])
}
