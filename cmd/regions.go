package cmd

import (
	"fmt"

	storage "github.com/bluespot/cli/internal/infra/storage"
	cobra "github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Manage saved capture regions",
}

var regionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved capture regions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromViper()
		if err != nil {
			return err
		}

		store, err := storage.NewRegionStore(cfg.Storage)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		records, err := store.ListRegions(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No saved regions")
			return nil
		}
		for _, rec := range records {
			fmt.Fprintf(out, "%-20s %d,%d %dx%d  (saved %s)\n",
				rec.Name, rec.X, rec.Y, rec.Width, rec.Height,
				rec.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var regionsAddCmd = &cobra.Command{
	Use:   "add <name> <x,y,w,h>",
	Short: "Save a capture region under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromViper()
		if err != nil {
			return err
		}

		region, err := parseRect(args[1])
		if err != nil {
			return err
		}

		store, err := storage.NewRegionStore(cfg.Storage)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.SaveRegion(cmd.Context(), storage.NewRegionRecord(args[0], region)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved region %q (%d,%d %dx%d)\n",
			args[0], region.X, region.Y, region.Width, region.Height)
		return nil
	},
}

var regionsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved capture region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromViper()
		if err != nil {
			return err
		}

		store, err := storage.NewRegionStore(cfg.Storage)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.DeleteRegion(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed region %q\n", args[0])
		return nil
	},
}

func init() {
	regionsCmd.AddCommand(regionsListCmd)
	regionsCmd.AddCommand(regionsAddCmd)
	regionsCmd.AddCommand(regionsRemoveCmd)
	rootCmd.AddCommand(regionsCmd)
}
