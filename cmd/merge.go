package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jbalsam/patchvault/internal/archive"
	"github.com/jbalsam/patchvault/internal/metrics"
)

// newMergeCmd creates and configures the 'merge' subcommand.
func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Folds stored records into the aggregate document",
		Long: `Reads every stored patch record and appends the versions the aggregate
document does not already carry, newest first. Versions already in the
document are left untouched, so repeated merges are safe.`,

		RunE: runMergeCommand,
	}

	cmd.Flags().String("archive-file", "", "aggregate document to merge into")
	cobra.CheckErr(viper.BindPFlag("archive.file", cmd.Flags().Lookup("archive-file")))

	return cmd
}

func runMergeCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	records, err := appInstance.GetStore().List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	updater := archive.NewUpdater(viper.GetString("archive.file"), appInstance.GetLogger().Named("archive"))
	added, err := updater.Apply(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("merge records: %w", err)
	}
	metrics.AddMergedRecords(added)

	cmd.Printf("Merged %d new records into %s.\n", added, updater.Path())
	return nil
}
