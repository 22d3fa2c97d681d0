package cmd

import (
	"fmt"

	"inventory-recon/core/storage"
	"inventory-recon/feature/integrity"
	"inventory-recon/feature/pipeline"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var fixFlag bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that all required inputs are present",
	Long: `Checks the input directories and files a run needs, and the upload bucket
when uploads are enabled. With --fix, missing directories are created.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	RootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing input directories")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	var client storage.Client
	if cfg.Output.Upload {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	svc := integrity.NewService(afero.NewOsFs(), pipeline.Layout(cfg), client, cfg.Storage.Bucket, l)
	report, err := svc.Run(contextOf(cmd), fixFlag)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Input Check ===")
	for _, dir := range report.Fixed {
		fmt.Printf("Created: %s\n", dir)
	}
	if report.OK() {
		fmt.Println("All inputs present")
	}
	for _, m := range report.Missing {
		fmt.Printf("  - %s\n", m)
	}
	if report.BucketError != "" {
		fmt.Printf("Bucket: %s\n", report.BucketError)
	}

	if !report.OK() {
		return report.Missing[0].Err()
	}
	l.Info("Input check passed")
	return nil
}
