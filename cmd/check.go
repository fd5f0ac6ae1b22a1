package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the navigation and metadata without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadSite()
		if err != nil {
			return err
		}

		printDiagnostics(cmd.OutOrStdout(), s.Diagnostics, settings.Strict)
		if err := s.Err(settings.Strict); err != nil {
			return errors.Wrap(err, "check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
