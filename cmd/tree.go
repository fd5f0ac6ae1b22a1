package cmd

import (
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the resolved navbar and sidebar",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadSite()
		if err != nil {
			return err
		}

		printNavbar(cmd.OutOrStdout(), s.Navbar)
		printSidebar(cmd.OutOrStdout(), s.Sidebar)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
