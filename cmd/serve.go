package cmd

import (
	"net/http"

	"github.com/ZacxDev/langbook/handlers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the navigation in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, tree, err := loadSite()
		if err != nil {
			return err
		}

		router, err := handlers.SetupRouter(s, tree, settings.Origin, logger)
		if err != nil {
			return errors.Wrap(err, "error setting up router")
		}

		logger.Infof("Starting preview server on port %s", settings.Port)
		return http.ListenAndServe(":"+settings.Port, router)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "9010", "Port to run the server on")
	bindFlags(v, serveCmd.Flags().Lookup("port"))
}
