package cmd

import (
	"time"

	"github.com/ZacxDev/langbook/emit"
	"github.com/ZacxDev/langbook/nav"
	"github.com/ZacxDev/langbook/utils"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write the generator configuration and sitemap",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Infow("building site configuration", "manifest", settings.Manifest, "out", settings.OutDir)

		s, _, err := loadSite()
		if err != nil {
			return err
		}

		for _, d := range s.Diagnostics {
			logger.Warnw(d.Message, "code", d.Code(), "route", d.Route)
		}
		if err := s.Err(settings.Strict); err != nil {
			return errors.Wrap(err, "build failed")
		}

		files, err := emit.Files(s)
		if err != nil {
			return err
		}

		fs := afero.NewOsFs()
		if err := emit.Write(fs, settings.OutDir, files); err != nil {
			return err
		}
		for _, f := range files {
			logger.Infow("generated", "file", f.Name)
		}

		if settings.Origin == "" {
			logger.Info("no origin configured, skipping sitemap")
		} else {
			routes := lo.Map(s.Routes(), func(r nav.Route, _ int) string {
				return r.Path
			})
			if err := utils.GenerateSitemaps(fs, settings.OutDir, settings.Origin, s.Metadata.Base, routes, time.Now()); err != nil {
				return errors.Wrap(err, "error generating sitemap")
			}
			logger.Infow("generated", "file", "sitemap.xml", "urls", len(routes))
		}

		logger.Infof("site configuration generated in %s", settings.OutDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("out", "o", "src/.vuepress", "directory the generator reads its configuration from")
	bindFlags(v, buildCmd.Flags().Lookup("out"))
}
