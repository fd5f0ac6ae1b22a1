package cmd

import (
	"fmt"
	"os"

	"github.com/ZacxDev/langbook/config"
	"github.com/ZacxDev/langbook/content"
	"github.com/ZacxDev/langbook/site"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	v        = config.NewViper()
	settings config.Settings
	logger   = zap.NewNop().Sugar()
)

var rootCmd = &cobra.Command{
	Use:   "langbook",
	Short: "langbook - navigation and site metadata for the langbook tutorial site",
	Long: `langbook validates the navbar, sidebar and head metadata of the langbook
programming tutorial site and writes them out in the format the site
generator reads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.LoadSettings(v)
		if err != nil {
			return err
		}
		logger, err = newLogger(settings.Verbose)
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("manifest", "m", "manifest.yaml", "site manifest")
	flags.StringP("content", "c", "src", "markdown content directory, empty to skip page checks")
	flags.String("origin", "", "public origin used in sitemap.xml, e.g. https://flow-zy.github.io")
	flags.Bool("strict", false, "treat warnings as errors")
	flags.BoolP("verbose", "v", false, "debug logging")
	bindFlags(v, flags.Lookup("manifest"), flags.Lookup("content"), flags.Lookup("origin"), flags.Lookup("strict"), flags.Lookup("verbose"))
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// loadSite reads the manifest and assembles the site.
func loadSite() (*site.Site, *content.Tree, error) {
	manifest, err := config.LoadManifest(afero.NewOsFs(), settings.Manifest)
	if err != nil {
		return nil, nil, err
	}

	var tree *content.Tree
	if settings.ContentDir != "" {
		if _, statErr := os.Stat(settings.ContentDir); statErr == nil {
			tree = content.OpenDir(settings.ContentDir)
		} else {
			logger.Warnw("content directory not found, skipping page checks", "dir", settings.ContentDir)
		}
	}

	s, err := site.Assemble(manifest, site.Options{Content: tree, Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	return s, tree, nil
}

func bindFlags(v *viper.Viper, flags ...*pflag.Flag) {
	for _, f := range flags {
		_ = v.BindPFlag(f.Name, f)
	}
}
