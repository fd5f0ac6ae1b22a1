package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "LANGBOOK"

// Settings drive the CLI itself. The site being described has no runtime
// configuration; everything about it lives in the manifest.
type Settings struct {
	Manifest   string `mapstructure:"manifest"`
	ContentDir string `mapstructure:"content"`
	OutDir     string `mapstructure:"out"`
	Origin     string `mapstructure:"origin"`
	Port       string `mapstructure:"port"`
	Strict     bool   `mapstructure:"strict"`
	Verbose    bool   `mapstructure:"verbose"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("manifest", "manifest.yaml")
	v.SetDefault("content", "src")
	v.SetDefault("out", "src/.vuepress")
	v.SetDefault("origin", "")
	v.SetDefault("port", "9010")
	v.SetDefault("strict", false)
	v.SetDefault("verbose", false)
}

// NewViper returns a viper instance reading LANGBOOK_* environment variables
// on top of the defaults.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Wrap(err, "unable to decode settings")
	}
	if s.Manifest == "" {
		return Settings{}, errors.New("manifest path cannot be empty")
	}
	s.Origin = strings.TrimRight(s.Origin, "/")
	return s, nil
}
