// Package config loads the diagram formatting preferences.
//
// Values come, in increasing priority, from built-in defaults, a
// .sequence.yaml file (working directory, then home directory), a .env file,
// SEQUENCE_* environment variables and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"

	"github.com/vanstudio/sequence-cli/internal/diagram"
)

const (
	EnvPrefix  = "SEQUENCE"
	configName = ".sequence"
)

const (
	KeySimplifyCallNames   = "simplify_call_names"
	KeyFontName            = "font_name"
	KeyMethodBarColor      = "method_bar_color"
	KeyExternalClassColor  = "external_class_color"
	KeyInterfaceClassColor = "interface_class_color"
	KeyClassColor          = "class_color"
	KeyLinks               = "links"
	KeyStyleColors         = "style_colors"
	KeyGrouping            = "grouping"
	KeyReturnTypes         = "return_types"
)

var ErrInvalidColor = errors.New("invalid color")

// Settings mirrors the configuration file.
type Settings struct {
	SimplifyCallNames   bool   `mapstructure:"simplify_call_names"`
	FontName            string `mapstructure:"font_name"`
	MethodBarColor      string `mapstructure:"method_bar_color"`
	ExternalClassColor  string `mapstructure:"external_class_color"`
	InterfaceClassColor string `mapstructure:"interface_class_color"`
	ClassColor          string `mapstructure:"class_color"`
	Links               bool   `mapstructure:"links"`
	StyleColors         bool   `mapstructure:"style_colors"`
	Grouping            bool   `mapstructure:"grouping"`
	ReturnTypes         bool   `mapstructure:"return_types"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	d := diagram.DefaultOptions()
	v.SetDefault(KeySimplifyCallNames, d.SimplifyCallNames)
	v.SetDefault(KeyFontName, d.FontName)
	v.SetDefault(KeyMethodBarColor, d.MethodBarColor)
	v.SetDefault(KeyExternalClassColor, d.Styles.External)
	v.SetDefault(KeyInterfaceClassColor, d.Styles.Interface)
	v.SetDefault(KeyClassColor, d.Styles.Class)
	v.SetDefault(KeyLinks, d.Features.Links)
	v.SetDefault(KeyStyleColors, d.Features.StyleColors)
	v.SetDefault(KeyGrouping, d.Features.Grouping)
	v.SetDefault(KeyReturnTypes, d.Features.ReturnTypes)
}

// Init wires v to its sources and reads the config file. cfgFile overrides the
// search path; a missing default config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	// a missing .env file is fine
	_ = godotenv.Load()

	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load decodes the settings held by v into diagram options.
func Load(v *viper.Viper) (diagram.Options, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return diagram.Options{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return s.Options()
}

// Options validates the colors and converts s to diagram options.
func (s Settings) Options() (diagram.Options, error) {
	colors := []struct {
		key string
		val *string
	}{
		{KeyMethodBarColor, &s.MethodBarColor},
		{KeyExternalClassColor, &s.ExternalClassColor},
		{KeyInterfaceClassColor, &s.InterfaceClassColor},
		{KeyClassColor, &s.ClassColor},
	}
	for _, c := range colors {
		normalized, err := NormalizeColor(*c.val)
		if err != nil {
			return diagram.Options{}, fmt.Errorf("%s: %w", c.key, err)
		}
		*c.val = normalized
	}

	return diagram.Options{
		SimplifyCallNames: s.SimplifyCallNames,
		FontName:          s.FontName,
		MethodBarColor:    s.MethodBarColor,
		Styles: diagram.Styles{
			External:  s.ExternalClassColor,
			Interface: s.InterfaceClassColor,
			Class:     s.ClassColor,
		},
		Features: diagram.Features{
			Links:       s.Links,
			StyleColors: s.StyleColors,
			Grouping:    s.Grouping,
			ReturnTypes: s.ReturnTypes,
		},
	}, nil
}

// NormalizeColor turns "#rgb", "#rrggbb" or "rrggbb" into upper case "#RRGGBB".
func NormalizeColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidColor, strings.TrimPrefix(s, "#"))
	}
	return strings.ToUpper(c.Hex()), nil
}
