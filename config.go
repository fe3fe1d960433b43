package sprout

import (
	"github.com/go-viper/mapstructure/v2"
	yaml "go.yaml.in/yaml/v3"
)

// Features are the independent switches controlling which constructs the
// engine interprets. A disabled feature makes the matching syntax pass
// through as literal text; it never causes an error.
type Features struct {
	// Variable substitution: ${VAR} and $VAR
	Variables bool `yaml:"variables" json:"variables"`
	// Default values: ${VAR:-default}
	Defaults bool `yaml:"defaults" json:"defaults"`
	// Alternate (loose) defaults: ${VAR-default}
	Alternates bool `yaml:"alternates" json:"alternates"`
	// Conditional substitution: ${VAR:+value} and ${VAR+value}
	Conditionals bool `yaml:"conditionals" json:"conditionals"`
	// Escape sequences: \n, \t, \$, \` and friends
	Escapes bool `yaml:"escapes" json:"escapes"`
	// Command substitution: $(cmd)
	Commands bool `yaml:"commands" json:"commands"`
	// Legacy backtick command substitution: `cmd`
	BacktickCommands bool `yaml:"backtick_commands" json:"backtick_commands"`
}

// Config is the read-only configuration for one engine. Pure data; it is
// never mutated during a resolution pass.
type Config struct {
	// MaxDepth bounds recursive variable expansion. Every nested
	// expansion increments the depth, so a self-referential chain fails
	// instead of looping.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
	// StrictUnsets is reserved and currently has no effect.
	StrictUnsets bool `yaml:"strict_unsets" json:"strict_unsets"`

	Features Features `yaml:"features" json:"features"`
}

// DefaultFeatures returns the feature set with everything enabled.
func DefaultFeatures() Features {
	return Features{
		Variables:        true,
		Defaults:         true,
		Alternates:       true,
		Conditionals:     true,
		Escapes:          true,
		Commands:         true,
		BacktickCommands: true,
	}
}

// DefaultConfig returns the default configuration: depth 10, all
// features enabled.
func DefaultConfig() Config {
	return Config{
		MaxDepth: 10,
		Features: DefaultFeatures(),
	}
}

// ConfigFromYAML overlays a YAML document onto the default configuration,
// so absent keys keep their defaults.
func ConfigFromYAML(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromMap decodes a generic key/value map (as produced by config
// loaders) onto the default configuration. Keys follow the json tags;
// scalar types are coerced loosely.
func ConfigFromMap(data map[string]any) (Config, error) {
	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(data); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
