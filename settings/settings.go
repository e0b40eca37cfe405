// Package settings loads server settings with viper: built-in defaults, an optional
// JSON settings file and TRIPLANETARY_* environment overrides, in increasing priority.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TRIPLANETARY_PORT
const EnvPrefix = "TRIPLANETARY"

// Settings holds everything the server and CLI need at startup
type Settings struct {
	Host        string      `mapstructure:"host"`
	Port        int         `mapstructure:"port"`
	ScenarioDir string      `mapstructure:"scenarioDir"`
	UsersDB     string      `mapstructure:"usersDB"`
	LogLevel    string      `mapstructure:"logLevel"`
	LogPretty   bool        `mapstructure:"logPretty"`
	SessionTTL  string      `mapstructure:"sessionTTL"`
	Auth        AuthConfig  `mapstructure:"auth"`
	Ngrok       NgrokConfig `mapstructure:"ngrok"`
}

// AuthConfig controls HTTP basic authentication against the user store
type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// NgrokConfig controls the optional public tunnel
type NgrokConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	AuthToken string `mapstructure:"authToken"`
	Domain    string `mapstructure:"domain"`
}

// Addr returns host:port
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("port", 8080)
	v.SetDefault("scenarioDir", "configs")
	v.SetDefault("usersDB", "users.db")
	v.SetDefault("logLevel", "info")
	v.SetDefault("logPretty", true)
	v.SetDefault("sessionTTL", "24h")

	v.SetDefault("auth.enabled", false)

	v.SetDefault("ngrok.enabled", false)
	v.SetDefault("ngrok.authToken", "")
	v.SetDefault("ngrok.domain", "")
}

// New returns a viper instance with defaults and environment overrides wired
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv upper-cases keys, so camelCase keys need explicit names
	_ = v.BindEnv("scenarioDir", EnvPrefix+"_SCENARIO_DIR")
	_ = v.BindEnv("usersDB", EnvPrefix+"_USERS_DB")
	_ = v.BindEnv("logLevel", EnvPrefix+"_LOG_LEVEL")
	_ = v.BindEnv("logPretty", EnvPrefix+"_LOG_PRETTY")
	_ = v.BindEnv("sessionTTL", EnvPrefix+"_SESSION_TTL")
	_ = v.BindEnv("ngrok.authToken", EnvPrefix+"_NGROK_AUTHTOKEN", "NGROK_AUTHTOKEN")
	_ = v.BindEnv("ngrok.domain", EnvPrefix+"_NGROK_DOMAIN", "NGROK_DOMAIN")

	return v
}

// Load reads the optional settings file and decodes the result.
// An empty path looks for triplanetary.json in the working directory and is fine when absent.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("triplanetary")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if s.Port <= 0 || s.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", s.Port)
	}

	return &s, nil
}
