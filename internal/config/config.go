package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB     DBConfig     `mapstructure:"db"`
	Server ServerConfig `mapstructure:"server"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Log    LogConfig    `mapstructure:"log"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// ExposeErrors puts the raw error text into 500 response bodies.
	ExposeErrors    bool          `mapstructure:"expose_errors"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AuthConfig struct {
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	MinPasswordLength int           `mapstructure:"min_password_length"`
	CookieName        string        `mapstructure:"cookie_name"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.expose_errors", true)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("auth.session_ttl", 30*24*time.Hour)
	v.SetDefault("auth.min_password_length", 6)
	v.SetDefault("auth.cookie_name", "session_token")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("./configs")
	v.AddConfigPath("/configs")
	v.SetConfigName("settings")
	v.SetConfigType("yml")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("db.source", "DB_SOURCE", "DATABASE_URL"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
