package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode             string        `mapstructure:"mode"`
	Port             int           `mapstructure:"port"`
	StaticPath       string        `mapstructure:"static_path"`
	ReadLimit        int64         `mapstructure:"read_limit"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	Secret           string        `mapstructure:"secret"`
	ChatHistoryLimit int           `mapstructure:"chat_history_limit"`
	MaxFileBytes     int64         `mapstructure:"max_file_bytes"`
	SendBuffer       int           `mapstructure:"send_buffer"`
	JoinRateLimit    int           `mapstructure:"join_rate_limit"`
	JoinRateInterval time.Duration `mapstructure:"join_rate_interval"`
	STUNURLs         []string      `mapstructure:"stun_urls"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	// Floor only: the signal adapter raises the effective read limit to at
	// least twice max_file_bytes so base64-inflated file frames fit.
	v.SetDefault("read_limit", 100<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("chat_history_limit", 50)
	v.SetDefault("max_file_bytes", 50<<20)
	v.SetDefault("send_buffer", 32)
	v.SetDefault("join_rate_limit", 10)
	v.SetDefault("join_rate_interval", "1m")
	v.SetDefault("stun_urls", []string{"stun:stun.l.google.com:19302"})

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
