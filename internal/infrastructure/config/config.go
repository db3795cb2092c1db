package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	// StoreTimeout bounds every store round trip made on behalf of a
	// single request.
	StoreTimeout time.Duration

	DevMode bool
}

func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:    envDefault("HTTP_ADDR", ":8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DevMode:     strings.TrimSpace(os.Getenv("DEV_MODE")) == "1",
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	sec, err := strconv.Atoi(envDefault("STORE_TIMEOUT_SECONDS", "3"))
	if err != nil || sec < 1 {
		return cfg, fmt.Errorf("invalid STORE_TIMEOUT_SECONDS")
	}
	cfg.StoreTimeout = time.Duration(sec) * time.Second
	return cfg, nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}
