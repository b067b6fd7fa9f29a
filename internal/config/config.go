package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	Port string

	ExplorerAPIBaseURL string
	ExplorerAPIKey     string

	// DatabaseURL is a postgres:// URL or a sqlite: path. Empty disables SQL storage.
	DatabaseURL  string
	StationsPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ClusterRadiusPx      float64
	ClusterMaxZoom       int
	LayerLoadConcurrency int

	ToastDuration   time.Duration
	CameraDuration  time.Duration
	CameraPaddingPx float64
	SummaryStoreTTL time.Duration
	SessionIdle     time.Duration
}

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: parse int %q: %w", key, v, err)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: parse float %q: %w", key, v, err)
	}
	return f, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: parse duration %q: %w", key, v, err)
	}
	return d, nil
}

// Load reads the full configuration. All parse failures are reported together.
func Load() (Config, error) {
	cfg := Config{
		Port:               Get("PORT", "8080"),
		ExplorerAPIBaseURL: strings.TrimRight(Get("EXPLORER_API_BASE_URL", ""), "/"),
		ExplorerAPIKey:     Get("EXPLORER_API_KEY", ""),
		DatabaseURL:        Get("DATABASE_URL", ""),
		StationsPath:       Get("STATIONS_PATH", "data/stations.json"),
		RedisAddr:          Get("REDIS_ADDR", ""),
		RedisPassword:      Get("REDIS_PASSWORD", ""),
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	cfg.RedisDB, err = GetInt("REDIS_DB", 0)
	collect(err)
	cfg.ClusterRadiusPx, err = GetFloat("CLUSTER_RADIUS_PX", 50)
	collect(err)
	cfg.ClusterMaxZoom, err = GetInt("CLUSTER_MAX_ZOOM", 14)
	collect(err)
	cfg.LayerLoadConcurrency, err = GetInt("LAYER_LOAD_CONCURRENCY", 6)
	collect(err)
	cfg.ToastDuration, err = GetDuration("TOAST_DURATION", 4*time.Second)
	collect(err)
	cfg.CameraDuration, err = GetDuration("CAMERA_DURATION", time.Second)
	collect(err)
	cfg.CameraPaddingPx, err = GetFloat("CAMERA_PADDING_PX", 40)
	collect(err)
	cfg.SummaryStoreTTL, err = GetDuration("SUMMARY_STORE_TTL", 24*time.Hour)
	collect(err)
	cfg.SessionIdle, err = GetDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	collect(err)

	if cfg.ExplorerAPIBaseURL == "" {
		errs = append(errs, errors.New("EXPLORER_API_BASE_URL is required"))
	} else if u, err := url.Parse(cfg.ExplorerAPIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("EXPLORER_API_BASE_URL %q is not an absolute URL", cfg.ExplorerAPIBaseURL))
	}
	if cfg.ClusterRadiusPx <= 0 {
		errs = append(errs, fmt.Errorf("CLUSTER_RADIUS_PX must be positive, got %v", cfg.ClusterRadiusPx))
	}
	if cfg.ClusterMaxZoom < 0 || cfg.ClusterMaxZoom > 24 {
		errs = append(errs, fmt.Errorf("CLUSTER_MAX_ZOOM must be between 0 and 24, got %d", cfg.ClusterMaxZoom))
	}
	if cfg.LayerLoadConcurrency < 1 {
		errs = append(errs, fmt.Errorf("LAYER_LOAD_CONCURRENCY must be at least 1, got %d", cfg.LayerLoadConcurrency))
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %w", errors.Join(errs...))
	}
	return cfg, nil
}
