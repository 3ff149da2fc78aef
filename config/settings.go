package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"portfolio-api/smartsheet"
)

const (
	TokenEnv = "SMARTSHEET_API_TOKEN"

	DefaultSheetConfigPath = "data/smartsheet_config.json"
	DefaultStaticDir       = "."
	DefaultPort            = "8080"
)

// DeployMode selects the caching policy of API responses.
type DeployMode string

const (
	ModeDev        DeployMode = "dev"
	ModeServerless DeployMode = "serverless"
)

// ParseDeployMode accepts dev or serverless, case-insensitively.
func ParseDeployMode(s string) (DeployMode, error) {
	switch DeployMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDev:
		return ModeDev, nil
	case ModeServerless:
		return ModeServerless, nil
	}
	return "", fmt.Errorf("invalid deploy mode %q: want %q or %q", s, ModeDev, ModeServerless)
}

// CacheControl returns the Cache-Control value for successful API responses.
func (m DeployMode) CacheControl() string {
	if m == ModeServerless {
		return "s-maxage=60, stale-while-revalidate=300"
	}
	return "no-cache"
}

// Settings is the process configuration. It is built once at startup and
// only read afterwards.
type Settings struct {
	Token           string
	SheetConfigPath string
	StaticDir       string
	Addr            string
	BaseURL         string
	Mode            DeployMode
	Debug           bool
	Timeout         time.Duration
}

// HasToken reports whether an API token is configured.
func (s Settings) HasToken() bool {
	return s.Token != ""
}

// SettingsFromEnv reads Settings from the process environment, applying
// defaults for unset variables.
func SettingsFromEnv() (Settings, error) {
	s := Settings{
		Token:           strings.TrimSpace(os.Getenv(TokenEnv)),
		SheetConfigPath: envOr("SHEET_CONFIG_PATH", DefaultSheetConfigPath),
		StaticDir:       envOr("STATIC_DIR", DefaultStaticDir),
		Addr:            ":" + envOr("PORT", DefaultPort),
		BaseURL:         strings.TrimRight(envOr("SMARTSHEET_BASE_URL", smartsheet.DefaultBaseURL), "/"),
		Timeout:         smartsheet.DefaultTimeout,
	}

	mode, err := ParseDeployMode(os.Getenv("DEPLOY_MODE"))
	if err != nil {
		return Settings{}, err
	}
	s.Mode = mode

	if v := os.Getenv("DEBUG"); v != "" {
		dbg, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid DEBUG: %w", err)
		}
		s.Debug = dbg
	}

	if v := os.Getenv("SMARTSHEET_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid SMARTSHEET_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Settings{}, fmt.Errorf("invalid SMARTSHEET_TIMEOUT: must be greater than zero")
		}
		s.Timeout = d
	}
	return s, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment. Variables
// that are already set keep their values. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
