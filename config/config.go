package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultPath is where the optional JSON config file is looked up
const DefaultPath = "config/config.json"

// AppConfig holds file and environment driven configuration values.
// The session secret has no default and must come from the file or the environment.
type AppConfig struct {
	AppPort string
	// Session cookie
	SessionKey    string
	SessionSecret string
	SessionMaxAge int // seconds
	SessionSecure bool
	// Feed paging; zero or less lists everything on one page
	PerPage int
	// Storage backend: "badger" or "mongo"
	StoreDriver string
	BadgerPath  string
	MongoURI    string
	MongoDB     string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// fileConfig is the grouped layout of config.json
type fileConfig struct {
	App struct {
		Port    string `json:"port"`
		PerPage int    `json:"per_page"`
	} `json:"app"`
	Session struct {
		Key    string `json:"key"`
		Secret string `json:"secret"`
		MaxAge int    `json:"max_age"`
		Secure bool   `json:"secure"`
	} `json:"session"`
	Store struct {
		Driver     string `json:"driver"`
		BadgerPath string `json:"badger_path"`
		MongoURI   string `json:"mongo_uri"`
		MongoDB    string `json:"mongo_db"`
	} `json:"store"`
	Log struct {
		Level      string `json:"level"`
		Path       string `json:"path"`
		MaxSizeMB  int    `json:"max_size_mb"`
		MaxBackups int    `json:"max_backups"`
		MaxAgeDays int    `json:"max_age_days"`
		Compress   bool   `json:"compress"`
	} `json:"log"`
}

// Load builds the configuration. Precedence: JSON file at path -> defaults ->
// environment overrides. Variables from envFiles (".env" when none are given)
// are loaded first without replacing variables already set. Missing files are
// not an error.
func Load(path string, envFiles ...string) (AppConfig, error) {
	var cfg AppConfig

	if err := loadJSONConfig(path, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("invalid env file %s: %w", f, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server
func (c AppConfig) Addr() string {
	if strings.Contains(c.AppPort, ":") {
		return c.AppPort
	}
	return ":" + c.AppPort
}

// loadJSONConfig reads the JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil // silently ignore missing file
	}

	var raw fileConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out.AppPort = raw.App.Port
	out.PerPage = raw.App.PerPage
	out.SessionKey = raw.Session.Key
	out.SessionSecret = raw.Session.Secret
	out.SessionMaxAge = raw.Session.MaxAge
	out.SessionSecure = raw.Session.Secure
	out.StoreDriver = raw.Store.Driver
	out.BadgerPath = raw.Store.BadgerPath
	out.MongoURI = raw.Store.MongoURI
	out.MongoDB = raw.Store.MongoDB
	out.LogLevel = raw.Log.Level
	out.LogPath = raw.Log.Path
	out.LogMaxSizeMB = raw.Log.MaxSizeMB
	out.LogMaxBackups = raw.Log.MaxBackups
	out.LogMaxAgeDays = raw.Log.MaxAgeDays
	out.LogCompress = raw.Log.Compress
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "3000"
	}
	if c.SessionKey == "" {
		c.SessionKey = "myblog"
	}
	if c.SessionMaxAge == 0 {
		c.SessionMaxAge = 30 * 24 * 60 * 60
	}
	if c.PerPage == 0 {
		c.PerPage = 10
	}
	if c.StoreDriver == "" {
		c.StoreDriver = "badger"
	}
	if c.BadgerPath == "" {
		c.BadgerPath = "data/badger"
	}
	if c.MongoURI == "" {
		c.MongoURI = "mongodb://localhost:27017"
	}
	if c.MongoDB == "" {
		c.MongoDB = "myblog"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) error {
	strs := map[string]*string{
		"MYBLOG_PORT":           &c.AppPort,
		"MYBLOG_SESSION_KEY":    &c.SessionKey,
		"MYBLOG_SESSION_SECRET": &c.SessionSecret,
		"MYBLOG_STORE_DRIVER":   &c.StoreDriver,
		"MYBLOG_BADGER_PATH":    &c.BadgerPath,
		"MYBLOG_MONGO_URI":      &c.MongoURI,
		"MYBLOG_MONGO_DB":       &c.MongoDB,
		"MYBLOG_LOG_LEVEL":      &c.LogLevel,
		"MYBLOG_LOG_PATH":       &c.LogPath,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MYBLOG_SESSION_MAX_AGE":  &c.SessionMaxAge,
		"MYBLOG_PER_PAGE":         &c.PerPage,
		"MYBLOG_LOG_MAX_SIZE_MB":  &c.LogMaxSizeMB,
		"MYBLOG_LOG_MAX_BACKUPS":  &c.LogMaxBackups,
		"MYBLOG_LOG_MAX_AGE_DAYS": &c.LogMaxAgeDays,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"MYBLOG_SESSION_SECURE": &c.SessionSecure,
		"MYBLOG_LOG_COMPRESS":   &c.LogCompress,
	}
	for key, dst := range bools {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		*dst = b
	}
	return nil
}
