package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/frametree/internal/errors"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "frametree.json"

// Default values.
const (
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultInspectAddr      = "localhost:7070"
	DefaultSnapshotBackend  = BackendFile
	DefaultSnapshotDir      = ".frametree/snapshots"
	DefaultSnapshotRegion   = "us-east-1"
	DefaultMaxFragmentDepth = 32
)

// Snapshot backends.
const (
	BackendFile = "file"
	BackendS3   = "s3"
)

// Config represents the frametree.json configuration.
// Every field can also be set through a FRAMETREE_* environment variable,
// which takes precedence over the file.
type Config struct {
	// Log configures the slog handler used by the CLI and inspector.
	Log LogConfig `json:"log"`

	// Inspect configures the HTTP inspector.
	Inspect InspectConfig `json:"inspect"`

	// Snapshot configures where encoded frame arrays are stored.
	Snapshot SnapshotConfig `json:"snapshot"`

	// MaxFragmentDepth bounds how deep nested child content is expanded
	// when frames are encoded.
	MaxFragmentDepth int `json:"maxFragmentDepth,omitempty" env:"FRAMETREE_MAX_FRAGMENT_DEPTH"`

	// configPath is the path this config was loaded from (not serialized).
	configPath string
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"FRAMETREE_LOG_LEVEL"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" env:"FRAMETREE_LOG_FORMAT"`
}

// InspectConfig configures the inspector server.
type InspectConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" env:"FRAMETREE_INSPECT_ADDR"`

	// Metrics exposes /metrics when true.
	Metrics bool `json:"metrics,omitempty" env:"FRAMETREE_INSPECT_METRICS"`
}

// SnapshotConfig configures the snapshot store.
type SnapshotConfig struct {
	// Backend is "file" or "s3".
	Backend string `json:"backend,omitempty" env:"FRAMETREE_SNAPSHOT_BACKEND"`

	// Dir is the snapshot directory for the file backend, relative to the
	// config file.
	Dir string `json:"dir,omitempty" env:"FRAMETREE_SNAPSHOT_DIR"`

	// Bucket, Prefix, Region, and Endpoint configure the s3 backend.
	Bucket   string `json:"bucket,omitempty"   env:"FRAMETREE_S3_BUCKET"`
	Prefix   string `json:"prefix,omitempty"   env:"FRAMETREE_S3_PREFIX"`
	Region   string `json:"region,omitempty"   env:"FRAMETREE_S3_REGION"`
	Endpoint string `json:"endpoint,omitempty" env:"FRAMETREE_S3_ENDPOINT"`

	// Static credentials. Never written back to disk.
	AccessKeyID     string `json:"-" env:"FRAMETREE_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `json:"-" env:"FRAMETREE_S3_SECRET_ACCESS_KEY"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// A missing frametree.json is not an error: defaults are used and
// environment overrides still apply.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		cfg := &Config{configPath: path}
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		cfg.applyDefaults()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("F040").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("F040").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// applyEnv overlays FRAMETREE_* variables. Unset variables leave the
// file's values untouched.
func (c *Config) applyEnv() error {
	if err := env.Parse(c); err != nil {
		return errors.New("F042").Wrap(err)
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("F040").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("F040").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = DefaultSnapshotBackend
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
	if c.Snapshot.Region == "" {
		c.Snapshot.Region = DefaultSnapshotRegion
	}
	if c.MaxFragmentDepth == 0 {
		c.MaxFragmentDepth = DefaultMaxFragmentDepth
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("F041").
			WithDetail("log.format must be \"text\" or \"json\", got " + strconv.Quote(c.Log.Format))
	}

	switch c.Snapshot.Backend {
	case BackendFile:
	case BackendS3:
		if c.Snapshot.Bucket == "" {
			return errors.New("F041").
				WithDetail("snapshot.bucket is required for the s3 backend").
				WithSuggestion("Set snapshot.bucket in " + ConfigFileName + " or FRAMETREE_S3_BUCKET")
		}
	default:
		return errors.New("F041").
			WithDetail("snapshot.backend must be \"file\" or \"s3\", got " + strconv.Quote(c.Snapshot.Backend))
	}

	if c.MaxFragmentDepth < 1 || c.MaxFragmentDepth > 1024 {
		return errors.New("F041").
			WithDetail("maxFragmentDepth must be between 1 and 1024, got " + strconv.Itoa(c.MaxFragmentDepth))
	}

	return nil
}

// SnapshotDir returns the absolute path of the file snapshot directory.
func (c *Config) SnapshotDir() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// Logger builds a slog.Logger from the log settings.
func (c *Config) Logger() *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.New("F041").
		WithDetail("log.level must be one of debug, info, warn, error; got " + strconv.Quote(s))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the nearest frametree.json.
func FindProjectRoot(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		if Exists(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest frametree.json above the working
// directory, or defaults when none exists.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if root, ok := FindProjectRoot(wd); ok {
		return Load(root)
	}
	return Load(wd)
}
