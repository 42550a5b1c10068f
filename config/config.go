// Package config loads the rating session settings.
//
// Values come from, lowest precedence first: built-in defaults, an optional
// YAML file (koanf), a .env file in the working directory (godotenv, never
// overriding variables already set), the process environment, and finally
// command-line flags applied with ApplyArgs.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Presenter names
const (
	PresenterViewer = "viewer"
	PresenterWindow = "window"
)

// Default values
const (
	DefaultK            = 40.0
	DefaultMinScore     = 1100.0
	DefaultImageDir     = "."
	DefaultExtensions   = ".jpg"
	DefaultRatingsFile  = "ratings.csv"
	DefaultPresenter    = PresenterViewer
	DefaultViewer       = "sxiv"
	DefaultWindowHeight = 800
)

// Config is built once at startup and passed by value.
type Config struct {
	K        float64 // Elo step size
	MinScore float64 // images rated below this are no longer shown

	ImageDir   string
	Extensions []string
	Recursive  bool

	RatingsFile string
	Database    string // SQLite file; replaces RatingsFile when set
	History     string // JSON lines match log
	MetricsFile string // prometheus textfile written at shutdown

	Presenter    string
	Viewer       string
	ViewerArgs   []string
	WindowHeight int

	Seed    uint64
	SeedSet bool

	NoColor bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		K:            DefaultK,
		MinScore:     DefaultMinScore,
		ImageDir:     DefaultImageDir,
		Extensions:   []string{DefaultExtensions},
		RatingsFile:  DefaultRatingsFile,
		Presenter:    DefaultPresenter,
		Viewer:       DefaultViewer,
		WindowHeight: DefaultWindowHeight,
	}
}

// source resolves a setting from the environment first, then the file.
type source struct {
	k *koanf.Koanf
}

func (s source) lookup(envKey string) (string, bool) {
	if v, ok := os.LookupEnv(envKey); ok {
		return v, true
	}
	key := strings.ToLower(envKey)
	if s.k == nil || !s.k.Exists(key) {
		return "", false
	}
	if list, ok := s.k.Get(key).([]interface{}); ok {
		parts := make([]string, 0, len(list))
		for _, v := range list {
			parts = append(parts, fmt.Sprint(v))
		}
		return strings.Join(parts, ","), true
	}
	return s.k.String(key), true
}

// Load builds the configuration. configFilePath may be empty. Every
// malformed value is reported; the returned error joins all of them.
func Load(configFilePath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	src := source{}
	if configFilePath != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", configFilePath, err)
		}
		src.k = k
	}

	cfg := Default()
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(parseFloat(src, "K", &cfg.K))
	collect(parseFloat(src, "MIN_SCORE", &cfg.MinScore))
	collect(parseBool(src, "RECURSIVE", &cfg.Recursive))
	collect(parseInt(src, "WINDOW_HEIGHT", &cfg.WindowHeight))

	if v, ok := src.lookup("SEED"); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SEED environment variable can't be parsed as an unsigned integer: %q", v))
		} else {
			cfg.Seed, cfg.SeedSet = seed, true
		}
	}

	setString(src, "IMAGE_DIR", &cfg.ImageDir)
	setString(src, "RATINGS_FILE", &cfg.RatingsFile)
	setString(src, "DATABASE", &cfg.Database)
	setString(src, "HISTORY", &cfg.History)
	setString(src, "METRICS_FILE", &cfg.MetricsFile)
	setString(src, "PRESENTER", &cfg.Presenter)
	setString(src, "VIEWER", &cfg.Viewer)

	// any non-empty NO_COLOR disables color, see no-color.org
	if v, ok := src.lookup("NO_COLOR"); ok {
		cfg.NoColor = strings.TrimSpace(v) != ""
	}
	if v, ok := src.lookup("IMAGE_EXTENSIONS"); ok {
		cfg.Extensions = splitList(v)
	}
	if v, ok := src.lookup("VIEWER_ARGS"); ok {
		cfg.ViewerArgs = strings.Fields(v)
	}

	errs = append(errs, cfg.Validate()...)
	return cfg, errors.Join(errs...)
}

// ApplyArgs overrides settings with command-line flags.
func (c *Config) ApplyArgs(args map[string]string) error {
	if v, ok := args["dir"]; ok {
		c.ImageDir = v
	}
	if v, ok := args["ratings"]; ok {
		c.RatingsFile = v
	}
	if v, ok := args["database"]; ok {
		c.Database = v
	}
	if v, ok := args["presenter"]; ok {
		c.Presenter = v
	}
	if v, ok := args["seed"]; ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid --seed value %q", v)
		}
		c.Seed, c.SeedSet = seed, true
	}
	return errors.Join(c.Validate()...)
}

// Validate checks value ranges and returns every problem found.
func (c Config) Validate() []error {
	var errs []error
	if math.IsNaN(c.K) || math.IsInf(c.K, 0) {
		errs = append(errs, fmt.Errorf("K must be a finite number"))
	}
	if math.IsNaN(c.MinScore) {
		errs = append(errs, fmt.Errorf("MIN_SCORE must be a number"))
	}
	if strings.TrimSpace(c.ImageDir) == "" {
		errs = append(errs, fmt.Errorf("IMAGE_DIR must not be empty"))
	}
	if c.Database == "" && strings.TrimSpace(c.RatingsFile) == "" {
		errs = append(errs, fmt.Errorf("RATINGS_FILE must not be empty"))
	}
	switch c.Presenter {
	case PresenterViewer:
		if strings.TrimSpace(c.Viewer) == "" {
			errs = append(errs, fmt.Errorf("VIEWER must not be empty"))
		}
	case PresenterWindow:
		if c.WindowHeight <= 0 {
			errs = append(errs, fmt.Errorf("WINDOW_HEIGHT must be positive, got %d", c.WindowHeight))
		}
	default:
		errs = append(errs, fmt.Errorf("PRESENTER must be %s or %s, got %q", PresenterViewer, PresenterWindow, c.Presenter))
	}
	return errs
}

func parseFloat(src source, key string, dst *float64) error {
	v, ok := src.lookup(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("%s environment variable can't be parsed as a number: %q", key, v)
	}
	*dst = f
	return nil
}

func parseInt(src source, key string, dst *int) error {
	v, ok := src.lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s environment variable can't be parsed as an integer: %q", key, v)
	}
	*dst = n
	return nil
}

func parseBool(src source, key string, dst *bool) error {
	v, ok := src.lookup(key)
	if !ok {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		*dst = true
	case "false", "0", "no", "off", "":
		*dst = false
	default:
		return fmt.Errorf("%s environment variable can't be parsed as a boolean: %q", key, v)
	}
	return nil
}

func setString(src source, key string, dst *string) {
	if v, ok := src.lookup(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
