package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-burner/internal/style"
	"github.com/MimeLyc/subtitle-burner/pkg/log"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// Media Directory Configuration:
// - MOVIE_DIR: Movie directory (default: /movies)
// - ANIMATION_DIR: Animation directory (default: /animations)
// - TELEPLAY_DIR: Teleplay directory (default: /teleplays)
// - SHOW_DIR: Show directory (default: /shows)
// - DOCUMENTARY_DIR: Documentary directory (default: /documentaries)
//
// Burn Configuration:
// - SUBTITLE_LANG: language tag of the sidecar subtitles (default: zh-Hans)
// - OUTPUT_DIR: output directory; empty means <dir>/merged_videos
// - SCRATCH_DIR: scratch directory for converted captions (default: system temp)
// - QUALITY_TIER: high|medium|low|lossless|device (default: high)
// - BURN_WORKERS: concurrently running encodes (default: 1)
// - ENCODE_TIMEOUT: per-job encode deadline in seconds (default: 600)
// - CRON_EXPR: schedule for batch runs, 6-field with seconds (default: "0 0 0 * * *")
// - DB_PATH: sqlite file for batch history (default: ./data/subtitle-burner.db)
// - DRY_RUN: report subtitle presence without encoding (default: false)
//
// Subtitle Style Configuration:
// - STYLE_FONTSIZE, STYLE_FONTCOLOR, STYLE_OUTLINE, STYLE_OUTLINECOLOR,
//   STYLE_SHADOW, STYLE_SHADOWCOLOR, STYLE_FONTNAME

type Config struct {
	// Media Directory Configuration
	Media MediaConfig `json:"media"`

	// Burn Configuration
	Burn BurnConfig `json:"burn"`
}

// MediaConfig holds the configuration for media directories
type MediaConfig struct {
	MovieDir       string `json:"movie_dir"`
	AnimationDir   string `json:"animation_dir"`
	TeleplayDir    string `json:"teleplay_dir"`
	ShowDir        string `json:"show_dir"`
	DocumentaryDir string `json:"documentary_dir"`
}

func (c MediaConfig) MediaPaths() []string {
	ret := make([]string, 0)
	if c.MovieDir != "" {
		ret = append(ret, c.MovieDir)
	}
	if c.AnimationDir != "" {
		ret = append(ret, c.AnimationDir)
	}
	if c.TeleplayDir != "" {
		ret = append(ret, c.TeleplayDir)
	}
	if c.ShowDir != "" {
		ret = append(ret, c.ShowDir)
	}
	if c.DocumentaryDir != "" {
		ret = append(ret, c.DocumentaryDir)
	}
	return ret
}

// BurnConfig holds the configuration for the merge pipeline
type BurnConfig struct {
	LangTag       string        `json:"lang_tag"`
	OutputDir     string        `json:"output_dir"`
	ScratchDir    string        `json:"scratch_dir"`
	QualityTier   string        `json:"quality_tier"`
	Workers       int           `json:"workers"`
	EncodeTimeout time.Duration `json:"encode_timeout"`
	CronExpr      string        `json:"cron_expr"`
	DBPath        string        `json:"db_path"`
	DryRun        bool          `json:"dry_run"`
	Style         style.Style   `json:"style"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// New loads .env (when present) and builds the configuration from the
// environment.
func New(opts ...Option) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded configuration overrides from .env")
	}
	return NewFromEnv(opts...)
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Media: MediaConfig{
			MovieDir:       getEnvString("MOVIE_DIR", "/movies"),
			AnimationDir:   getEnvString("ANIMATION_DIR", "/animations"),
			TeleplayDir:    getEnvString("TELEPLAY_DIR", "/teleplays"),
			ShowDir:        getEnvString("SHOW_DIR", "/shows"),
			DocumentaryDir: getEnvString("DOCUMENTARY_DIR", "/documentaries"),
		},
		Burn: BurnConfig{
			LangTag:       getEnvString("SUBTITLE_LANG", "zh-Hans"),
			OutputDir:     getEnvString("OUTPUT_DIR", ""),
			ScratchDir:    getEnvString("SCRATCH_DIR", os.TempDir()),
			QualityTier:   getEnvString("QUALITY_TIER", "high"),
			Workers:       getEnvInt("BURN_WORKERS", 1),
			EncodeTimeout: time.Duration(getEnvInt("ENCODE_TIMEOUT", 600)) * time.Second,
			CronExpr:      getEnvString("CRON_EXPR", "0 0 0 * * *"),
			DBPath:        getEnvString("DB_PATH", "./data/subtitle-burner.db"),
			DryRun:        getEnvBool("DRY_RUN", false),
			Style: style.Style{
				FontSize:     getEnvInt("STYLE_FONTSIZE", 24),
				FontColor:    getEnvString("STYLE_FONTCOLOR", "white"),
				Outline:      getEnvInt("STYLE_OUTLINE", 2),
				OutlineColor: getEnvString("STYLE_OUTLINECOLOR", "black"),
				Shadow:       getEnvInt("STYLE_SHADOW", 1),
				ShadowColor:  getEnvString("STYLE_SHADOWCOLOR", "black"),
				FontName:     getEnvString("STYLE_FONTNAME", "Arial"),
			},
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if _, err := language.Parse(c.Burn.LangTag); err != nil {
		return fmt.Errorf("SUBTITLE_LANG %q is not a valid language tag: %w", c.Burn.LangTag, err)
	}
	if c.Burn.Workers < 1 {
		return fmt.Errorf("BURN_WORKERS must be at least 1")
	}
	if c.Burn.EncodeTimeout <= 0 {
		return fmt.Errorf("ENCODE_TIMEOUT must be positive")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
