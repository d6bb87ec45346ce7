// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/user/framecut/pkg/adapters/ffmpeg"
	"github.com/user/framecut/pkg/adapters/youtube"
	"github.com/user/framecut/pkg/pipeline"
	"github.com/user/framecut/pkg/ports"
)

// Config represents the full configuration for framecut.
type Config struct {
	LogLevel string `yaml:"log_level" env:"FRAMECUT_LOG_LEVEL"`

	Video   VideoConfig   `yaml:"video"`
	YouTube YouTubeConfig `yaml:"youtube"`

	// Batch
	Jobs []JobConfig `yaml:"jobs"`
}

// VideoConfig holds encoder and tool settings.
type VideoConfig struct {
	FourCC      string `yaml:"fourcc" env:"FRAMECUT_FOURCC"`
	Quality     int    `yaml:"quality"` // 0 = codec default
	FFmpegPath  string `yaml:"ffmpeg_path" env:"FFMPEG_PATH"`
	FFprobePath string `yaml:"ffprobe_path" env:"FFPROBE_PATH"`
}

// YouTubeConfig holds caption collection settings.
type YouTubeConfig struct {
	APIKey            string   `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	Languages         []string `yaml:"languages" env:"FRAMECUT_LANGUAGES"`
	PageSize          int      `yaml:"page_size"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	Output            string   `yaml:"output"`
	URLs              []string `yaml:"urls"`
}

// JobConfig describes one batch job.
type JobConfig struct {
	Input    string  `yaml:"input"`
	Output   string  `yaml:"output"`
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`

	// Optional crop of the trimmed clip
	Crop           *pipeline.Rectangle `yaml:"crop"`
	CropOutput     string              `yaml:"crop_output"`
	OutputWidth    int                 `yaml:"output_width"`
	OutputHeight   int                 `yaml:"output_height"`
	DiscardTrimmed bool                `yaml:"discard_trimmed"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Video: VideoConfig{
			FourCC: ffmpeg.DefaultFourCC,
		},
		YouTube: YouTubeConfig{
			Languages:         []string{"ru", "uk", "en", "a.en", "a.uk"},
			PageSize:          youtube.MaxPageSize,
			RequestsPerSecond: 2,
			Output:            "youtube_subtitles.json",
		},
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Load reads path when it is non-empty, then applies environment
// overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overlays environment variables onto cfg. Unset variables leave
// the current values in place.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	if c.LogLevel != "" {
		var level ports.LogLevel
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.Video.FourCC != "" {
		if _, err := ffmpeg.LookupFourCC(c.Video.FourCC); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.YouTube.PageSize < 0 || c.YouTube.PageSize > youtube.MaxPageSize {
		return fmt.Errorf("config: page_size must be between 1 and %d", youtube.MaxPageSize)
	}
	for i, job := range c.Jobs {
		if job.Input == "" {
			return fmt.Errorf("config: job %d: input is required", i+1)
		}
		if job.Crop != nil && job.Crop.Empty() {
			return fmt.Errorf("config: job %d: crop has no area", i+1)
		}
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}

// Locator returns the ffmpeg tool locator for the configured paths.
func (c Config) Locator() ffmpeg.Locator {
	return ffmpeg.Locator{FFmpegPath: c.Video.FFmpegPath, FFprobePath: c.Video.FFprobePath}
}

// YouTubeOptions converts the YouTube settings to client options.
func (c Config) YouTubeOptions(log ports.Logger) youtube.Options {
	return youtube.Options{
		APIKey:            c.YouTube.APIKey,
		PageSize:          c.YouTube.PageSize,
		RequestsPerSecond: c.YouTube.RequestsPerSecond,
		Logger:            log,
	}
}

// ClipJobs converts the configured jobs to batch runner jobs. A job
// without an output is written next to its input as <name>_trim_NNN<ext>,
// numbered from 1.
func (c Config) ClipJobs() []pipeline.ClipJob {
	jobs := make([]pipeline.ClipJob, 0, len(c.Jobs))
	for i, jc := range c.Jobs {
		job := pipeline.ClipJob{
			InputPath:  jc.Input,
			OutputPath: jc.Output,
			Range: pipeline.TimeRange{
				StartSeconds:    jc.Start,
				DurationSeconds: jc.Duration,
			},
			DiscardTrimmed: jc.DiscardTrimmed,
		}
		if job.OutputPath == "" {
			job.OutputPath = defaultOutput(jc.Input, "_trim_", i+1)
		}
		if jc.Crop != nil {
			cropOut := jc.CropOutput
			if cropOut == "" {
				cropOut = defaultOutput(jc.Input, "_crop_", i+1)
			}
			job.Crop = &pipeline.CropJob{
				Region:       *jc.Crop,
				OutputWidth:  jc.OutputWidth,
				OutputHeight: jc.OutputHeight,
				OutputPath:   cropOut,
			}
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func defaultOutput(input, infix string, index int) string {
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".mp4"
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s%s%03d%s", base, infix, index, ext)
}
