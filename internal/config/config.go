package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Output         string `yaml:"output"`
	ImageWorkers   int    `yaml:"image_workers"`
	ChapterWorkers int    `yaml:"chapter_workers"`
	KeepFolders    bool   `yaml:"keep_folders"`
	Debug          bool   `yaml:"debug"`

	DefaultURL   string `yaml:"default_url"`
	DefaultRange string `yaml:"default_range"`
	DefaultList  string `yaml:"default_list"`

	Cookie     string `yaml:"cookie"`
	CookieFile string `yaml:"cookie_file"`
	UserAgent  string `yaml:"user_agent"`

	SkipBroken       bool          `yaml:"skip_broken"`
	CloudflareBypass bool          `yaml:"cloudflare_bypass"`
	RateLimit        float64       `yaml:"rate_limit"`
	Timeout          time.Duration `yaml:"timeout"`

	// SearchURL is a search engine template with one %s for the query.
	SearchURL string `yaml:"search_url"`
}

// Options are the CLI flag values; zero values leave the config untouched.
type Options struct {
	IgnoreConfig     bool
	Debug            bool
	Output           string
	ImageWorkers     int
	ChapterWorkers   int
	KeepFolders      bool
	DefaultURL       string
	DefaultRange     string
	DefaultList      string
	Cookie           string
	CookieFile       string
	UserAgent        string
	SkipBroken       bool
	CloudflareBypass bool
	RateLimit        float64
	Timeout          time.Duration
	SearchURL        string
}

const (
	defaultImageWorkers   = 5
	defaultChapterWorkers = 2
	defaultTimeout        = 60 * time.Second
)

func DefaultConfig() *Config {
	return &Config{
		Output:         ".",
		ImageWorkers:   defaultImageWorkers,
		ChapterWorkers: defaultChapterWorkers,
		Timeout:        defaultTimeout,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadMerged loads the active profile, applies the CLI options on top and
// fills unset values with defaults. The second result describes where the
// config came from.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		return finish(DefaultConfig(), opts, "(ignored config)")
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) {
		return finish(DefaultConfig(), opts, "(default config in memory)\nRun `mangascout config init` to create an actual config\n")
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	return finish(cfg, opts, activePath)
}

func finish(cfg *Config, opts Options, source string) (*Config, string, error) {
	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("config %s: %w", source, err)
	}

	return cfg, source, nil
}

func mergeConfig(c *Config, o Options) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, v bool) {
		if v {
			*dst = true
		}
	}

	setString(&c.Output, o.Output)
	setString(&c.DefaultURL, o.DefaultURL)
	setString(&c.DefaultRange, o.DefaultRange)
	setString(&c.DefaultList, o.DefaultList)
	setString(&c.Cookie, o.Cookie)
	setString(&c.CookieFile, o.CookieFile)
	setString(&c.UserAgent, o.UserAgent)
	setString(&c.SearchURL, o.SearchURL)

	setBool(&c.KeepFolders, o.KeepFolders)
	setBool(&c.Debug, o.Debug)
	setBool(&c.SkipBroken, o.SkipBroken)
	setBool(&c.CloudflareBypass, o.CloudflareBypass)

	if o.ImageWorkers != 0 {
		c.ImageWorkers = o.ImageWorkers
	}
	if o.ChapterWorkers != 0 {
		c.ChapterWorkers = o.ChapterWorkers
	}
	if o.RateLimit != 0 {
		c.RateLimit = o.RateLimit
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "."
	}
	if c.ImageWorkers == 0 {
		c.ImageWorkers = defaultImageWorkers
	}
	if c.ChapterWorkers == 0 {
		c.ChapterWorkers = defaultChapterWorkers
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.ImageWorkers < 0 {
		errs = append(errs, fmt.Errorf("image_workers must be positive, got %d", c.ImageWorkers))
	}
	if c.ChapterWorkers < 0 {
		errs = append(errs, fmt.Errorf("chapter_workers must be positive, got %d", c.ChapterWorkers))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate_limit must not be negative, got %g", c.RateLimit))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	return errors.Join(errs...)
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -output: %s\n", c.Output)
	fmt.Fprintf(w, " -image_workers: %d\n", c.ImageWorkers)
	fmt.Fprintf(w, " -chapter_workers: %d\n", c.ChapterWorkers)
	fmt.Fprintf(w, " -timeout: %s\n", c.Timeout)
	if c.KeepFolders {
		fmt.Fprintf(w, " -keep_folders: %t\n", c.KeepFolders)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.DefaultURL != "" {
		fmt.Fprintf(w, " -url: %s\n", c.DefaultURL)
	}
	if c.DefaultRange != "" {
		fmt.Fprintf(w, " -range: %s\n", c.DefaultRange)
	}
	if c.DefaultList != "" {
		fmt.Fprintf(w, " -list: %s\n", c.DefaultList)
	}
	if c.CookieFile != "" {
		fmt.Fprintf(w, " -cookie_file: %s\n", c.CookieFile)
	}
	if c.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.UserAgent)
	}
	if c.SkipBroken {
		fmt.Fprintf(w, " -skip_broken: %t\n", c.SkipBroken)
	}
	if c.CloudflareBypass {
		fmt.Fprintf(w, " -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	if c.RateLimit > 0 {
		fmt.Fprintf(w, " -rate_limit: %g/s\n", c.RateLimit)
	}
	if c.SearchURL != "" {
		fmt.Fprintf(w, " -search_url: %s\n", c.SearchURL)
	}
}
