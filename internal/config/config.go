// Package config loads the blogbuilder YAML configuration.
package config

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// DefaultPath is the configuration file read when -c is not given.
const DefaultPath = "blogbuilder.yaml"

// Environment variables that take precedence over the file.
const (
	EnvSiteURL  = "SITE_URL"
	EnvLogLevel = "BLOGBUILDER_LOG_LEVEL"
)

// Config represents the application configuration.
type Config struct {
	Content   ContentConfig   `yaml:"content"`
	Templates TemplatesConfig `yaml:"templates"`
	Static    StaticConfig    `yaml:"static"`
	Output    OutputConfig    `yaml:"output"`
	Site      SiteConfig      `yaml:"site"`
	Build     BuildConfig     `yaml:"build"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ContentConfig locates the markdown sources.
type ContentConfig struct {
	Dir string `yaml:"dir"`
}

// TemplatesConfig locates the layout and its partials.
type TemplatesConfig struct {
	Layout string `yaml:"layout"`
	Header string `yaml:"header"`
	Footer string `yaml:"footer"`
}

// StaticConfig names the directory copied verbatim into the output.
type StaticConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Staging   bool   `yaml:"staging"` // build into a sibling directory and swap on success
}

// SiteConfig carries site-wide values.
type SiteConfig struct {
	Title         string `yaml:"title"`
	Description   string `yaml:"description,omitempty"`
	Language      string `yaml:"language"`
	BaseURL       string `yaml:"base_url"`
	DefaultAuthor string `yaml:"default_author,omitempty"`
	About         string `yaml:"about,omitempty"` // trusted HTML
}

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	WordsPerMinute int           `yaml:"words_per_minute"`
	ExcerptLength  int           `yaml:"excerpt_length"`
	Concurrency    int           `yaml:"concurrency"` // 0 means one worker per CPU
	Timeout        time.Duration `yaml:"timeout"`     // 0 disables the deadline
	Report         string        `yaml:"report,omitempty"`
}

// MetricsConfig controls the Prometheus textfile written after a build.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig selects level and format of the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Content: ContentConfig{Dir: "content/posts"},
		Templates: TemplatesConfig{
			Layout: "templates/layout.html",
			Header: "templates/partials/header.html",
			Footer: "templates/partials/footer.html",
		},
		Static: StaticConfig{Dir: "public"},
		Output: OutputConfig{Directory: "dist", Staging: true},
		Site: SiteConfig{
			Title:    "My Blog",
			Language: "en",
			BaseURL:  "http://127.0.0.1:3000",
		},
		Build: BuildConfig{
			WordsPerMinute: 200,
			ExcerptLength:  160,
		},
		Logging: LoggingConfig{
			Level:  string(LogLevelInfo),
			Format: string(LogFormatText),
		},
	}
}

// Load reads the configuration at configPath. A missing file yields the
// defaults. Env files are loaded first so ${VAR} references and overrides
// can see them.
func Load(configPath string) (*Config, error) {
	if loaded, err := loadEnvFiles(); err != nil {
		return nil, errors.ConfigError("failed to load env file").WithCause(err).Build()
	} else if len(loaded) > 0 {
		slog.Debug("Loaded environment files", slog.Any("files", loaded))
	}

	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		slog.Debug("Configuration file not found, using defaults", slog.String("path", configPath))
	case err != nil:
		return nil, errors.ConfigError("failed to read config file").WithCause(err).
			WithContext("path", configPath).
			Build()
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.ConfigError("failed to unmarshal config").WithCause(err).
				WithContext("path", configPath).
				Build()
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvSiteURL)); v != "" {
		c.Site.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
}

// applyDefaults fills values a file may have blanked out.
func (c *Config) applyDefaults() {
	def := Default()
	fill := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
	fill(&c.Content.Dir, def.Content.Dir)
	fill(&c.Templates.Layout, def.Templates.Layout)
	fill(&c.Templates.Header, def.Templates.Header)
	fill(&c.Templates.Footer, def.Templates.Footer)
	fill(&c.Output.Directory, def.Output.Directory)
	fill(&c.Site.Language, def.Site.Language)
	fill(&c.Site.BaseURL, def.Site.BaseURL)
	fill(&c.Logging.Level, def.Logging.Level)
	fill(&c.Logging.Format, def.Logging.Format)
	if c.Build.WordsPerMinute == 0 {
		c.Build.WordsPerMinute = def.Build.WordsPerMinute
	}
	if c.Build.ExcerptLength == 0 {
		c.Build.ExcerptLength = def.Build.ExcerptLength
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	invalid := func(msg, key string, value any) error {
		return errors.ConfigError(msg).
			WithContext("key", key).
			WithContext("value", value).
			Build()
	}

	if c.Build.WordsPerMinute < 0 {
		return invalid("words per minute must be positive", "build.words_per_minute", c.Build.WordsPerMinute)
	}
	if c.Build.ExcerptLength < 0 {
		return invalid("excerpt length must be positive", "build.excerpt_length", c.Build.ExcerptLength)
	}
	if c.Build.Concurrency < 0 {
		return invalid("concurrency must not be negative", "build.concurrency", c.Build.Concurrency)
	}
	if c.Build.Timeout < 0 {
		return invalid("timeout must not be negative", "build.timeout", c.Build.Timeout.String())
	}
	for key, p := range map[string]string{
		"templates.layout": c.Templates.Layout,
		"templates.header": c.Templates.Header,
		"templates.footer": c.Templates.Footer,
	} {
		if !fs.ValidPath(path.Clean(filepath.ToSlash(p))) {
			return invalid("template paths must be relative to the working directory", key, p)
		}
	}
	if u, err := url.Parse(c.Site.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("site base URL must be absolute", "site.base_url", c.Site.BaseURL)
	}
	if _, err := logLevelNormalizer.NormalizeWithError(c.Logging.Level); err != nil {
		return invalid("unknown log level", "logging.level", c.Logging.Level)
	}
	if _, err := logFormatNormalizer.NormalizeWithError(c.Logging.Format); err != nil {
		return invalid("unknown log format", "logging.format", c.Logging.Format)
	}
	return nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Site.Description = "Notes and articles"
	example.Site.DefaultAuthor = "Anonymous"
	example.Build.Report = "dist-report.json"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write config file").WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
