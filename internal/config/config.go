package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Project              ProjectConfig  `yaml:"project"`
	Schedule             string         `yaml:"schedule"`
	RunOnStart           bool           `yaml:"run_on_start"`
	MaxArticlesPerSource int            `yaml:"max_articles_per_source"`
	MaxProcessedIDs      int            `yaml:"max_processed_ids"`
	Sources              []SourceConfig `yaml:"sources"`
	AI                   AIConfig       `yaml:"ai"`
	RSS                  RSSConfig      `yaml:"rss"`
	HTTP                 HTTPConfig     `yaml:"http"`
	Paths                PathsConfig    `yaml:"paths"`
}

type ProjectConfig struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Version     string `yaml:"version" json:"version"`
	Language    string `yaml:"language" json:"language"`
}

type SourceConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Language string `yaml:"language"`
	Enabled  bool   `yaml:"enabled"`
}

type AIConfig struct {
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"api_key"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	PromptTemplate string  `yaml:"prompt_template"`
}

type RSSConfig struct {
	FeedTitle        string `yaml:"feed_title"`
	FeedDescription  string `yaml:"feed_description"`
	FeedLanguage     string `yaml:"feed_language"`
	FeedLink         string `yaml:"feed_link"`
	FeedAuthor       string `yaml:"feed_author"`
	MaxTotalArticles int    `yaml:"max_total_articles"`
}

type HTTPConfig struct {
	TimeoutSeconds      int    `yaml:"timeout"`
	UserAgent           string `yaml:"user_agent"`
	RequestDelaySeconds int    `yaml:"request_delay"`
}

type PathsConfig struct {
	DataDir       string `yaml:"data_dir"`
	ArchiveDir    string `yaml:"archive_dir"`
	ProcessedFile string `yaml:"processed_file"`
	OutputDir     string `yaml:"output_dir"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.Project.Name == "" {
		cfg.Project.Name = "Bleta"
	}
	if cfg.Project.Description == "" {
		cfg.Project.Description = "Albanian News Archive with AI Summaries"
	}
	if cfg.Project.Version == "" {
		cfg.Project.Version = "1.0.0"
	}
	if cfg.Project.Language == "" {
		cfg.Project.Language = "sq"
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 * * * *"
	}
	if cfg.MaxArticlesPerSource == 0 {
		cfg.MaxArticlesPerSource = 10
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-1.5-flash"
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 150
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.3
	}
	if cfg.AI.PromptTemplate == "" {
		cfg.AI.PromptTemplate = "Summarize the following Albanian news article in 1-2 concise sentences, in {language}, keeping key facts: {text}"
	}
	if cfg.RSS.FeedTitle == "" {
		cfg.RSS.FeedTitle = cfg.Project.Name + " - Albanian News Archive"
	}
	if cfg.RSS.FeedDescription == "" {
		cfg.RSS.FeedDescription = "AI-summarized Albanian news from multiple sources"
	}
	if cfg.RSS.FeedLanguage == "" {
		cfg.RSS.FeedLanguage = cfg.Project.Language
	}
	if cfg.RSS.FeedAuthor == "" {
		cfg.RSS.FeedAuthor = cfg.Project.Name + " News Aggregator"
	}
	if cfg.RSS.MaxTotalArticles == 0 {
		cfg.RSS.MaxTotalArticles = 50
	}
	if cfg.HTTP.TimeoutSeconds == 0 {
		cfg.HTTP.TimeoutSeconds = 30
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
	if cfg.HTTP.RequestDelaySeconds == 0 {
		cfg.HTTP.RequestDelaySeconds = 1
	}
	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = "data"
	}
	if cfg.Paths.ArchiveDir == "" {
		cfg.Paths.ArchiveDir = "data/archive"
	}
	if cfg.Paths.ProcessedFile == "" {
		cfg.Paths.ProcessedFile = "data/processed.json"
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = "public"
	}
}

func validate(cfg *Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("config: at least one source is required")
	}
	for _, src := range cfg.Sources {
		if src.Name == "" {
			return fmt.Errorf("config: source with url %q has no name", src.URL)
		}
		if _, err := url.ParseRequestURI(src.URL); err != nil {
			return fmt.Errorf("config: source %q has invalid url %q", src.Name, src.URL)
		}
	}
	if cfg.MaxArticlesPerSource < 0 {
		return fmt.Errorf("config: max_articles_per_source must not be negative")
	}
	if cfg.MaxProcessedIDs < 0 {
		return fmt.Errorf("config: max_processed_ids must not be negative")
	}
	if cfg.AI.MaxTokens < 0 {
		return fmt.Errorf("config: ai.max_tokens must not be negative")
	}
	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		return fmt.Errorf("config: ai.temperature must be between 0 and 2")
	}
	return nil
}

// EnabledSources returns the sources that should be fetched this run.
func (cfg *Config) EnabledSources() []SourceConfig {
	var enabled []SourceConfig
	for _, src := range cfg.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	return enabled
}

// SummariesEnabled reports whether an AI API key is configured. Without a
// key articles are archived with a truncated description instead.
func (cfg *Config) SummariesEnabled() bool {
	return cfg.AI.APIKey != ""
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
