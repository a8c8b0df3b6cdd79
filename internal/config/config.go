package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"ContentRanker/internal/classify"
	"ContentRanker/internal/domain"
	"ContentRanker/internal/relevance"
	"ContentRanker/internal/source"
)

const (
	configPathEnv = "CONTENT_RANKER_CONFIG"
	logLevelEnv   = "CONTENT_RANKER_LOG_LEVEL"
	logFormatEnv  = "CONTENT_RANKER_LOG_FORMAT"
	dbPathEnv     = "CONTENT_RANKER_DB_PATH"
	workersEnv    = "CONTENT_RANKER_WORKERS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig     `yaml:"logging"`
	Storage    StorageConfig     `yaml:"storage"`
	Sources    []SourceConfig    `yaml:"sources"`
	HTML       HTMLConfig        `yaml:"html"`
	Classifier classify.Config   `yaml:"classifier"`
	Scoring    relevance.Weights `yaml:"scoring"`
	Ranking    RankingConfig     `yaml:"ranking"`
	Workers    int               `yaml:"workers"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StorageConfig points at the SQLite content store.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SourceConfig describes a single content source with its loader strategy.
type SourceConfig struct {
	Name     string            `yaml:"name"`
	Loader   string            `yaml:"loader"`
	Location string            `yaml:"location"`
	Options  map[string]string `yaml:"options"`
}

// HTMLConfig paces requests made by the portal scanner.
type HTMLConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
}

// RankingConfig holds related-items defaults.
type RankingConfig struct {
	DefaultLimit int `yaml:"defaultLimit"`
}

// SourceRequests converts configured sources into loader requests.
func (c Config) SourceRequests() []source.Request {
	requests := make([]source.Request, 0, len(c.Sources))
	for _, s := range c.Sources {
		requests = append(requests, source.Request{
			Name:     s.Name,
			Loader:   s.Loader,
			Location: s.Location,
			Options:  s.Options,
		})
	}
	return requests
}

// Load reads YAML configuration (if present) and applies environment overrides.
//
// The file is decoded over the defaults, so keys it omits keep their default
// value and keys it sets win, including an explicit 0 for a scoring weight.
// Classifier keywords merge per purpose. Classifier weights and thresholds
// treat values <= 0 as unset (see classify.Config).
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := decode(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = fileCfg
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func decode(raw []byte) (Config, error) {
	cfg := defaultConfig()
	defaults := cfg.Classifier.Keywords
	cfg.Classifier.Keywords = nil

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Classifier.Keywords = mergeKeywords(defaults, cfg.Classifier.Keywords)
	return cfg, nil
}

func mergeKeywords(base, override map[domain.Purpose][]string) map[domain.Purpose][]string {
	merged := make(map[domain.Purpose][]string, len(base)+len(override))
	for purpose, words := range base {
		merged[purpose] = words
	}
	for purpose, words := range override {
		merged[purpose] = words
	}
	return merged
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}

	if v := os.Getenv(dbPathEnv); v != "" {
		c.Storage.Path = v
	}

	if v := os.Getenv(workersEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Printf("config: invalid %s=%q, keeping %d", workersEnv, v, c.Workers)
		} else {
			c.Workers = n
		}
	}
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{Path: "content.db"},
		Sources: []SourceConfig{
			{
				Name:     "catalog",
				Loader:   "json",
				Location: "content.json",
			},
		},
		HTML:       HTMLConfig{RequestsPerSecond: 2},
		Classifier: classify.DefaultConfig(),
		Scoring:    relevance.DefaultWeights(),
		Ranking:    RankingConfig{DefaultLimit: relevance.DefaultLimit},
		Workers:    0,
	}
}
