package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config holds every runtime setting. Precedence, lowest to highest:
// built-in defaults, config file, environment, command line flags.
type Config struct {
	DataPath   string
	ListenAddr string

	UserAgent    string
	FetchTimeout time.Duration
	MaxAttempts  int

	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	LLMTimeout time.Duration

	Verbose bool
}

const (
	defaultListenAddr = "127.0.0.1:8642"
	defaultUserAgent  = "gobacklog/1.0 (+https://github.com/hyperifyio/gobacklog)"
	defaultModel      = "llama3.2"
)

// Default returns the built-in configuration. The data file lives under the
// user's home directory so every invocation shares one collection.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataPath:     filepath.Join(home, ".gobacklog", "articles.json"),
		ListenAddr:   defaultListenAddr,
		UserAgent:    defaultUserAgent,
		FetchTimeout: 30 * time.Second,
		MaxAttempts:  2,
		LLMModel:     defaultModel,
		LLMTimeout:   60 * time.Second,
	}
}

// FileConfig is the on-disk configuration schema.
type FileConfig struct {
	Data   string `yaml:"data" json:"data"`
	Listen string `yaml:"listen" json:"listen"`

	Fetch struct {
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
		Attempts  int           `yaml:"attempts" json:"attempts"`
	} `yaml:"fetch" json:"fetch"`

	LLM struct {
		BaseURL string        `yaml:"base" json:"base"`
		Model   string        `yaml:"model" json:"model"`
		APIKey  string        `yaml:"key" json:"key"`
		Timeout time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"llm" json:"llm"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays file values into cfg for fields still at their
// defaults, so explicit flags keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	def := Default()

	if cfg.DataPath == def.DataPath && fc.Data != "" {
		cfg.DataPath = fc.Data
	}
	if cfg.ListenAddr == def.ListenAddr && fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if cfg.UserAgent == def.UserAgent && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.FetchTimeout == def.FetchTimeout && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.MaxAttempts == def.MaxAttempts && fc.Fetch.Attempts > 0 {
		cfg.MaxAttempts = fc.Fetch.Attempts
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == def.LLMModel && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.LLMTimeout == def.LLMTimeout && fc.LLM.Timeout > 0 {
		cfg.LLMTimeout = fc.LLM.Timeout
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ApplyEnvOverrides overrides cfg fields with GOBACKLOG_* environment
// variables when set. Env wins over file values; flags are applied after.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	if v := os.Getenv("GOBACKLOG_DATA"); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv("GOBACKLOG_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("GOBACKLOG_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("GOBACKLOG_LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("GOBACKLOG_LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("GOBACKLOG_LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}
	if s := os.Getenv("GOBACKLOG_FETCH_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.FetchTimeout = d
		}
	}
	if s := os.Getenv("GOBACKLOG_LLM_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.LLMTimeout = d
		}
	}
	if s := strings.ToLower(strings.TrimSpace(os.Getenv("GOBACKLOG_VERBOSE"))); s != "" {
		switch s {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		case "0", "false", "no", "off":
			cfg.Verbose = false
		}
	}
}

// Validate performs minimal schema validation for required settings.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.DataPath) == "" {
		return errors.New("config: data path is required")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return errors.New("config: listen address is required")
	}
	if cfg.FetchTimeout < 0 || cfg.LLMTimeout < 0 || cfg.MaxAttempts < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
