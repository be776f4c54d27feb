package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Duration accepts "30s" style strings or integer nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		if strings.TrimSpace(u) == "" {
			d.Duration = 0
			return nil
		}
		dd, err := time.ParseDuration(u)
		if err != nil {
			return err
		}
		d.Duration = dd
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

// LLMConfig 生成模块的模型配置。
type LLMConfig struct {
	Provider   string `json:"provider,omitempty" env:"LLM_PROVIDER"`
	Model      string `json:"model,omitempty" env:"LLM_MODEL"`
	APIKey     string `json:"api_key,omitempty" env:"OPENAI_API_KEY"`
	BaseURL    string `json:"base_url,omitempty" env:"LLM_BASE_URL"`
	MaxRetries int    `json:"max_retries,omitempty" env:"LLM_MAX_RETRIES"`
}

// Config holds server and model settings.
type Config struct {
	ServerAddr      string    `json:"server_addr,omitempty" env:"BROCHURE_ADDR"`
	LogMode         string    `json:"log_mode,omitempty" env:"LOG_MODE"`
	MaxRequestBytes int64     `json:"max_request_bytes,omitempty"`
	RequestTimeout  Duration  `json:"request_timeout,omitempty"`
	CORSOrigins     []string  `json:"cors_origins,omitempty" env:"CORS_ORIGINS" envSeparator:","`
	LLM             LLMConfig `json:"llm"`
}

const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderMock     = "mock"
)

func defaultConfig() Config {
	return Config{
		ServerAddr:      ":8080",
		LogMode:         "development",
		MaxRequestBytes: 1 << 20,
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			Model:    "gpt-3.5-turbo",
		},
	}
}

// Load reads .env (if present), the JSON file at path (if present), then
// environment overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.ServerAddr = strings.TrimSpace(c.ServerAddr)
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.MaxRequestBytes <= 0 {
		c.MaxRequestBytes = 1 << 20
	}
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
}

// Validate checks the llm section.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderMock:
		return c.validateOrigins()
	case ProviderOpenAI, ProviderDeepSeek:
	case "":
		return errors.New("llm config missing; please set llm.provider/model/api_key in config")
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm provider %s requires api_key (or OPENAI_API_KEY)", c.LLM.Provider)
	}
	// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
	if c.LLM.Provider == ProviderDeepSeek && c.LLM.BaseURL == "" {
		return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
	}
	if c.LLM.MaxRetries < 0 {
		return errors.New("llm.max_retries must not be negative")
	}
	return c.validateOrigins()
}

func (c Config) validateOrigins() error {
	for _, o := range c.CORSOrigins {
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("cors origin %q must start with http:// or https://", o)
		}
	}
	return nil
}
