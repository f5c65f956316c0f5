package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

type Config struct {
	App    AppConfig    `toml:"app"`
	LLM    LLMConfig    `toml:"llm"`
	Store  StoreConfig  `toml:"store"`
	Redis  RedisConfig  `toml:"redis"`
	Upload UploadConfig `toml:"upload"`
	Client ClientConfig `toml:"client"`
	Log    LogConfig    `toml:"log"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
	WebDir  string `toml:"web_dir"`
}

type LLMConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// StoreConfig selects where extracted document text lives.
type StoreConfig struct {
	Backend   string `toml:"backend"`
	KeyPrefix string `toml:"key_prefix"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type UploadConfig struct {
	Dir                   string `toml:"dir"`
	ExtractTimeoutSeconds int    `toml:"extract_timeout_seconds"`
}

// ClientConfig is handed to the browser UI so it never hardcodes backend URLs.
type ClientConfig struct {
	APIBaseURL       string `toml:"api_base_url"`
	RequestTimeoutMS int    `toml:"request_timeout_ms"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load(getEnv("DOTENV_FILE", ".env"))

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid app port %d", c.App.Port)
	}
	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if strings.TrimSpace(c.Upload.Dir) == "" {
		return fmt.Errorf("upload dir is empty")
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "dev"
}

func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MaskedAPIKey keeps the first and last four characters for logging.
func (c *LLMConfig) MaskedAPIKey() string {
	if len(c.APIKey) <= 8 {
		return "****"
	}
	return c.APIKey[:4] + strings.Repeat("*", len(c.APIKey)-8) + c.APIKey[len(c.APIKey)-4:]
}

func (c *UploadConfig) ExtractTimeout() time.Duration {
	return time.Duration(c.ExtractTimeoutSeconds) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "chatpdf",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    5000,
			GinMode: "debug",
			WebDir:  "web",
		},
		LLM: LLMConfig{
			BaseURL:        "https://api.groq.com/openai/v1",
			APIKey:         "",
			Model:          "llama-3.3-70b-versatile",
			TimeoutSeconds: 90,
		},
		Store: StoreConfig{
			Backend:   StoreBackendMemory,
			KeyPrefix: "chatpdf:document:",
		},
		Redis: RedisConfig{
			Addr:     "127.0.0.1:6379",
			Password: "",
			DB:       0,
		},
		Upload: UploadConfig{
			Dir:                   "uploads",
			ExtractTimeoutSeconds: 60,
		},
		Client: ClientConfig{
			APIBaseURL:       "",
			RequestTimeoutMS: 120000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.WebDir = getEnv("APP_WEB_DIR", cfg.App.WebDir)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("API_KEY", cfg.LLM.APIKey)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.TimeoutSeconds = getEnvAsInt("LLM_TIMEOUT_SECONDS", cfg.LLM.TimeoutSeconds)

	cfg.Store.Backend = strings.ToLower(getEnv("STORE_BACKEND", cfg.Store.Backend))
	cfg.Store.KeyPrefix = getEnv("STORE_KEY_PREFIX", cfg.Store.KeyPrefix)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.Upload.Dir = getEnv("UPLOAD_DIR", cfg.Upload.Dir)
	cfg.Upload.ExtractTimeoutSeconds = getEnvAsInt("UPLOAD_EXTRACT_TIMEOUT_SECONDS", cfg.Upload.ExtractTimeoutSeconds)

	cfg.Client.APIBaseURL = getEnv("CLIENT_API_BASE_URL", cfg.Client.APIBaseURL)
	cfg.Client.RequestTimeoutMS = getEnvAsInt("CLIENT_REQUEST_TIMEOUT_MS", cfg.Client.RequestTimeoutMS)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
