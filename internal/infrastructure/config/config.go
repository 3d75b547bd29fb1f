package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	AI         AIConfig         `mapstructure:"ai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Pantry     PantryConfig     `mapstructure:"pantry"`
	LogLevel   string           `mapstructure:"log_level"`
	LogDir     string           `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// AIConfig AI 閘道設定
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	TextModel        string        `mapstructure:"text_model"`
	ImageModel       string        `mapstructure:"image_model"`
	ImageAspectRatio string        `mapstructure:"image_aspect_ratio"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// GeminiConfig Gemini 配置
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// CacheConfig 快取設定
type CacheConfig struct {
	Backend    string      `mapstructure:"backend"`
	Prefix     string      `mapstructure:"prefix"`
	MaxEntries int         `mapstructure:"max_entries"`
	Redis      RedisConfig `mapstructure:"redis"`
	SQLitePath string      `mapstructure:"sqlite_path"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PantryConfig 食材櫃持久化設定
type PantryConfig struct {
	StorageKey string `mapstructure:"storage_key"`
}

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 為選用
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY", "API_KEY")
	_ = v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("openrouter.max_tokens", "MODEL_MAX_TOKENS")
	_ = v.BindEnv("ai.provider", "AI_PROVIDER")
	_ = v.BindEnv("ai.text_model", "AI_TEXT_MODEL")
	_ = v.BindEnv("ai.image_model", "AI_IMAGE_MODEL")
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("cache.max_entries", "CACHE_MAX_ENTRIES")
	_ = v.BindEnv("cache.redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("cache.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("cache.sqlite_path", "SQLITE_PATH")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR")

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "smartpantry")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 1<<20) // 1MB

	// AI 設定
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.text_model", "gemini-3-flash-preview")
	v.SetDefault("ai.image_model", "gemini-2.5-flash-image")
	v.SetDefault("ai.image_aspect_ratio", "16:9")
	v.SetDefault("ai.timeout", "90s")

	// Gemini / OpenRouter 設定
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.max_tokens", 4096)

	// 快取設定
	v.SetDefault("cache.backend", BackendSQLite)
	v.SetDefault("cache.prefix", "smartpantry_v1_")
	v.SetDefault("cache.max_entries", 0)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.sqlite_path", "data/smartpantry.db")

	// 食材櫃設定
	v.SetDefault("pantry.storage_key", "smart_pantry")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.AI.Provider {
	case ProviderGemini:
		if config.Gemini.APIKey == "" {
			return fmt.Errorf("gemini api key is required")
		}
	case ProviderOpenRouter:
		if config.OpenRouter.APIKey == "" {
			return fmt.Errorf("openrouter api key is required")
		}
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}
	if config.AI.TextModel == "" || config.AI.ImageModel == "" {
		return fmt.Errorf("ai models are required")
	}

	switch config.Cache.Backend {
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}
	if config.Cache.MaxEntries < 0 {
		return fmt.Errorf("invalid cache max entries")
	}
	if config.Cache.Prefix == "" {
		return fmt.Errorf("cache prefix is required")
	}
	if config.Pantry.StorageKey == "" {
		return fmt.Errorf("pantry storage key is required")
	}
	if strings.HasPrefix(config.Pantry.StorageKey, config.Cache.Prefix) {
		return fmt.Errorf("pantry storage key must live outside the cache namespace")
	}

	return nil
}
