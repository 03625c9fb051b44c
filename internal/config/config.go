package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	LLM       LLMConfig
	Documents DocumentsConfig
	GitHub    GitHubConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type LLMConfig struct {
	OpenAIKey         string
	AnthropicKey      string
	DefaultProvider   string
	FallbackProvider  string
	EmbeddingProvider string
	EmbeddingModel    string
	ChatModel         string
	FollowUpModel     string
	MaxRetries        int
}

type DocumentsConfig struct {
	Dir string
}

type GitHubConfig struct {
	Token string
	User  string
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
		LLM: LLMConfig{
			OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:      getEnv("ANTHROPIC_API_KEY", ""),
			DefaultProvider:   getEnv("LLM_DEFAULT_PROVIDER", "anthropic"),
			FallbackProvider:  getEnv("LLM_FALLBACK_PROVIDER", "openai"),
			EmbeddingProvider: getEnv("LLM_EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("LLM_EMBEDDING_MODEL", "text-embedding-3-small"),
			ChatModel:         getEnv("LLM_CHAT_MODEL", "claude-sonnet-4-20250514"),
			FollowUpModel:     getEnv("LLM_FOLLOWUP_MODEL", "gpt-4o-mini"),
			MaxRetries:        maxRetries,
		},
		Documents: DocumentsConfig{
			Dir: getEnv("DOCUMENTS_DIR", "documents"),
		},
		GitHub: GitHubConfig{
			Token: getEnv("GITHUB_TOKEN", ""),
			User:  getEnv("GITHUB_USER", ""),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.LLM.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "ADMIN_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
