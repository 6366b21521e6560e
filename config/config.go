package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Model    ModelConfig    `mapstructure:"model"`
	Advice   AdviceConfig   `mapstructure:"advice"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CSRFEnabled  bool          `mapstructure:"csrf_enabled"`
	CSRFKey      string        `mapstructure:"csrf_key"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// ModelConfig points at the sleep-disorder inference service. An empty
// base URL means the model is unavailable and predictions degrade to
// sentinel labels.
type ModelConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AdviceConfig drives the RAG advice generator.
type AdviceConfig struct {
	OllamaURL      string        `mapstructure:"ollama_url"`
	ChatModel      string        `mapstructure:"chat_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	KnowledgeDir   string        `mapstructure:"knowledge_dir"`
	IndexDir       string        `mapstructure:"index_dir"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

type LogConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads config.yaml (if present) and environment variables prefixed
// with SLEEPAPP_. Missing file is fine, defaults cover local development.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SLEEPAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.csrf_enabled", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "sleep_app")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")

	v.SetDefault("auth.jwt_secret", "supersecretkey")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("model.base_url", "http://localhost:8500")
	v.SetDefault("model.timeout", 5*time.Second)

	v.SetDefault("advice.ollama_url", "http://localhost:11434")
	v.SetDefault("advice.chat_model", "llama3.2")
	v.SetDefault("advice.embedding_model", "llama3.2")
	v.SetDefault("advice.knowledge_dir", "./knowledge_base")
	v.SetDefault("advice.index_dir", "./data/chroma")
	v.SetDefault("advice.timeout", 60*time.Second)
	v.SetDefault("advice.max_retries", 2)

	v.SetDefault("log.path", "./logs/app.log")
}
