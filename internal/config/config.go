package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDatabase = "database"
	StoreSupabase = "supabase"
	StoreNone     = "none"

	ResponderRules     = "rules"
	ResponderOpenAI    = "openai"
	ResponderAnthropic = "anthropic"

	QueueMemory   = "memory"
	QueueRabbitMQ = "rabbitmq"
)

type Config struct {
	Port string `env:"PORT" envDefault:"3001"`

	Store         string `env:"STORE" envDefault:"database"`
	DatabaseURL   string `env:"DATABASE_URL" envDefault:"./data/assistant.db"`
	SupabaseURL   string `env:"SUPABASE_URL"`
	SupabaseKey   string `env:"SUPABASE_ANON_KEY"`
	SupabaseTable string `env:"SUPABASE_TABLE" envDefault:"chat_conversations"`

	Responder  string `env:"RESPONDER" envDefault:"rules"`
	RulesPath  string `env:"RULES_PATH"`
	RulesWatch bool   `env:"RULES_WATCH" envDefault:"false"`

	RateLimit              int           `env:"RATE_LIMIT" envDefault:"10"`
	RateLimitWindow        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	RateLimitMaxSessions   int           `env:"RATE_LIMIT_MAX_SESSIONS" envDefault:"10000"`
	RateLimitSweepInterval time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"1m"`

	OpenAIAPIKey        string        `env:"OPENAI_API_KEY"`
	OpenAIModel         string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL       string        `env:"OPENAI_BASE_URL"`
	OpenAIMaxRetries    int           `env:"OPENAI_MAX_RETRIES" envDefault:"2"`
	AnthropicAPIKey     string        `env:"ANTHROPIC_API_KEY"`
	AnthropicModel      string        `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
	GenerationMaxTokens int           `env:"GENERATION_MAX_TOKENS" envDefault:"1024"`
	GenerationTimeout   time.Duration `env:"GENERATION_TIMEOUT" envDefault:"50s"`

	Queue        string        `env:"QUEUE" envDefault:"memory"`
	RabbitMQURL  string        `env:"RABBITMQ_URL"`
	QueueSize    int           `env:"QUEUE_SIZE" envDefault:"100"`
	WriteTimeout time.Duration `env:"PERSIST_TIMEOUT" envDefault:"10s"`

	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	ExportBucket      string `env:"EXPORT_BUCKET" envDefault:"chat-transcripts"`
	ExportDir         string `env:"EXPORT_DIR" envDefault:"./data/exports"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Exports         bool   `env:"EXPORT_TO_S3" envDefault:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s '%s': must be one of %s", name, value, strings.Join(allowed, ", "))
}

func (cfg *Config) Validate() error {
	var errs []error

	if err := oneOf("STORE", cfg.Store, StoreDatabase, StoreSupabase, StoreNone); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("RESPONDER", cfg.Responder, ResponderRules, ResponderOpenAI, ResponderAnthropic); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("QUEUE", cfg.Queue, QueueMemory, QueueRabbitMQ); err != nil {
		errs = append(errs, err)
	}

	if cfg.Store == StoreDatabase && cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required when STORE=database"))
	}
	if cfg.Store == StoreSupabase && (cfg.SupabaseURL == "" || cfg.SupabaseKey == "") {
		errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required when STORE=supabase"))
	}
	if cfg.Responder == ResponderOpenAI && cfg.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required when RESPONDER=openai"))
	}
	if cfg.Responder == ResponderAnthropic && cfg.AnthropicAPIKey == "" {
		errs = append(errs, errors.New("ANTHROPIC_API_KEY is required when RESPONDER=anthropic"))
	}
	if cfg.Queue == QueueRabbitMQ && cfg.RabbitMQURL == "" {
		errs = append(errs, errors.New("RABBITMQ_URL is required when QUEUE=rabbitmq"))
	}
	if cfg.RulesWatch && cfg.RulesPath == "" {
		errs = append(errs, errors.New("RULES_WATCH requires RULES_PATH"))
	}

	if cfg.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT must be positive, got %d", cfg.RateLimit))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", cfg.RateLimitWindow))
	}

	return errors.Join(errs...)
}
