package cmd

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"ukuvi-assistant/internal/assistant"
	"ukuvi-assistant/internal/chat"
	"ukuvi-assistant/internal/config"
	"ukuvi-assistant/internal/database"
	"ukuvi-assistant/internal/rules"
	"ukuvi-assistant/internal/storage"

	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	LoadEnvFrom(configPath)
}

func LoadEnvFrom(configPath string) {
	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

func LoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

func CreateStore(cfg *config.Config) chat.ConversationStore {
	switch cfg.Store {
	case config.StoreDatabase:
		db, err := database.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		slog.Info("using database conversation store", "postgres", database.IsPostgresURL(cfg.DatabaseURL))
		return chat.NewGormStore(db)

	case config.StoreSupabase:
		store, err := chat.NewSupabaseStore(chat.SupabaseConfig{
			URL:    cfg.SupabaseURL,
			APIKey: cfg.SupabaseKey,
			Table:  cfg.SupabaseTable,
		})
		if err != nil {
			log.Fatalf("Failed to create supabase store: %v", err)
		}
		slog.Info("using supabase conversation store", "table", cfg.SupabaseTable)
		return store

	default:
		slog.Warn("conversation persistence disabled")
		return chat.NopStore{}
	}
}

// CreateRuleSource returns the embedded rule table, the table in RULES_PATH,
// or a watcher over RULES_PATH. The returned func releases the watcher.
func CreateRuleSource(ctx context.Context, cfg *config.Config) (rules.Source, func()) {
	if cfg.RulesPath == "" {
		return rules.Static(rules.Default()), func() {}
	}

	if !cfg.RulesWatch {
		table, err := rules.LoadFile(cfg.RulesPath)
		if err != nil {
			log.Fatalf("Failed to load rules: %v", err)
		}
		slog.Info("loaded rule table", "path", cfg.RulesPath, "entries", table.Len())
		return rules.Static(table), func() {}
	}

	watcher, err := rules.NewWatcher(ctx, cfg.RulesPath)
	if err != nil {
		log.Fatalf("Failed to watch rules: %v", err)
	}
	slog.Info("watching rule table", "path", cfg.RulesPath, "entries", watcher.Table().Len())
	return watcher, func() {
		if err := watcher.Close(); err != nil {
			slog.Error("error closing rule watcher", "error", err)
		}
	}
}

func CreateResponder(cfg *config.Config, source rules.Source) assistant.Responder {
	switch cfg.Responder {
	case config.ResponderOpenAI:
		return assistant.NewOpenAIGenerator(assistant.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			BaseURL:    cfg.OpenAIBaseURL,
			MaxTokens:  cfg.GenerationMaxTokens,
			Timeout:    cfg.GenerationTimeout,
			MaxRetries: cfg.OpenAIMaxRetries,
		})

	case config.ResponderAnthropic:
		generator, err := assistant.NewAnthropicGenerator(assistant.AnthropicConfig{
			APIKey:    cfg.AnthropicAPIKey,
			Model:     cfg.AnthropicModel,
			MaxTokens: cfg.GenerationMaxTokens,
			Timeout:   cfg.GenerationTimeout,
		})
		if err != nil {
			log.Fatalf("Failed to create anthropic responder: %v", err)
		}
		return generator

	default:
		return assistant.NewRuleResponder(source)
	}
}

func CreateObjectStore(ctx context.Context, cfg *config.Config) storage.ObjectStore {
	if cfg.S3Exports {
		objects, err := storage.NewS3ObjectStore(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 client: %v", err)
		}
		return objects
	}

	objects, err := storage.NewLocalObjectStore(cfg.ExportDir)
	if err != nil {
		log.Fatalf("Failed to create local object store: %v", err)
	}
	return objects
}
