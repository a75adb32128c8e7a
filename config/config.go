package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string              `mapstructure:"port"`
	PromptDir           string              `mapstructure:"prompt_dir"`
	UploadDir           string              `mapstructure:"upload_dir"`
	AIConfig            AIConfig            `mapstructure:"ai"`
	EmbeddingConfig     EmbeddingConfig     `mapstructure:"embedding"`
	RetrievalConfig     RetrievalConfig     `mapstructure:"retrieval"`
	ImportConfig        ImportConfig        `mapstructure:"import"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
	MongoURI            string              `mapstructure:"MONGODB_URI"`
	JWTSecret           string              `mapstructure:"JWT_SECRET"`
}

type AIConfig struct {
	Provider       string   `mapstructure:"provider"` // "gemini" or "openai"
	Model          string   `mapstructure:"model"`
	GeminiAPIKeys  []string `mapstructure:"GEMINI_API_KEYS"`
	OpenAIAPIKey   string   `mapstructure:"OPENAI_API_KEY"`
	OpenAIEndpoint string   `mapstructure:"openai_endpoint"`
}

type EmbeddingConfig struct {
	Model       string `mapstructure:"model"`
	Dimension   int    `mapstructure:"dimension"`
	IncludeTags bool   `mapstructure:"include_tags"`
}

type RetrievalConfig struct {
	TopK          int     `mapstructure:"top_k"`
	MinSimilarity float32 `mapstructure:"min_similarity"` // zero disables the cutoff
}

type ImportConfig struct {
	// ItemsPerMinute feeds the token-bucket limiter between batch items.
	ItemsPerMinute float64 `mapstructure:"items_per_minute"`
}

type WeaviateStoreConfig struct {
	Host      string `mapstructure:"host"`
	APIKey    string `mapstructure:"WEAVIATE_APIKEY"`
	ClassName string `mapstructure:"class_name"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Secrets come from the environment, never from the config file.
	v.BindEnv("ai.GEMINI_API_KEYS", "GEMINI_API_KEYS")
	v.BindEnv("ai.OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("weaviate_store_config.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")
	v.BindEnv("JWT_SECRET")

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// GEMINI_API_KEYS holds a comma-separated list when rotation is wanted.
	if len(config.AIConfig.GeminiAPIKeys) == 1 && strings.Contains(config.AIConfig.GeminiAPIKeys[0], ",") {
		keys := strings.Split(config.AIConfig.GeminiAPIKeys[0], ",")
		config.AIConfig.GeminiAPIKeys = config.AIConfig.GeminiAPIKeys[:0]
		for _, key := range keys {
			if key = strings.TrimSpace(key); key != "" {
				config.AIConfig.GeminiAPIKeys = append(config.AIConfig.GeminiAPIKeys, key)
			}
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("prompt_dir", "prompts")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("embedding.model", "text-embedding-004")
	v.SetDefault("embedding.dimension", 768)
	v.SetDefault("embedding.include_tags", true)
	v.SetDefault("retrieval.top_k", 5)
	v.SetDefault("retrieval.min_similarity", 0)
	v.SetDefault("import.items_per_minute", 10)
	v.SetDefault("weaviate_store_config.class_name", "Knowledge")
}

// validate enforces the fail-fast secret policy: the process refuses to start
// without the keys the selected provider and store need.
func (c *Config) validate() error {
	switch c.AIConfig.Provider {
	case "gemini":
		if len(c.AIConfig.GeminiAPIKeys) == 0 {
			return fmt.Errorf("GEMINI_API_KEYS is not set")
		}
	case "openai":
		if c.AIConfig.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unknown ai provider %q", c.AIConfig.Provider)
	}
	if c.WeaviateStoreConfig.Host == "" {
		return fmt.Errorf("weaviate host is not set")
	}
	return nil
}
