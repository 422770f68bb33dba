package commands

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Dataset   string          `mapstructure:"dataset"`
	Metrics   []string        `mapstructure:"metrics"`
	Workers   int             `mapstructure:"workers"`
	Output    string          `mapstructure:"output"`
	Format    string          `mapstructure:"format"`
	LogDir    string          `mapstructure:"log_dir"`
	Provider  string          `mapstructure:"provider"`
	Threshold float64         `mapstructure:"threshold"`
	Criteria  string          `mapstructure:"criteria"`
	Strict    bool            `mapstructure:"strict"`
	RateLimit float64         `mapstructure:"rate_limit"`
	CacheDir  string          `mapstructure:"cache_dir"`
	UseCache  bool            `mapstructure:"use_cache"`
	Model     ModelConfig     `mapstructure:"model"`
	OpenAI    ProviderConfig  `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Gemini    ProviderConfig  `mapstructure:"gemini"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
}

type ModelConfig struct {
	Name         string `mapstructure:"name"`
	MockResponse string `mapstructure:"mock_response"`
}

type ProviderConfig struct {
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffMillis  int    `mapstructure:"backoff_millis"`
}

type AnthropicConfig struct {
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffMillis  int    `mapstructure:"backoff_millis"`
	MaxTokens      int    `mapstructure:"max_tokens"`
}

type OllamaConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".evalgo")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
