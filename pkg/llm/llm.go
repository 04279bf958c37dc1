package llm

import (
	"errors"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Config points the engine at an OpenAI-compatible completion endpoint.
// BaseURL stays empty for api.openai.com; set it for gateways that speak the
// same protocol.
type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey    string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model     string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-mini"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL   string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName  string        `envconfig:"SITE_NAME" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("llm api key is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("llm model is required")
	}
	return nil
}

// NewClient builds the SDK client. Request deadlines are enforced per call
// by the resolver, not here.
func NewClient(cfg Config) (*openaisdk.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	client := openaisdk.NewClient(opts...)
	return &client, nil
}
