package config

import (
	"fmt"
	"time"
)

// ServerConfig represents the configuration of the long-running frontend
type ServerConfig struct {
	Frontend      string
	ListenAddress string
	MaxImageBytes int64
	ReadTimeout   time.Duration
	CORSOrigins   []string
}

// QRConfig represents the QR code rendering configuration
type QRConfig struct {
	Size          int
	RecoveryLevel string
}

// AdvisorConfig represents the configuration of the LLM second opinion
type AdvisorConfig struct {
	Enabled      bool
	Provider     string
	Threshold    float64
	TrustedHosts []string
	MaxRetries   int
}

// LLMConfig holds the settings shared by every LLM provider
type LLMConfig struct {
	MaxTokens      int
	Temperature    float32
	TopP           float32
	MaxContentSize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	LLMConfig
	Region  string
	ModelID string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	LLMConfig
	APIKey    string
	ModelName string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	LLMConfig
	APIKey    string
	BaseURL   string
	ModelName string
}

// GetServer returns the server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server read timeout: %w", err)
	}

	return ServerConfig{
		Frontend:      c.GetString("server.frontend"),
		ListenAddress: c.GetString("server.listen_address"),
		MaxImageBytes: int64(c.GetInt("server.max_image_bytes")),
		ReadTimeout:   readTimeout,
		CORSOrigins:   c.GetStringSlice("server.cors_origins"),
	}, nil
}

// GetQR returns the QR rendering configuration
func (c *Config) GetQR() QRConfig {
	return QRConfig{
		Size:          c.GetInt("qr.size"),
		RecoveryLevel: c.GetString("qr.recovery_level"),
	}
}

// GetAdvisor returns the advisor configuration
func (c *Config) GetAdvisor() AdvisorConfig {
	return AdvisorConfig{
		Enabled:      c.GetBool("advisor.enabled"),
		Provider:     c.GetString("advisor.provider"),
		Threshold:    c.GetFloat64("advisor.threshold"),
		TrustedHosts: c.GetStringSlice("advisor.trusted_hosts"),
		MaxRetries:   c.GetInt("advisor.max_retries"),
	}
}

func (c *Config) getLLM(prefix string) LLMConfig {
	return LLMConfig{
		MaxTokens:      c.GetInt(prefix + ".max_tokens"),
		Temperature:    float32(c.GetFloat64(prefix + ".temperature")),
		TopP:           float32(c.GetFloat64(prefix + ".top_p")),
		MaxContentSize: c.GetInt(prefix + ".max_content_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		LLMConfig: c.getLLM("bedrock"),
		Region:    c.GetString("bedrock.region"),
		ModelID:   c.GetString("bedrock.model_id"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		LLMConfig: c.getLLM("gemini"),
		APIKey:    c.GetString("gemini.api_key"),
		ModelName: c.GetString("gemini.model_name"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		LLMConfig: c.getLLM("openai"),
		APIKey:    c.GetString("openai.api_key"),
		BaseURL:   c.GetString("openai.base_url"),
		ModelName: c.GetString("openai.model_name"),
	}
}
