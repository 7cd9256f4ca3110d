package di

import (
	"flag"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/qr-guard/internal/adapters/frontend"
	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/mikey/qr-guard/internal/factory"
	"github.com/mikey/qr-guard/internal/logging"
)

// CLIFlags contains the command line flags shared by the CLI subcommands
type CLIFlags struct {
	// Advisor flags
	Advise       bool
	Provider     string
	Threshold    float64
	TrustedHosts string

	// LLM flags
	MaxTokens      int
	Temperature    float64
	TopP           float64
	MaxContentSize int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModelName string

	// QR flags
	Size          int
	RecoveryLevel string

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// RegisterFlags registers the shared CLI flags on fs
func RegisterFlags(fs *flag.FlagSet) *CLIFlags {
	flags := &CLIFlags{}

	// Advisor flags
	fs.BoolVar(&flags.Advise, "advise", false, "Ask an LLM for a second opinion on URLs")
	fs.StringVar(&flags.Provider, "provider", "openai", "LLM provider (bedrock, gemini, openai)")
	fs.Float64Var(&flags.Threshold, "threshold", 0.7, "Score at which the advisor marks content suspicious")
	fs.StringVar(&flags.TrustedHosts, "trusted", "", "Comma-separated list of trusted hosts")

	// LLM flags
	fs.IntVar(&flags.MaxTokens, "max-tokens", 500, "Maximum tokens for LLM response")
	fs.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for LLM generation")
	fs.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	fs.IntVar(&flags.MaxContentSize, "max-content-size", 2048, "Maximum content size to send to LLM")

	// Bedrock flags
	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "Base URL of an OpenAI compatible API")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// QR flags
	fs.IntVar(&flags.Size, "size", 500, "Size of generated QR codes in pixels")
	fs.StringVar(&flags.RecoveryLevel, "recovery", "medium", "QR error correction (low, medium, high, highest)")

	// Output flags
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// No cache for CLI
	if err := container.Provide(func() core.CacheRepository { return nil }); err != nil {
		return nil, err
	}

	if err := provideService(container); err != nil {
		return nil, err
	}

	// Register CLI frontend
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory) *frontend.CliFrontend {
		return f.CreateCliFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// splitHosts splits a comma-separated host list
func splitHosts(list string) []string {
	if list == "" {
		return []string{}
	}

	hosts := strings.Split(list, ",")
	for i, host := range hosts {
		hosts[i] = strings.TrimSpace(host)
	}
	return hosts
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("server.frontend", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("cache.enabled", false)

	// Set QR settings
	v.Set("qr.size", flags.Size)
	v.Set("qr.recovery_level", flags.RecoveryLevel)

	// Set advisor settings
	v.Set("advisor.enabled", flags.Advise)
	v.Set("advisor.provider", flags.Provider)
	v.Set("advisor.threshold", flags.Threshold)
	v.Set("advisor.trusted_hosts", splitHosts(flags.TrustedHosts))

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.base_url", flags.OpenAIBaseURL)
		v.Set("openai.model_name", flags.OpenAIModelName)
	}
	v.Set(flags.Provider+".max_tokens", flags.MaxTokens)
	v.Set(flags.Provider+".temperature", flags.Temperature)
	v.Set(flags.Provider+".top_p", flags.TopP)
	v.Set(flags.Provider+".max_content_size", flags.MaxContentSize)

	return config.NewFromViper(v)
}
