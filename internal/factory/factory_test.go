package factory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/qr-guard/internal/adapters/advice"
	"github.com/mikey/qr-guard/internal/adapters/cache"
	"github.com/mikey/qr-guard/internal/adapters/frontend"
	"github.com/mikey/qr-guard/internal/adapters/openai"
	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/mikey/qr-guard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newConfig(overrides map[string]interface{}) *config.Config {
	v := config.NewEmptyViper()
	for key, value := range overrides {
		v.Set(key, value)
	}
	return config.NewFromViper(v)
}

func newAdvisorFactory(v map[string]interface{}) *AdvisorFactory {
	logger := zap.NewNop()
	return NewAdvisorFactory(newConfig(v), logger, utils.NewTextProcessor(logger))
}

func TestCreateAdvisor(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		advisor, err := newAdvisorFactory(nil).CreateAdvisor()
		require.NoError(t, err)
		assert.Nil(t, advisor)
	})

	t.Run("OpenAI", func(t *testing.T) {
		advisor, err := newAdvisorFactory(map[string]interface{}{
			"advisor.enabled":     true,
			"advisor.provider":    "openai",
			"advisor.max_retries": 0,
			"openai.api_key":      "test-key",
		}).CreateAdvisor()
		require.NoError(t, err)
		assert.IsType(t, &openai.OpenAIClient{}, advisor)
	})

	t.Run("Retries wrap the provider", func(t *testing.T) {
		advisor, err := newAdvisorFactory(map[string]interface{}{
			"advisor.enabled":  true,
			"advisor.provider": "openai",
			"openai.api_key":   "test-key",
		}).CreateAdvisor()
		require.NoError(t, err)
		assert.IsType(t, &advice.RetryingAdvisor{}, advisor)
	})

	t.Run("Invalid retry backoff", func(t *testing.T) {
		_, err := newAdvisorFactory(map[string]interface{}{
			"advisor.enabled":       true,
			"advisor.provider":      "openai",
			"advisor.retry_backoff": "soon",
			"openai.api_key":        "test-key",
		}).CreateAdvisor()
		assert.Error(t, err)
	})

	t.Run("Missing credentials", func(t *testing.T) {
		_, err := newAdvisorFactory(map[string]interface{}{
			"advisor.enabled":  true,
			"advisor.provider": "gemini",
		}).CreateAdvisor()
		assert.Error(t, err)
	})

	t.Run("Unsupported provider", func(t *testing.T) {
		_, err := newAdvisorFactory(map[string]interface{}{
			"advisor.enabled":  true,
			"advisor.provider": "crystal-ball",
		}).CreateAdvisor()
		assert.ErrorContains(t, err, "unsupported LLM provider")
	})
}

func TestCreateCacheRepository(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Advisor disabled", func(t *testing.T) {
		repo, err := NewCacheFactory(newConfig(nil), logger).CreateCacheRepository()
		require.NoError(t, err)
		assert.Nil(t, repo)
	})

	t.Run("Cache disabled", func(t *testing.T) {
		repo, err := NewCacheFactory(newConfig(map[string]interface{}{
			"advisor.enabled": true,
			"cache.enabled":   false,
		}), logger).CreateCacheRepository()
		require.NoError(t, err)
		assert.Nil(t, repo)
	})

	t.Run("Memory", func(t *testing.T) {
		repo, err := NewCacheFactory(newConfig(map[string]interface{}{
			"advisor.enabled": true,
		}), logger).CreateCacheRepository()
		require.NoError(t, err)
		require.IsType(t, &cache.MemoryCache{}, repo)
		repo.(*cache.MemoryCache).Stop()
	})

	t.Run("SQLite", func(t *testing.T) {
		repo, err := NewCacheFactory(newConfig(map[string]interface{}{
			"advisor.enabled":   true,
			"cache.type":        "sqlite",
			"cache.sqlite_path": filepath.Join(t.TempDir(), "nested", "cache.db"),
		}), logger).CreateCacheRepository()
		require.NoError(t, err)
		require.IsType(t, &cache.SQLiteCache{}, repo)
		repo.(*cache.SQLiteCache).Stop()
	})

	t.Run("Unsupported type", func(t *testing.T) {
		_, err := NewCacheFactory(newConfig(map[string]interface{}{
			"advisor.enabled": true,
			"cache.type":      "memcached",
		}), logger).CreateCacheRepository()
		assert.ErrorContains(t, err, "unsupported cache type")
	})

	t.Run("TTL", func(t *testing.T) {
		ttl, err := NewCacheFactory(newConfig(map[string]interface{}{"cache.ttl": "90m"}), logger).GetCacheTTL()
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, ttl)
	})
}

func TestCodecFactory(t *testing.T) {
	logger := zap.NewNop()

	encoder, err := NewCodecFactory(newConfig(nil), logger).CreateEncoder()
	require.NoError(t, err)
	assert.NotNil(t, encoder)

	_, err = NewCodecFactory(newConfig(map[string]interface{}{"qr.recovery_level": "maximum"}), logger).CreateEncoder()
	assert.Error(t, err)

	assert.NotNil(t, NewCodecFactory(newConfig(nil), logger).CreateDecoder())
}

func TestCreateFrontend(t *testing.T) {
	logger := zap.NewNop()
	service := core.NewSafetyService(nil, nil, nil, nil, nil, logger, core.ServiceOptions{})

	fe, err := NewFrontendFactory(newConfig(nil), logger, service).CreateFrontend()
	require.NoError(t, err)
	assert.IsType(t, &frontend.HTTPFrontend{}, fe)

	fe, err = NewFrontendFactory(newConfig(map[string]interface{}{"server.frontend": "cli"}), logger, service).CreateFrontend()
	require.NoError(t, err)
	assert.IsType(t, &frontend.CliFrontend{}, fe)

	_, err = NewFrontendFactory(newConfig(map[string]interface{}{"server.frontend": "smtp"}), logger, service).CreateFrontend()
	assert.Error(t, err)
}

func TestNewServiceOptions(t *testing.T) {
	opts, err := NewServiceOptions(newConfig(map[string]interface{}{
		"advisor.enabled":   true,
		"advisor.threshold": 0.5,
	}))
	require.NoError(t, err)

	assert.Equal(t, core.ServiceOptions{
		AdvisorEnabled:  true,
		AdviceThreshold: 0.5,
		CacheEnabled:    true,
		CacheTTL:        24 * time.Hour,
		QRSize:          500,
	}, opts)

	_, err = NewServiceOptions(newConfig(map[string]interface{}{"cache.ttl": "forever"}))
	assert.Error(t, err)
}
