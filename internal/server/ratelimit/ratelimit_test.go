package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{},
		Blacklist:     map[string]bool{},
		EndpointConfigs: []EndpointConfig{
			{Path: "/generate", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
		},
	}
}

func TestLimiter_AllowsWithinBurst(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	allowed1, _ := l.Allow("1.2.3.4", "/generate", "POST")
	allowed2, _ := l.Allow("1.2.3.4", "/generate", "POST")
	allowed3, info := l.Allow("1.2.3.4", "/generate", "POST")

	assert.True(t, allowed1)
	assert.True(t, allowed2)
	assert.False(t, allowed3)
	assert.Equal(t, 2, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	l.Allow("1.2.3.4", "/generate", "POST")
	l.Allow("1.2.3.4", "/generate", "POST")

	allowed, _ := l.Allow("5.6.7.8", "/generate", "POST")
	assert.True(t, allowed, "a different client must have its own bucket")
}

func TestLimiter_DisabledAllowsEverything(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/generate", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_WhitelistBypasses(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist["9.9.9.9"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("9.9.9.9", "/generate", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_BlacklistRejects(t *testing.T) {
	cfg := testConfig()
	cfg.Blacklist["6.6.6.6"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	allowed, info := l.Allow("6.6.6.6", "/health", "POST")
	assert.False(t, allowed)
	assert.False(t, info.Allowed)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/generate", Method: "POST", Limit: 20},
		{Path: "/profiles/", Method: "DELETE", Limit: 100},
	}

	t.Run("exact match", func(t *testing.T) {
		ec := MatchEndpoint("/generate", "POST", configs)
		require.NotNil(t, ec)
		assert.Equal(t, 20, ec.Limit)
	})

	t.Run("prefix match", func(t *testing.T) {
		ec := MatchEndpoint("/profiles/abc-123", "DELETE", configs)
		require.NotNil(t, ec)
		assert.Equal(t, 100, ec.Limit)
	})

	t.Run("method mismatch", func(t *testing.T) {
		assert.Nil(t, MatchEndpoint("/generate", "GET", configs))
	})

	t.Run("health is unlimited", func(t *testing.T) {
		ec := MatchEndpoint("/health", "GET", configs)
		require.NotNil(t, ec)
		assert.Equal(t, 0, ec.Limit)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, MatchEndpoint("/letters", "GET", configs))
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.DefaultLimit)
	assert.NotEmpty(t, cfg.EndpointConfigs)
}

func TestParseIPList(t *testing.T) {
	list := parseIPList(" 1.2.3.4 ,5.6.7.8,, ")
	assert.Equal(t, map[string]bool{"1.2.3.4": true, "5.6.7.8": true}, list)
}
