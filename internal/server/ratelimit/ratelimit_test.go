package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(rules ...EndpointRule) *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{},
		Blacklist:     map[string]bool{},
		Rules:         rules,
	}
}

func TestAllow_BurstThenLimited(t *testing.T) {
	l := NewLimiter(testConfig(EndpointRule{
		Path: "/tailoring-jobs", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2,
	}))
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/tailoring-jobs", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/tailoring-jobs", "POST")
	assert.True(t, allowed)

	allowed, info := l.Allow("1.2.3.4", "/tailoring-jobs", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig(EndpointRule{
		Path: "/tailoring-jobs", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1,
	}))
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/tailoring-jobs", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/tailoring-jobs", "POST")
	require.False(t, allowed)

	allowed, _ = l.Allow("5.6.7.8", "/tailoring-jobs", "POST")
	assert.True(t, allowed, "a second client should have its own bucket")
}

func TestAllow_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/tailoring-jobs", "POST")
		require.True(t, allowed)
	}
}

func TestAllow_WhitelistAndBlacklist(t *testing.T) {
	cfg := testConfig(EndpointRule{
		Path: "/tailoring-jobs", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1,
	})
	cfg.Whitelist["9.9.9.9"] = true
	cfg.Blacklist["6.6.6.6"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("9.9.9.9", "/tailoring-jobs", "POST")
		require.True(t, allowed)
	}

	allowed, _ := l.Allow("6.6.6.6", "/tailoring-jobs", "POST")
	assert.False(t, allowed)
}

func TestMatch_HealthIsUnlimited(t *testing.T) {
	cfg := testConfig()
	rule := cfg.match("/health", "GET")
	assert.LessOrEqual(t, rule.Limit, 0)
}

func TestMatch_PrefixRule(t *testing.T) {
	cfg := testConfig(EndpointRule{
		Path: "/artifacts/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10,
	})

	rule := cfg.match("/artifacts/abc123/apply", "POST")
	assert.Equal(t, "/artifacts/", rule.Path)

	// Different method falls through to the default.
	rule = cfg.match("/artifacts/abc123", "GET")
	assert.Equal(t, cfg.DefaultLimit, rule.Limit)
}

func TestDropIdleBuckets(t *testing.T) {
	l := NewLimiter(testConfig(EndpointRule{
		Path: "/tailoring-jobs", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2,
	}))
	defer l.Stop()

	l.Allow("1.2.3.4", "/tailoring-jobs", "POST")
	require.Len(t, l.buckets, 1)

	// A cutoff in the future treats every bucket as idle.
	l.dropIdleBuckets(time.Now().Add(time.Minute))
	assert.Empty(t, l.buckets)
}
