package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointRule is the rate limit applied to one endpoint. Paths ending in
// "/" match by prefix, so "/tailoring-jobs/" covers "/tailoring-jobs/{id}".
type EndpointRule struct {
	Path   string
	Method string
	Limit  int // requests per window; <= 0 means unlimited
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit
}

// Config holds limiter configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	Rules           []EndpointRule
}

// LoadConfig builds limiter configuration from environment variables.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-endpoint limits. Submitting a tailoring job
// and ingesting new content both call out to the language model, so those
// get the strictest limits. Reads fall through to the default limit.
func DefaultRules() []EndpointRule {
	return []EndpointRule{
		{Path: "/tailoring-jobs", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/source-records", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/job-postings", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		{Path: "/auth/register", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		{Path: "/artifacts/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// match resolves the rule for a request. Health checks are never limited.
func (c *Config) match(path, method string) EndpointRule {
	if path == "/health" && method == "GET" {
		return EndpointRule{Limit: 0}
	}

	for _, rule := range c.Rules {
		if rule.Method == method && rule.Path == path {
			return rule
		}
	}
	for _, rule := range c.Rules {
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}

	return EndpointRule{
		Path:   path,
		Limit:  c.DefaultLimit,
		Window: c.DefaultWindow,
		Burst:  c.DefaultLimit,
	}
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
