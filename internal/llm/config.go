// Package llm provides the text-understanding collaborator: model
// configuration, a provider client abstraction, and the tailoring, scoring
// and parsing tasks built on top of it.
package llm

// ModelTier represents the capability level requested for a task.
type ModelTier string

const (
	// TierLite is for simple tasks: extraction, cleanup, classification.
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: parsing, scoring.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: tailoring a full record.
	TierAdvanced ModelTier = "advanced"
)

// Provider identifies an LLM provider.
type Provider string

// ProviderGemini is the Google Gemini provider, currently the only one.
const ProviderGemini Provider = "gemini"

// Config maps task tiers to concrete model names for a provider.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, falling back to standard and
// then lite when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with one tier overridden.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)+1),
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return next
}
