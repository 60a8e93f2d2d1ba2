package deepgram

import "os"

const (
	defaultEndpoint = "wss://api.deepgram.com/v1/listen"
	defaultModel    = "nova-3"
	defaultLanguage = "en-US"
)

type CapabilityOption func(*Capability)

// WithLanguage sets the recognition language, en-US by default.
func WithLanguage(language string) CapabilityOption {
	return func(c *Capability) {
		if language != "" {
			c.language = language
		}
	}
}

func WithModel(model string) CapabilityOption {
	return func(c *Capability) {
		if model != "" {
			c.model = model
		}
	}
}

// WithAPIKeyLookup replaces the lookup of DEEPGRAM_API_KEY in the process
// environment.
func WithAPIKeyLookup(lookup func(key string) (string, bool)) CapabilityOption {
	return func(c *Capability) {
		c.lookupEnv = lookup
	}
}

func WithEndpoint(endpoint string) CapabilityOption {
	return func(c *Capability) {
		c.endpoint = endpoint
	}
}

func defaultOptions(c *Capability) {
	c.language = defaultLanguage
	c.model = defaultModel
	c.endpoint = defaultEndpoint
	c.lookupEnv = os.LookupEnv
}
