package auth

import "nbedit/internal/logger"

// Credential sources reported by ResolveAPIKey
const (
	SourceEnv    = "environment"
	SourceStored = "stored login"
	SourceNone   = "not authenticated"
)

// ResolveAPIKey picks the Anthropic key to use. A key from the
// environment or config wins over a stored login. An empty key means none
// is available.
func ResolveAPIKey(configured string, s *Storage) (key, source string) {
	if configured != "" {
		return configured, SourceEnv
	}
	if s == nil {
		return "", SourceNone
	}
	c, err := s.Get(ProviderAnthropic)
	if err != nil {
		logger.Error("Failed to read stored credentials: %v", err)
		return "", SourceNone
	}
	if c == nil || !c.IsValid() {
		return "", SourceNone
	}
	return c.APIKey, SourceStored
}
