package auth

import (
	"strings"
	"time"
)

// AuthType is how a credential authenticates
type AuthType string

const (
	AuthTypeAPIKey AuthType = "api_key"
)

// Provider names used as storage keys
const (
	ProviderAnthropic = "anthropic"
)

// Credential is one stored login
type Credential struct {
	Type    AuthType  `json:"type"`
	APIKey  string    `json:"key"`
	SavedAt time.Time `json:"saved_at"`
}

// IsValid reports whether the credential can be used
func (c Credential) IsValid() bool {
	return c.Type == AuthTypeAPIKey && strings.TrimSpace(c.APIKey) != ""
}

// Masked shows the start and end of the key only
func (c Credential) Masked() string {
	k := c.APIKey
	if len(k) <= 12 {
		return strings.Repeat("*", len(k))
	}
	return k[:7] + "..." + k[len(k)-4:]
}
