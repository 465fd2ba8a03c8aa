package auth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AuthConfig holds all authentication configuration for the application
type AuthConfig struct {
	JWTSecret   string                    `yaml:"jwt_secret"`
	RedirectURL string                    `yaml:"redirect_url"`
	Providers   map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig holds configuration for a specific OAuth provider
type ProviderConfig struct {
	ClientID          string `yaml:"client_id"`
	ClientSecret      string `yaml:"client_secret"`
	EnterpriseBaseURL string `yaml:"enterprise_base_url,omitempty"`
}

// LoadAuthConfig loads and validates authentication configuration
func LoadAuthConfig(configPath string) (*AuthConfig, error) {
	if configPath == "" {
		configPath = "config/auth.yaml"
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading auth config file: %w", err)
	}

	var config AuthConfig
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("error unmarshaling auth config: %w", err)
	}

	// Environment overrides for sensitive values
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		config.JWTSecret = jwtSecret
	}
	if redirectURL := os.Getenv("AUTH_REDIRECT_URL"); redirectURL != "" {
		config.RedirectURL = redirectURL
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("auth config validation failed: %w", err)
	}

	return &config, nil
}

// GetProvider returns the configuration for a specific provider
func (c *AuthConfig) GetProvider(provider string) (*ProviderConfig, error) {
	providerConfig, exists := c.Providers[provider]
	if !exists {
		return nil, fmt.Errorf("provider '%s' not found", provider)
	}
	return &providerConfig, nil
}

// Validate validates the authentication configuration
func (c *AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}
	for name, provider := range c.Providers {
		if provider.ClientID == "" || provider.ClientSecret == "" {
			return fmt.Errorf("provider '%s' must have client_id and client_secret", name)
		}
	}
	return nil
}
