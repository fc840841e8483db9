package platforms

import "errors"

// FacebookConfig holds configuration for pulling Facebook page orders
// through the Pancake POS API.
type FacebookConfig struct {
	// APIBaseURL is the base URL for the Pancake POS API
	APIBaseURL string
	// APIKey is the static key sent with every request
	APIKey string
	// ShopID is the Pancake shop that aggregates the pages
	ShopID string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// FacebookProductionAPIURL is the production Pancake endpoint
const FacebookProductionAPIURL = "https://pos.pages.fm/api/v1"

var (
	ErrFacebookConfigMissingAPIKey = errors.New("facebook: API key is required")
	ErrFacebookConfigMissingShopID = errors.New("facebook: shop ID is required")
)

// NewFacebookConfig creates a Facebook/Pancake configuration with defaults
func NewFacebookConfig(apiKey, shopID string) *FacebookConfig {
	return &FacebookConfig{
		APIBaseURL:     FacebookProductionAPIURL,
		APIKey:         apiKey,
		ShopID:         shopID,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Facebook configuration
func (c *FacebookConfig) Validate() error {
	if c.APIKey == "" {
		return ErrFacebookConfigMissingAPIKey
	}
	if c.ShopID == "" {
		return ErrFacebookConfigMissingShopID
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = FacebookProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
