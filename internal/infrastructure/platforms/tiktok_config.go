package platforms

import "errors"

// TikTokConfig holds configuration for the TikTok Shop order API
type TikTokConfig struct {
	// APIBaseURL is the base URL for the TikTok Shop open API
	APIBaseURL string
	// AppKey identifies the registered application
	AppKey string
	// AccessToken is the static shop access token sent with every request
	AccessToken string
	// ShopCipher scopes requests to one authorized shop
	ShopCipher string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// TikTokProductionAPIURL is the production open API endpoint
const TikTokProductionAPIURL = "https://open-api.tiktokglobalshop.com"

var (
	ErrTikTokConfigMissingAppKey      = errors.New("tiktok: app key is required")
	ErrTikTokConfigMissingAccessToken = errors.New("tiktok: access token is required")
)

// NewTikTokConfig creates a TikTok Shop configuration with defaults
func NewTikTokConfig(appKey, accessToken, shopCipher string) *TikTokConfig {
	return &TikTokConfig{
		APIBaseURL:     TikTokProductionAPIURL,
		AppKey:         appKey,
		AccessToken:    accessToken,
		ShopCipher:     shopCipher,
		TimeoutSeconds: 30,
	}
}

// Validate validates the TikTok configuration
func (c *TikTokConfig) Validate() error {
	if c.AppKey == "" {
		return ErrTikTokConfigMissingAppKey
	}
	if c.AccessToken == "" {
		return ErrTikTokConfigMissingAccessToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = TikTokProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
