package platforms

import "errors"

// ShopeeConfig holds configuration for the Shopee order API
type ShopeeConfig struct {
	// APIBaseURL is the base URL for the Shopee partner gateway
	APIBaseURL string
	// PartnerID identifies the registered partner application
	PartnerID string
	// PartnerKey is the static API key sent with every request
	PartnerKey string
	// ShopID is the seller shop the orders belong to
	ShopID string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// ShopeeProductionAPIURL is the production gateway endpoint
const ShopeeProductionAPIURL = "https://partner.shopeemobile.com"

var (
	ErrShopeeConfigMissingPartnerID  = errors.New("shopee: partner ID is required")
	ErrShopeeConfigMissingPartnerKey = errors.New("shopee: partner key is required")
	ErrShopeeConfigMissingShopID     = errors.New("shopee: shop ID is required")
)

// NewShopeeConfig creates a Shopee configuration with defaults
func NewShopeeConfig(partnerID, partnerKey, shopID string) *ShopeeConfig {
	return &ShopeeConfig{
		APIBaseURL:     ShopeeProductionAPIURL,
		PartnerID:      partnerID,
		PartnerKey:     partnerKey,
		ShopID:         shopID,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Shopee configuration
func (c *ShopeeConfig) Validate() error {
	if c.PartnerID == "" {
		return ErrShopeeConfigMissingPartnerID
	}
	if c.PartnerKey == "" {
		return ErrShopeeConfigMissingPartnerKey
	}
	if c.ShopID == "" {
		return ErrShopeeConfigMissingShopID
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = ShopeeProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
