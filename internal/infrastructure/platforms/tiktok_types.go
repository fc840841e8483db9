package platforms

// ---------------------------------------------------------------------------
// TikTok Shop API Response Types
// ---------------------------------------------------------------------------

// tiktokOrderListResponse is the response for /order/202309/orders/search
type tiktokOrderListResponse struct {
	Code    int                  `json:"code"`
	Message string               `json:"message"`
	Data    *tiktokOrderListBody `json:"data"`
}

// isSuccess reports the TikTok API convention of code 0 for success
func (r *tiktokOrderListResponse) isSuccess() bool {
	return r.Code == 0
}

type tiktokOrderListBody struct {
	Orders     []tiktokOrder `json:"orders"`
	TotalCount int64         `json:"total_count"`
	More       bool          `json:"more"`
	NextPage   int           `json:"next_page"`
}

type tiktokOrder struct {
	ID               string           `json:"id"`
	ShopID           string           `json:"shop_id"`
	Status           string           `json:"status"`
	BuyerNickname    string           `json:"buyer_nickname"`
	BuyerEmail       string           `json:"buyer_email"`
	TotalAmount      string           `json:"total_amount"`
	ShippingFee      string           `json:"shipping_fee"`
	PlatformDiscount string           `json:"platform_discount"`
	SellerDiscount   string           `json:"seller_discount"`
	CodAmount        string           `json:"cod_amount"`
	Currency         string           `json:"currency"`
	PaymentMethod    string           `json:"payment_method_name"`
	ShippingProvider string           `json:"shipping_provider"`
	TrackingNumber   string           `json:"tracking_number"`
	RecipientAddress tiktokAddress    `json:"recipient_address"`
	LineItems        []tiktokLineItem `json:"line_items"`
	CreateTime       int64            `json:"create_time"`
	UpdateTime       int64            `json:"update_time"`
}

type tiktokAddress struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	// DistrictInfo lists address levels from province down to ward
	DistrictInfo []tiktokDistrict `json:"district_info"`
	FullAddress  string           `json:"full_address"`
}

type tiktokDistrict struct {
	AddressLevelName string `json:"address_level_name"`
	AddressName      string `json:"address_name"`
}

type tiktokLineItem struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	SellerSKU   string `json:"seller_sku"`
	ProductName string `json:"product_name"`
	SKUName     string `json:"sku_name"`
	SalePrice   string `json:"sale_price"`
	// Quantity defaults to 1 when the API omits it; TikTok emits one
	// line item per unit in some regions
	Quantity int `json:"quantity"`
}
