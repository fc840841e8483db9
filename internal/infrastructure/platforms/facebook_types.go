package platforms

// ---------------------------------------------------------------------------
// Pancake POS API Response Types (Facebook page orders)
// ---------------------------------------------------------------------------

// pancakeOrderListResponse is the response for /shops/{shop_id}/orders
type pancakeOrderListResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Data       []pancakeOrder `json:"data"`
	TotalPages int            `json:"total_pages"`
	PageNumber int            `json:"page_number"`
	Total      int64          `json:"total_entries"`
}

type pancakeOrder struct {
	ID     string `json:"id"`
	ShopID string `json:"shop_id"`
	// Status is Pancake's numeric status code
	Status          int                    `json:"status"`
	StatusName      string                 `json:"status_name"`
	PageID          string                 `json:"page_id"`
	PostID          string                 `json:"post_id"`
	Bill            pancakeBill            `json:"bill"`
	ShippingAddress pancakeShippingAddress `json:"shipping_address"`
	// Money amounts arrive as integer VND
	TotalPrice     int64          `json:"total_price"`
	ShippingFee    int64          `json:"shipping_fee"`
	TotalDiscount  int64          `json:"total_discount"`
	Cod            int64          `json:"cod"`
	IsFreeShipping bool           `json:"is_free_shipping"`
	Partner        pancakePartner `json:"partner"`
	Items          []pancakeItem  `json:"items"`
	InsertedAt     string         `json:"inserted_at"`
	UpdatedAt      string         `json:"updated_at"`
}

type pancakeBill struct {
	FullName    string `json:"bill_full_name"`
	PhoneNumber string `json:"bill_phone_number"`
	Email       string `json:"bill_email"`
}

type pancakeShippingAddress struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Province    string `json:"province_name"`
	District    string `json:"district_name"`
	Commune     string `json:"commune_name"`
	Address     string `json:"address"`
}

type pancakePartner struct {
	PartnerName string `json:"partner_name"`
	ExtendCode  string `json:"extend_code"`
	// OrderNumberVtp is the carrier tracking number
	OrderNumberVtp string `json:"order_number_vtp"`
}

type pancakeItem struct {
	ProductID   string `json:"product_id"`
	VariationID string `json:"variation_id"`
	// VariationInfo carries the display name and SKU
	VariationInfo pancakeVariationInfo `json:"variation_info"`
	Quantity      int                  `json:"quantity"`
	RetailPrice   int64                `json:"retail_price"`
	TotalDiscount int64                `json:"total_discount"`
}

type pancakeVariationInfo struct {
	Name        string `json:"name"`
	DisplayID   string `json:"display_id"`
	RetailPrice int64  `json:"retail_price"`
}
