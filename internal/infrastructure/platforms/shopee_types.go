package platforms

// ---------------------------------------------------------------------------
// Shopee API Response Types
// ---------------------------------------------------------------------------

// shopeeOrderListResponse is the response for /api/v2/order/get_order_list
type shopeeOrderListResponse struct {
	Error    string               `json:"error"`
	Message  string               `json:"message"`
	Response *shopeeOrderListBody `json:"response"`
}

type shopeeOrderListBody struct {
	OrderList   []shopeeOrder `json:"order_list"`
	TotalCount  int64         `json:"total_count"`
	HasNextPage bool          `json:"more"`
}

type shopeeOrder struct {
	OrderSN          string        `json:"order_sn"`
	ShopID           string        `json:"shop_id"`
	OrderStatus      string        `json:"order_status"`
	StatusLabel      string        `json:"order_status_label"`
	BuyerUsername    string        `json:"buyer_username"`
	BuyerPhone       string        `json:"buyer_phone"`
	BuyerEmail       string        `json:"buyer_email"`
	TotalAmount      string        `json:"total_amount"`
	ShippingFee      string        `json:"actual_shipping_fee"`
	VoucherValue     string        `json:"voucher_value"`
	CodAmount        string        `json:"cod_amount"`
	Currency         string        `json:"currency"`
	PaymentMethod    string        `json:"payment_method"`
	ShippingCarrier  string        `json:"shipping_carrier"`
	TrackingNumber   string        `json:"tracking_number"`
	RecipientAddress shopeeAddress `json:"recipient_address"`
	ItemList         []shopeeItem  `json:"item_list"`
	CreateTime       int64         `json:"create_time"`
	UpdateTime       int64         `json:"update_time"`
}

type shopeeAddress struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	State       string `json:"state"`
	City        string `json:"city"`
	District    string `json:"district"`
	FullAddress string `json:"full_address"`
}

type shopeeItem struct {
	ItemID               int64  `json:"item_id"`
	ItemSKU              string `json:"item_sku"`
	ItemName             string `json:"item_name"`
	ModelName            string `json:"model_name"`
	ModelQuantity        int    `json:"model_quantity_purchased"`
	ModelOriginalPrice   string `json:"model_original_price"`
	ModelDiscountedPrice string `json:"model_discounted_price"`
}
