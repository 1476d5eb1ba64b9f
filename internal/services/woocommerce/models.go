package woocommerce

import "encoding/json"

// Order statuses we branch on. WooCommerce passes others through
// ("on-hold", "refunded", ...); they only count where a policy says so.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	ProductStatusPublish = "publish"

	ProductTypeSimple   = "simple"
	ProductTypeVariable = "variable"

	StockStatusInStock = "instock"
)

// Order is a WooCommerce order. Totals come over the wire as strings.
type Order struct {
	ID        int64      `json:"id"`
	Status    string     `json:"status"`
	Total     string     `json:"total"`
	Currency  string     `json:"currency"`
	LineItems []LineItem `json:"line_items"`
}

type LineItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Product is a WooCommerce product. StockQuantity is a pointer because
// the API sends null when stock is not tracked. For variable products
// the parent's stock fields are not authoritative; the variations are.
type Product struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Type           string `json:"type"`
	StockStatus    string `json:"stock_status"`
	StockQuantity  *int   `json:"stock_quantity"`
	ManageStock    bool   `json:"manage_stock"`
	LowStockAmount *int   `json:"low_stock_amount"`
}

// Variation is a purchasable sub-configuration of a variable product.
type Variation struct {
	ID            int64  `json:"id"`
	StockStatus   string `json:"stock_status"`
	StockQuantity *int   `json:"stock_quantity"`
}

// Setting is one entry of the settings/general resource. Values are
// mixed-type upstream (strings for most settings, arrays for things
// like allowed countries), so the raw JSON is kept and interpreted by
// the reader.
type Setting struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

// StringValue returns the setting value when it is a JSON string.
func (s Setting) StringValue() (string, bool) {
	var v string
	if err := json.Unmarshal(s.Value, &v); err != nil {
		return "", false
	}
	return v, true
}
