package cart

// Product is the slice of the catalog a line item snapshots at add time.
// Callers map their catalog records into this; the cart never reaches back
// into the catalog afterwards.
type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	ImageURL      string   `json:"image_url"`
	Seller        string   `json:"seller"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	Stock         int      `json:"stock"`
}

// LineItem is one row in the cart. Name, Image, Price, OriginalPrice,
// Seller and Stock are frozen at add time; a later add of the same product
// only bumps Quantity.
type LineItem struct {
	ID            int64    `json:"id"`
	ProductID     int64    `json:"product_id"`
	Name          string   `json:"name"`
	Image         string   `json:"image"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Seller        string   `json:"seller"`
	Stock         int      `json:"stock"`
	Quantity      int      `json:"quantity"`
}

// View is the JSON shape handlers return: items in insertion order plus the
// derived totals.
type View struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

// ErrorPolicy decides what happens when the backing store fails. Under
// SwallowErrors mutations apply in memory and the write failure is dropped,
// keeping the cart a best-effort cache. SurfaceErrors returns the storage
// error to the caller (the in-memory change still applies).
type ErrorPolicy int

const (
	SwallowErrors ErrorPolicy = iota
	SurfaceErrors
)
