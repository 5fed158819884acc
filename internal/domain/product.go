package domain

type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Category      string   `json:"category"`
	Gender        string   `json:"gender"`
	StockQuantity int      `json:"stockQuantity"`
	ImageURLs     []string `json:"imageUrls,omitempty"`
}
