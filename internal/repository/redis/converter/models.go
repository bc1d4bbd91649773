package converter

// InventoryItemRedisModel — JSON-представление позиции листинга в кэше.
type InventoryItemRedisModel struct {
	ProductID int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Status    string `json:"status"`
	UpdatedAt int64  `json:"updated_at"` // unix nanoseconds
	Source    string `json:"source"`
}
