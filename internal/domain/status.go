package domain

// StockStatus — классификация остатка товара относительно его порогов.
type StockStatus string

const (
	StatusCritical StockStatus = "critical"
	StatusLow      StockStatus = "low"
	StatusNormal   StockStatus = "normal"
)

// Classify — единственный источник истины для классификации остатков.
// Чистая детерминированная функция: используется и движком сверки, и центром уведомлений,
// чтобы классификация никогда не расходилась между подсистемами.
func Classify(quantity, criticalThreshold, reorderThreshold int64) StockStatus {
	switch {
	case quantity <= criticalThreshold:
		return StatusCritical
	case quantity <= reorderThreshold:
		return StatusLow
	default:
		return StatusNormal
	}
}

// ClassifyEntry классифицирует запись леджера по порогам её товара.
func ClassifyEntry(entry StockEntry, product Product) StockStatus {
	return Classify(entry.Quantity, product.CriticalThreshold, product.ReorderThreshold)
}
