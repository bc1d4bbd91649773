package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID                int64
	Name              string
	Category          string
	Price             int64 // Цена хранится в копейках
	ReorderThreshold  int64 // Порог дозаказа
	CriticalThreshold int64 // Критический порог, строго меньше порога дозаказа
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	IsArchived        bool
}

func NewProduct(name, category string, price, reorderThreshold, criticalThreshold int64) *Product {
	return &Product{
		Name:              name,
		Category:          category,
		Price:             price,
		ReorderThreshold:  reorderThreshold,
		CriticalThreshold: criticalThreshold,
	}
}

// Catalog — срез каталога на момент прохода сверки: только валидные идентификаторы товаров.
type Catalog map[int64]Product

// Contains сообщает, известен ли каталогу товар с данным идентификатором.
func (c Catalog) Contains(productID int64) bool {
	_, ok := c[productID]
	return ok
}
