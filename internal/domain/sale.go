package domain

import "time"

// Sale описывает одну продажу в локации. Продажа не является мутабельным
// состоянием: она лишь причина изменения записи леджера и уведомления.
type Sale struct {
	ID         string
	LocationID string
	ProductID  int64
	Quantity   int64
	UnitPrice  int64 // копейки за единицу на момент продажи
	Total      int64
	Timestamp  time.Time
}

func NewSale(id, locationID string, productID, quantity, unitPrice int64, ts time.Time) *Sale {
	return &Sale{
		ID:         id,
		LocationID: locationID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Total:      unitPrice * quantity,
		Timestamp:  ts,
	}
}
