package domain

import "time"

// UpdateSource помечает происхождение последнего изменения записи леджера.
type UpdateSource string

const (
	SourceLocal UpdateSource = "local" // локальная операция (продажа, приход)
	SourceSync  UpdateSource = "sync"  // запись разрешения конфликта движком сверки
)

// StockEntry — остаток одного товара в одной локации.
type StockEntry struct {
	ProductID int64
	Quantity  int64
	UpdatedAt time.Time
	Source    UpdateSource
}
