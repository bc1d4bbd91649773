package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID                int64      `db:"id"`
	Name              string     `db:"name"`
	Category          string     `db:"category"`
	Price             int64      `db:"price"`
	ReorderThreshold  int64      `db:"reorder_threshold"`
	CriticalThreshold int64      `db:"critical_threshold"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at"`
	IsArchived        bool       `db:"is_archived"`
}

// StockEntryModel представляет запись таблицы stock_entries в PostgreSQL.
type StockEntryModel struct {
	LocationID string    `db:"location_id"`
	ProductID  int64     `db:"product_id"`
	Quantity   int64     `db:"quantity"`
	UpdatedAt  time.Time `db:"updated_at"`
	Source     string    `db:"source"`
}

// SaleModel представляет запись таблицы sales в PostgreSQL.
type SaleModel struct {
	ID         string    `db:"id"`
	LocationID string    `db:"location_id"`
	ProductID  int64     `db:"product_id"`
	Quantity   int64     `db:"quantity"`
	UnitPrice  int64     `db:"unit_price"`
	Total      int64     `db:"total"`
	RecordedAt time.Time `db:"recorded_at"`
}

// SyncRecordModel представляет запись таблицы sync_records в PostgreSQL.
// Изменения и orphaned-товары хранятся JSONB-колонками: запись истории
// неизменяема и читается только целиком.
type SyncRecordModel struct {
	ID        int64             `db:"id"`
	BranchID  string            `db:"branch_id"`
	CreatedAt time.Time         `db:"created_at"`
	Changes   []SyncChangeModel `db:"changes"`
	Orphaned  []int64           `db:"orphaned"`
}

// SyncChangeModel — JSON-представление одного разрешённого расхождения.
type SyncChangeModel struct {
	ProductID      int64  `json:"product_id"`
	PrevBranchQty  *int64 `json:"prev_branch_qty,omitempty"`
	PrevCentralQty *int64 `json:"prev_central_qty,omitempty"`
	ResolvedQty    int64  `json:"resolved_qty"`
	Reason         string `json:"reason"`
}

// NotificationModel представляет запись таблицы notifications в PostgreSQL.
type NotificationModel struct {
	ID         string    `db:"id"`
	CreatedAt  time.Time `db:"created_at"`
	Severity   string    `db:"severity"`
	Kind       string    `db:"kind"`
	LocationID string    `db:"location_id"`
	ProductID  int64     `db:"product_id"`
	Message    string    `db:"message"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	LocationID  string     `db:"location_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
