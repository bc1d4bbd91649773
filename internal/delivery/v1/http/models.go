package http

import (
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
)

// ProductReq — тело запроса создания/обновления товара.
// Цена принимается строкой в рублях и конвертируется в копейки на границе API.
type ProductReq struct {
	Name              string `json:"name"`
	Category          string `json:"category"`
	Price             string `json:"price" example:"149.90"`
	ReorderThreshold  int64  `json:"reorder_threshold"`
	CriticalThreshold int64  `json:"critical_threshold"`
}

type ProductRes struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Category          string     `json:"category"`
	Price             string     `json:"price"`
	ReorderThreshold  int64      `json:"reorder_threshold"`
	CriticalThreshold int64      `json:"critical_threshold"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	IsArchived        bool       `json:"is_archived"`
}

func toProductRes(product *domain.Product) *ProductRes {
	return &ProductRes{
		ID:                product.ID,
		Name:              product.Name,
		Category:          product.Category,
		Price:             formatCents(product.Price),
		ReorderThreshold:  product.ReorderThreshold,
		CriticalThreshold: product.CriticalThreshold,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
		IsArchived:        product.IsArchived,
	}
}

// SaleReq — тело запроса проведения продажи.
type SaleReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type SaleRes struct {
	SaleID    string    `json:"sale_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	Total     string    `json:"total"`
	Remaining int64     `json:"remaining"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type StatsRes struct {
	TotalSales   int64  `json:"total_sales"`
	TotalRevenue string `json:"total_revenue"`
	AverageSale  string `json:"average_sale"`
}

type InventoryItemRes struct {
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     string    `json:"price"`
	Quantity  int64     `json:"quantity"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
}

func toInventoryRes(items []usecase.InventoryItem) []InventoryItemRes {
	result := make([]InventoryItemRes, 0, len(items))
	for _, item := range items {
		result = append(result, InventoryItemRes{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Price:     formatCents(item.Price),
			Quantity:  item.Quantity,
			Status:    string(item.Status),
			UpdatedAt: item.UpdatedAt,
			Source:    string(item.Source),
		})
	}

	return result
}

// SnapshotReq — внешне снятый снапшот остатков филиала.
type SnapshotReq struct {
	Inventory []SnapshotEntryReq `json:"inventory"`
}

type SnapshotEntryReq struct {
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SyncChangeRes struct {
	ProductID      int64  `json:"product_id"`
	PrevBranchQty  *int64 `json:"prev_branch_qty,omitempty"`
	PrevCentralQty *int64 `json:"prev_central_qty,omitempty"`
	ResolvedQty    int64  `json:"resolved_qty"`
	Reason         string `json:"reason"`
}

type SyncRecordRes struct {
	ID        int64           `json:"id"`
	BranchID  string          `json:"branch_id"`
	Timestamp time.Time       `json:"timestamp"`
	Changes   []SyncChangeRes `json:"changes"`
	Orphaned  []int64         `json:"orphaned,omitempty"`
	Empty     bool            `json:"empty"`
}

func toSyncRecordRes(record *domain.SyncRecord) *SyncRecordRes {
	changes := make([]SyncChangeRes, 0, len(record.Changes))
	for _, change := range record.Changes {
		changes = append(changes, SyncChangeRes{
			ProductID:      change.ProductID,
			PrevBranchQty:  change.PrevBranchQty,
			PrevCentralQty: change.PrevCentralQty,
			ResolvedQty:    change.ResolvedQty,
			Reason:         string(change.Reason),
		})
	}

	return &SyncRecordRes{
		ID:        record.ID,
		BranchID:  record.BranchID,
		Timestamp: record.Timestamp,
		Changes:   changes,
		Orphaned:  record.Orphaned,
		Empty:     record.Empty(),
	}
}

type NotificationRes struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Severity   string    `json:"severity"`
	Kind       string    `json:"kind"`
	LocationID string    `json:"location_id"`
	ProductID  int64     `json:"product_id,omitempty"`
	Message    string    `json:"message"`
}

func toNotificationRes(notifications []domain.Notification) []NotificationRes {
	result := make([]NotificationRes, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, NotificationRes{
			ID:         n.ID,
			Timestamp:  n.Timestamp,
			Severity:   string(n.Severity),
			Kind:       string(n.Kind),
			LocationID: n.LocationID,
			ProductID:  n.ProductID,
			Message:    n.Message,
		})
	}

	return result
}
