package usecase

import (
	"context"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
)

type CatalogUC interface {
	RegisterProduct(ctx context.Context, req *RegisterProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error)
	ArchiveProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type SalesUC interface {
	RecordSale(ctx context.Context, req *RecordSaleReq) (*RecordSaleRes, error)
	Stats(ctx context.Context, locationID string) (*SalesStats, error)
}

type SyncUC interface {
	Reconcile(ctx context.Context, req *ReconcileReq) (*domain.SyncRecord, error)
	ReconcileSnapshot(ctx context.Context, req *ReconcileSnapshotReq) (*domain.SyncRecord, error)
	History(ctx context.Context, branchID string, limit int) ([]*domain.SyncRecord, error)
}

type InventoryUC interface {
	Listing(ctx context.Context, req *ListingReq) ([]InventoryItem, error)
}

type NotificationUC interface {
	List(ctx context.Context, filter *NotificationFilter) []domain.Notification
	Subscribe() (<-chan domain.Notification, func())
}
