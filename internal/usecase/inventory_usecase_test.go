package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
)

func newInventoryEnv(t *testing.T, products ...domain.Product) (*InventoryUseCase, *domain.Registry, *mockCacheRepo) {
	t.Helper()

	registry := domain.NewRegistry("central", []string{"branch-1"})
	cacheRepo := newMockCacheRepo()

	uc := NewInventoryUC(registry, newMockProductRepo(products...), cacheRepo, noopLogger{})
	return uc, registry, cacheRepo
}

func TestListingAnnotatesStatus(t *testing.T) {
	uc, registry, _ := newInventoryEnv(t, testProduct(1), testProduct(2), testProduct(3))

	branch, _ := registry.Branch("branch-1")
	ts := time.Now()
	branch.Restore([]domain.StockEntry{
		entry(1, 1, ts, domain.SourceLocal),  // critical (порог 2)
		entry(2, 4, ts, domain.SourceSync),   // low (порог 5)
		entry(3, 40, ts, domain.SourceLocal), // normal
	})

	items, err := uc.Listing(context.Background(), &ListingReq{LocationID: "branch-1"})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	wantStatus := map[int64]domain.StockStatus{
		1: domain.StatusCritical,
		2: domain.StatusLow,
		3: domain.StatusNormal,
	}
	for _, item := range items {
		if item.Status != wantStatus[item.ProductID] {
			t.Errorf("product %d: status = %s, want %s", item.ProductID, item.Status, wantStatus[item.ProductID])
		}
	}
}

func TestListingStatusFilter(t *testing.T) {
	uc, registry, _ := newInventoryEnv(t, testProduct(1), testProduct(2))

	branch, _ := registry.Branch("branch-1")
	ts := time.Now()
	branch.Restore([]domain.StockEntry{
		entry(1, 1, ts, domain.SourceLocal),
		entry(2, 30, ts, domain.SourceLocal),
	})

	items, err := uc.Listing(context.Background(), &ListingReq{
		LocationID: "branch-1",
		Status:     domain.StatusCritical,
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != 1 {
		t.Errorf("filtered listing = %+v, want only product 1", items)
	}
}

func TestListingSkipsEntriesOutsideCatalog(t *testing.T) {
	uc, registry, _ := newInventoryEnv(t, testProduct(1))

	branch, _ := registry.Branch("branch-1")
	ts := time.Now()
	branch.Restore([]domain.StockEntry{
		entry(1, 10, ts, domain.SourceLocal),
		entry(99, 7, ts, domain.SourceLocal),
	})

	items, err := uc.Listing(context.Background(), &ListingReq{LocationID: "branch-1"})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != 1 {
		t.Errorf("listing = %+v, want only catalogued product 1", items)
	}
}

func TestListingServedFromCache(t *testing.T) {
	uc, registry, cacheRepo := newInventoryEnv(t, testProduct(1))

	branch, _ := registry.Branch("branch-1")
	branch.Restore([]domain.StockEntry{entry(1, 10, time.Now(), domain.SourceLocal)})

	cached := []InventoryItem{{ProductID: 42, Name: "cached", Quantity: 1, Status: domain.StatusNormal}}
	cacheRepo.data["branch-1"] = cached

	items, err := uc.Listing(context.Background(), &ListingReq{LocationID: "branch-1"})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != 42 {
		t.Errorf("expected cached listing, got %+v", items)
	}
}

func TestListingUnknownLocation(t *testing.T) {
	uc, _, _ := newInventoryEnv(t, testProduct(1))

	_, err := uc.Listing(context.Background(), &ListingReq{LocationID: "branch-404"})
	if !errors.Is(err, e.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}
