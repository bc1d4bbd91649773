package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

const exportInterval = 24 * time.Hour

// Exporter периодически выгружает CSV-срез инвентаря всех локаций в объектное
// хранилище. Выгрузка также доступна по запросу через Export.
type Exporter struct {
	registry    *domain.Registry
	productRepo usecase.ProductRepository
	reportRepo  usecase.ReportRepository
	logger      logger.Logger
	stop        chan struct{}
	wg          sync.WaitGroup
}

func NewExporter(
	registry *domain.Registry,
	productRepo usecase.ProductRepository,
	reportRepo usecase.ReportRepository,
	logger logger.Logger,
) *Exporter {
	return &Exporter{
		registry:    registry,
		productRepo: productRepo,
		reportRepo:  reportRepo,
		logger:      logger,
		stop:        make(chan struct{}),
	}
}

func (ex *Exporter) Start(ctx context.Context) {
	ex.wg.Add(1)
	go func() {
		defer ex.wg.Done()
		ex.run(ctx)
	}()
}

func (ex *Exporter) Stop() {
	close(ex.stop)
	ex.wg.Wait()
}

func (ex *Exporter) run(ctx context.Context) {
	ticker := time.NewTicker(exportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ex.stop:
			return
		case <-ticker.C:
			key, err := ex.Export(ctx)
			if err != nil {
				ex.logger.Warnf("scheduled inventory export failed: %v", err)
				continue
			}

			ex.logger.Infof("inventory report exported: %s", key)
		}
	}
}

// Export собирает CSV-срез остатков всех локаций и загружает его в хранилище.
// Возвращает ключ загруженного объекта.
func (ex *Exporter) Export(ctx context.Context) (string, error) {
	const op = "Exporter.Export"

	catalog, err := ex.productRepo.Catalog(ctx)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"location_id", "product_id", "name", "category", "quantity", "status", "updated_at"}
	if err := writer.Write(header); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	locations := append(ex.registry.BranchIDs(), ex.registry.Central().LocationID())
	for _, locationID := range locations {
		ledger, err := ex.registry.Ledger(locationID)
		if err != nil {
			return "", e.Wrap(op, err)
		}

		for _, entry := range ledger.Snapshot() {
			product, ok := catalog[entry.ProductID]
			if !ok {
				continue
			}

			record := []string{
				locationID,
				strconv.FormatInt(entry.ProductID, 10),
				product.Name,
				product.Category,
				strconv.FormatInt(entry.Quantity, 10),
				string(domain.ClassifyEntry(entry, product)),
				entry.UpdatedAt.UTC().Format(time.RFC3339),
			}
			if err := writer.Write(record); err != nil {
				return "", e.Wrap(whereami.WhereAmI(), err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	key := fmt.Sprintf("reports/inventory-%s.csv", time.Now().UTC().Format("20060102-150405"))

	uploaded, err := ex.reportRepo.Upload(ctx, key, buf.Bytes())
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return uploaded, nil
}
