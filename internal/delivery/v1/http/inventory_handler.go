package http

import (
	"net/http"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	inventoryUC usecase.InventoryUC
	logger      logger.Logger
}

func NewInventoryHandler(inventoryUC usecase.InventoryUC, logger logger.Logger) *InventoryHandler {
	return &InventoryHandler{inventoryUC: inventoryUC, logger: logger}
}

// listing
//
//	@Summary		Инвентарный листинг локации
//	@Description	Остатки локации, аннотированные статусом; фильтр по статусу опционален
//	@Tags			inventory
//	@Produce		json
//	@Param			locationID	path		string	true	"ID локации"
//	@Param			status		query		string	false	"Фильтр по статусу: critical, low, normal"
//	@Success		200			{array}		InventoryItemRes
//	@Failure		404			{object}	ErrorResponse	"Локация не найдена"
//	@Router			/locations/{locationID}/inventory [get]
func (i *InventoryHandler) listing(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")

	status := domain.StockStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.StatusCritical, domain.StatusLow, domain.StatusNormal:
	default:
		WriteError(w, e.Wrap("status", e.ErrStatusBadRequest))
		return
	}

	items, err := i.inventoryUC.Listing(r.Context(), &usecase.ListingReq{
		LocationID: locationID,
		Status:     status,
	})
	if err != nil {
		i.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toInventoryRes(items))
}
