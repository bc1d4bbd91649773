package http

import (
	"net/http"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type SalesHandler struct {
	salesUC usecase.SalesUC
	logger  logger.Logger
}

func NewSalesHandler(salesUC usecase.SalesUC, logger logger.Logger) *SalesHandler {
	return &SalesHandler{salesUC: salesUC, logger: logger}
}

// recordSale
//
//	@Summary		Проведение продажи
//	@Description	Списывает остаток в локации; при нехватке возвращает 409 без изменений
//	@Tags			sales
//	@Accept			json
//	@Produce		json
//	@Param			locationID	path		string	true	"ID локации"
//	@Param			request		body		SaleReq	true	"Продажа"
//	@Success		201			{object}	SaleRes
//	@Failure		409			{object}	ErrorResponse	"Недостаточный остаток"
//	@Router			/locations/{locationID}/sales [post]
func (s *SalesHandler) recordSale(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")

	var req SaleReq
	if err := decodeJSON(r, &req); err != nil {
		s.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := s.salesUC.RecordSale(r.Context(),
		usecase.NewRecordSaleReq(locationID, req.ProductID, req.Quantity, time.Now()))
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, &SaleRes{
		SaleID:    res.Sale.ID,
		ProductID: res.Sale.ProductID,
		Quantity:  res.Sale.Quantity,
		UnitPrice: formatCents(res.Sale.UnitPrice),
		Total:     formatCents(res.Sale.Total),
		Remaining: res.Entry.Quantity,
		Status:    string(res.Status),
		Timestamp: res.Sale.Timestamp,
	})
}

// salesStats
//
//	@Summary	Агрегаты по истории продаж локации
//	@Tags		sales
//	@Produce	json
//	@Param		locationID	path		string	true	"ID локации"
//	@Success	200			{object}	StatsRes
//	@Router		/locations/{locationID}/sales/stats [get]
func (s *SalesHandler) salesStats(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")

	stats, err := s.salesUC.Stats(r.Context(), locationID)
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &StatsRes{
		TotalSales:   stats.TotalSales,
		TotalRevenue: formatCents(stats.TotalRevenue),
		AverageSale:  formatCents(stats.AverageSale),
	})
}
