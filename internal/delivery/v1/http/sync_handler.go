package http

import (
	"net/http"
	"strconv"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type SyncHandler struct {
	syncUC usecase.SyncUC
	logger logger.Logger
}

func NewSyncHandler(syncUC usecase.SyncUC, logger logger.Logger) *SyncHandler {
	return &SyncHandler{syncUC: syncUC, logger: logger}
}

// reconcile
//
//	@Summary		Проход сверки филиала с центром
//	@Description	Детерминированно разрешает расхождения леджеров; повторный запуск без расхождений не производит изменений
//	@Tags			sync
//	@Produce		json
//	@Param			branchID	path		string	true	"ID филиала"
//	@Param			force		query		bool	false	"Принудительно обновить кэш и durable-копию"
//	@Success		200			{object}	SyncRecordRes
//	@Failure		404			{object}	ErrorResponse	"Филиал не найден"
//	@Router			/sync/{branchID} [post]
func (s *SyncHandler) reconcile(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "branchID")
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	record, err := s.syncUC.Reconcile(r.Context(), usecase.NewReconcileReq(branchID, force))
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSyncRecordRes(record))
}

// reconcileSnapshot
//
//	@Summary		Сверка внешне снятого снапшота филиала
//	@Description	Принимает снапшот остатков филиала и сверяет его с центром; дубликат товара в снапшоте отменяет весь проход
//	@Tags			sync
//	@Accept			json
//	@Produce		json
//	@Param			locationID	path		string		true	"ID филиала"
//	@Param			request		body		SnapshotReq	true	"Снапшот остатков"
//	@Success		200			{object}	SyncRecordRes
//	@Failure		400			{object}	ErrorResponse	"Дубликат товара в снапшоте"
//	@Router			/locations/{locationID}/snapshot [post]
func (s *SyncHandler) reconcileSnapshot(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "locationID")

	var req SnapshotReq
	if err := decodeJSON(r, &req); err != nil {
		s.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	snapshot := make([]domain.StockEntry, 0, len(req.Inventory))
	for _, entry := range req.Inventory {
		snapshot = append(snapshot, domain.StockEntry{
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			UpdatedAt: entry.UpdatedAt,
			Source:    domain.SourceLocal,
		})
	}

	record, err := s.syncUC.ReconcileSnapshot(r.Context(), usecase.NewReconcileSnapshotReq(branchID, snapshot))
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSyncRecordRes(record))
}

// history
//
//	@Summary	История проходов сверки филиала
//	@Tags		sync
//	@Produce	json
//	@Param		branchID	path	string	true	"ID филиала"
//	@Param		limit		query	int		false	"Максимум записей (по умолчанию 50)"
//	@Success	200			{array}	SyncRecordRes
//	@Router		/sync/{branchID}/records [get]
func (s *SyncHandler) history(w http.ResponseWriter, r *http.Request) {
	const defaultLimit = 50

	branchID := chi.URLParam(r, "branchID")

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	records, err := s.syncUC.History(r.Context(), branchID, limit)
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]*SyncRecordRes, 0, len(records))
	for _, record := range records {
		result = append(result, toSyncRecordRes(record))
	}

	WriteSuccess(w, http.StatusOK, result)
}
