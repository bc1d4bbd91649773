package http

import (
	"context"
	"net/http"

	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
)

// ReportExporter выгружает срез инвентаря в объектное хранилище.
type ReportExporter interface {
	Export(ctx context.Context) (string, error)
}

type ReportHandler struct {
	exporter ReportExporter
	logger   logger.Logger
}

func NewReportHandler(exporter ReportExporter, logger logger.Logger) *ReportHandler {
	return &ReportHandler{exporter: exporter, logger: logger}
}

// export
//
//	@Summary	Выгрузка CSV-среза инвентаря всех локаций
//	@Tags		reports
//	@Produce	json
//	@Success	201	{object}	map[string]string
//	@Router		/reports/export [post]
func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request) {
	key, err := h.exporter.Export(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]string{"report_key": key})
}
