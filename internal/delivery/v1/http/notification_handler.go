package http

import (
	"net/http"
	"strconv"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
)

type NotificationHandler struct {
	notificationUC usecase.NotificationUC
	logger         logger.Logger
}

func NewNotificationHandler(notificationUC usecase.NotificationUC, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{notificationUC: notificationUC, logger: logger}
}

// list
//
//	@Summary	Лента уведомлений, новейшие первыми
//	@Tags		notifications
//	@Produce	json
//	@Param		severity	query	string	false	"Фильтр по серьёзности: info, warning, critical"
//	@Param		kind		query	string	false	"Фильтр по типу: sale, low_stock, sync"
//	@Param		location	query	string	false	"Фильтр по локации"
//	@Param		limit		query	int		false	"Максимум записей"
//	@Success	200			{array}	NotificationRes
//	@Router		/notifications [get]
func (n *NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))

	notifications := n.notificationUC.List(r.Context(), &usecase.NotificationFilter{
		Severity:   domain.Severity(query.Get("severity")),
		Kind:       domain.NotificationKind(query.Get("kind")),
		LocationID: query.Get("location"),
		Limit:      limit,
	})

	WriteSuccess(w, http.StatusOK, toNotificationRes(notifications))
}
