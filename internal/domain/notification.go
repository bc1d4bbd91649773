package domain

import "time"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type NotificationKind string

const (
	KindSale     NotificationKind = "sale"
	KindLowStock NotificationKind = "low_stock"
	KindSync     NotificationKind = "sync"
)

// Notification — неизменяемое событие ленты уведомлений.
type Notification struct {
	ID         string
	Timestamp  time.Time
	Severity   Severity
	Kind       NotificationKind
	LocationID string
	ProductID  int64 // 0, если уведомление не относится к конкретному товару
	Message    string
}

func NewNotification(id string, ts time.Time, severity Severity, kind NotificationKind,
	locationID string, productID int64, message string) *Notification {
	return &Notification{
		ID:         id,
		Timestamp:  ts,
		Severity:   severity,
		Kind:       kind,
		LocationID: locationID,
		ProductID:  productID,
		Message:    message,
	}
}

// SeverityForStatus переводит классификацию остатка в серьёзность уведомления.
func SeverityForStatus(status StockStatus) Severity {
	switch status {
	case StatusCritical:
		return SeverityCritical
	case StatusLow:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
