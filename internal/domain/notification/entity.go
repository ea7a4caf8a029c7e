package notification

import (
	"time"
)

// Type classifies a notification. Unknown values are coerced to TypeGeneral
// at creation time rather than rejected.
type Type string

const (
	TypeGeneral         Type = "general"
	TypeAnnouncement    Type = "announcement"
	TypeLeaveRequest    Type = "leave_request"
	TypePurchaseRequest Type = "purchase_request"
	TypeChatMessage     Type = "chat_message"
	TypeLateArrival     Type = "late_arrival"
	TypeAbsence         Type = "absence"
	TypeCheckout        Type = "checkout"
)

// AllTypes returns the notification type allow-list.
func AllTypes() []Type {
	return []Type{
		TypeGeneral,
		TypeAnnouncement,
		TypeLeaveRequest,
		TypePurchaseRequest,
		TypeChatMessage,
		TypeLateArrival,
		TypeAbsence,
		TypeCheckout,
	}
}

// IsValid reports whether t is on the allow-list.
func (t Type) IsValid() bool {
	for _, valid := range AllTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// ExpiryWindow is how long a notification stays visible before the cleanup
// job may delete it.
const ExpiryWindow = 30 * 24 * time.Hour

// Notification represents a notification entity
type Notification struct {
	ID        string
	UserID    string
	Type      Type
	Title     string
	Message   string
	RelatedID *string
	ActionURL *string
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
	ExpiresAt time.Time
}
