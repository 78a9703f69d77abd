package models

import "time"

const (
	PaymentStatusPending  = "pending"
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
	PaymentStatusExpired  = "expired"

	PaymentMethodUPI  = "upi"
	PaymentMethodCard = "card"
)

// PaymentIntent is a booking fee waiting for the gateway to report back.
type PaymentIntent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Reference string    `json:"reference" gorm:"uniqueIndex;size:16;not null"`
	Amount    int       `json:"amount" gorm:"not null"`
	ListingID string    `json:"listingId,omitempty" gorm:"size:64"`
	Method    string    `json:"method" gorm:"size:8;not null"`
	Status    string    `json:"status" gorm:"index;size:16;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsFinal reports whether the intent can no longer change status.
func (p *PaymentIntent) IsFinal() bool {
	return p.Status != PaymentStatusPending
}

// WebhookEvent is a gateway callback as received by the webhook endpoint.
// AppliedAt stays nil when the intent was already final.
type WebhookEvent struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Reference   string     `json:"reference" gorm:"index;size:16;not null"`
	Status      string     `json:"status" gorm:"size:16;not null"`
	ForwardedAt time.Time  `json:"forwardedAt"`
	AppliedAt   *time.Time `json:"appliedAt,omitempty"`
}
