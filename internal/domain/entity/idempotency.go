package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey caches the outcome of a completion request so a cashier
// retrying after a timeout gets the original receipt back instead of
// ringing the sale twice.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"uniqueIndex;size:255;not null"` // client-chosen key, one per attempt
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`      // cashier who submitted the request
	Endpoint     string    `gorm:"size:255;not null"`             // e.g. "POST /checkout/complete"
	RequestHash  string    `gorm:"size:64"`                       // SHA256 of the request body
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"` // cached JSON response replayed on retry
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired reports whether the cached response is past its retention
// window and the key may be reused.
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
