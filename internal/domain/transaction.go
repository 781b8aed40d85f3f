package domain

import "time"

// Ledger entry kinds
const (
	TxPurchase        = "purchase"         // Credit package bought by the user
	TxAdminAdjustment = "admin_adjustment" // Manual grant by an admin
	TxRequestDebit    = "request_debit"    // One credit spent on a request
)

// CreditTransaction Model, an immutable ledger row explaining one balance change
type CreditTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`            // Primary key
	UserID      uint      `gorm:"not null;index" json:"user_id"`   // Owner of the balance
	AdminID     *uint     `gorm:"index" json:"admin_id,omitempty"` // Granting admin, if any
	Amount      int       `gorm:"not null" json:"amount"`          // Signed delta
	Kind        string    `gorm:"size:32;not null" json:"kind"`    // purchase, admin_adjustment, request_debit
	Description string    `gorm:"size:200" json:"description"`     // Human readable reason
	CreatedAt   time.Time `gorm:"index" json:"created_at"`         // Timestamp of creation
}
