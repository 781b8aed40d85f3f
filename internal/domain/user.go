package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                         // Primary key
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"` // Unique username
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`   // Unique email
	PasswordHash string    `gorm:"size:128;not null" json:"-"`                   // Hashed password
	Credits      int       `gorm:"not null;default:0" json:"credits"`            // Credit balance
	IsSeller     bool      `gorm:"not null;default:false" json:"is_seller"`      // May submit bids
	IsBuyer      bool      `gorm:"not null;default:true" json:"is_buyer"`        // Everyone buys by default
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`       // May use the admin routes
	IsBlocked    bool      `gorm:"not null;default:false" json:"is_blocked"`     // Blocked by an admin
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`    // Verified by an admin
	TaxID        string    `gorm:"size:20" json:"tax_id,omitempty"`              // Optional tax identifier
	Requests     []Request `gorm:"foreignKey:UserID" json:"-"`                   // Requests authored as buyer
	Bids         []Bid     `gorm:"foreignKey:SellerID" json:"-"`                 // Bids submitted as seller
	CreatedAt    time.Time `json:"created_at"`                                   // Registration time
	UpdatedAt    time.Time `json:"updated_at"`                                   // Last change
}
