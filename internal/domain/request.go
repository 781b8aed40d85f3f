package domain

import "time"

// RequestStatus is the lifecycle state of a sourcing request.
type RequestStatus string

const (
	StatusOpen      RequestStatus = "Open"
	StatusFulfilled RequestStatus = "Fulfilled"
	StatusCancelled RequestStatus = "Cancelled"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	StatusOpen: {StatusFulfilled, StatusCancelled},
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a request in state s may move to next.
// Fulfilled and Cancelled are terminal.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Request Model, a buyer's sourcing need
type Request struct {
	ID            uint          `gorm:"primaryKey" json:"id"`                          // Primary key
	UserID        uint          `gorm:"not null;index" json:"user_id"`                 // Author (buyer)
	Author        *User         `gorm:"foreignKey:UserID" json:"-"`                    // Loaded on demand
	Category      string        `gorm:"size:100" json:"category"`                      // Top-level category name
	SubCategory   string        `gorm:"size:100" json:"sub_category"`                  // Free text
	ProductType   string        `gorm:"size:100" json:"product_type"`                  // Product type
	Spec          string        `gorm:"size:100" json:"spec"`                          // Specific feature
	Origin        string        `gorm:"size:100" json:"origin"`                        // Country of origin
	Application   string        `gorm:"size:100" json:"application"`                   // Application area
	Quantity      string        `gorm:"size:50" json:"quantity"`                       // e.g. "100 Ton"
	ProductStatus string        `gorm:"size:50" json:"product_status"`                 // Product status
	CustomsStatus string        `gorm:"size:50" json:"customs_status"`                 // Customs status
	Packaging     string        `gorm:"size:50" json:"packaging"`                      // Packaging type
	Deadline      *time.Time    `json:"deadline,omitempty"`                            // Optional deadline
	Status        RequestStatus `gorm:"size:20;not null;default:'Open'" json:"status"` // Lifecycle state
	Details       string        `gorm:"type:text" json:"details"`                      // Free text
	Bids          []Bid         `gorm:"foreignKey:RequestID" json:"bids,omitempty"`    // Offers received
	CreatedAt     time.Time     `gorm:"index" json:"created_at"`                       // Timestamp of creation
}
