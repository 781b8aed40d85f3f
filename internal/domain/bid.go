package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned when a price cannot be parsed, is not positive,
// or has more decimal places than the amount column stores.
var ErrInvalidPrice = errors.New("invalid price")

// PriceScale is the number of decimal places stored for an amount.
const PriceScale = 4

// Price is a bid amount annotated with currency and unit, e.g. 1100 USD / Ton.
type Price struct {
	Amount   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency string          `gorm:"size:10" json:"currency,omitempty"`
	Unit     string          `gorm:"size:30" json:"unit,omitempty"`
}

// ParsePrice reads "<amount> [currency] [/ unit]". Thousands separators are ignored.
func ParsePrice(s string) (Price, error) {
	var p Price
	head, unit, hasUnit := strings.Cut(s, "/")
	fields := strings.Fields(head)
	if len(fields) == 0 || len(fields) > 2 {
		return p, ErrInvalidPrice
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(fields[0], ",", ""))
	if err != nil {
		return p, ErrInvalidPrice
	}
	p.Amount = amount
	if err := p.Validate(); err != nil {
		return Price{}, err
	}
	if len(fields) == 2 {
		p.Currency = strings.ToUpper(fields[1])
	}
	if hasUnit {
		p.Unit = strings.TrimSpace(unit)
		if p.Unit == "" {
			return Price{}, ErrInvalidPrice
		}
	}
	return p, nil
}

// Validate checks the amount is positive and fits the stored scale without rounding.
func (p Price) Validate() error {
	if !p.Amount.IsPositive() || !p.Amount.Equal(p.Amount.Round(PriceScale)) {
		return ErrInvalidPrice
	}
	return nil
}

// String composes the price for display.
func (p Price) String() string {
	var b strings.Builder
	b.WriteString(p.Amount.String())
	if p.Currency != "" {
		b.WriteString(" " + p.Currency)
	}
	if p.Unit != "" {
		b.WriteString(" / " + p.Unit)
	}
	return b.String()
}

// MarshalJSON adds the composed display string next to the structured fields.
func (p Price) MarshalJSON() ([]byte, error) {
	type plain Price
	return json.Marshal(struct {
		plain
		Display string `json:"display"`
	}{plain(p), p.String()})
}

// Bid Model, a seller's offer against a request
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                          // Primary key
	RequestID uint      `gorm:"not null;index" json:"request_id"`              // Request being bid on
	Request   *Request  `gorm:"foreignKey:RequestID" json:"request,omitempty"` // Loaded on demand
	SellerID  uint      `gorm:"not null;index" json:"seller_id"`               // Bidding seller
	Seller    *User     `gorm:"foreignKey:SellerID" json:"-"`                  // Loaded on demand
	Price     Price     `gorm:"embedded;embeddedPrefix:price_" json:"price"`   // Structured price
	Details   string    `gorm:"type:text" json:"details"`                      // Free text
	CreatedAt time.Time `gorm:"index" json:"created_at"`                       // Timestamp of creation
}
