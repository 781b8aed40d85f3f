package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CreditPackage is one of the fixed bundles a user can buy.
type CreditPackage struct {
	Code    string          `json:"code"`
	Credits int             `json:"credits"`
	Price   decimal.Decimal `json:"price"`
}

// Label renders the package the way the purchase form shows it.
func (p CreditPackage) Label() string {
	return p.Code + " Credits ($" + p.Price.String() + ")"
}

var creditPackages = map[string]CreditPackage{
	"10": {Code: "10", Credits: 10, Price: decimal.NewFromInt(100)},
	"20": {Code: "20", Credits: 20, Price: decimal.NewFromInt(170)},
	"50": {Code: "50", Credits: 50, Price: decimal.NewFromInt(350)},
}

// LookupPackage returns the package for code.
func LookupPackage(code string) (CreditPackage, bool) {
	p, ok := creditPackages[code]
	return p, ok
}

// CreditPackages lists all packages ordered by size.
func CreditPackages() []CreditPackage {
	out := make([]CreditPackage, 0, len(creditPackages))
	for _, p := range creditPackages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Credits < out[j].Credits })
	return out
}
