package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRequests(t *testing.T, svc *Service, userID uint) int {
	t.Helper()
	reqs, _, err := svc.ListOwn(context.Background(), userID)
	require.NoError(t, err)
	return len(reqs)
}

func TestCreateRequestWithoutCreditFails(t *testing.T) {
	svc, db := newTestService(t, defaultOptions())
	u := mustRegister(t, svc, "john", false)

	_, err := svc.CreateRequest(context.Background(), u.ID, RequestInput{ProductType: "PVC", Quantity: "100 Ton"})
	assert.ErrorIs(t, err, ErrInsufficientCredit)

	assert.Equal(t, 0, balanceOf(t, svc, u.ID))
	assert.Equal(t, 0, countRequests(t, svc, u.ID))
	assert.Equal(t, 0, ledgerSum(t, db, u.ID))
}

func TestCreateRequestSpendsOneCredit(t *testing.T) {
	svc, db := newTestService(t, defaultOptions())
	ctx := context.Background()
	admin := mustAdmin(t, svc)
	john := mustRegister(t, svc, "john", false)

	_, err := svc.CreateRequest(ctx, john.ID, RequestInput{ProductType: "PVC", Quantity: "100 Ton"})
	require.ErrorIs(t, err, ErrInsufficientCredit)

	_, _, err = svc.GrantCredits(ctx, admin.ID, john.ID, 1)
	require.NoError(t, err)

	deadline := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	req, err := svc.CreateRequest(ctx, john.ID, RequestInput{ProductType: "PVC", Quantity: "100 Ton", Deadline: &deadline})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, req.Status)
	assert.Equal(t, 0, balanceOf(t, svc, john.ID))
	assert.Equal(t, 1, countRequests(t, svc, john.ID))

	loaded, err := svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Author)
	assert.Equal(t, "john", loaded.Author.Username)
	require.NotNil(t, loaded.Deadline)
	assert.True(t, deadline.Equal(*loaded.Deadline))

	// grant +1 and request debit -1 are both ledgered
	assert.Equal(t, 0, ledgerSum(t, db, john.ID))
	txs, _, err := svc.ListTransactions(ctx, TxFilter{UserID: john.ID, Kind: domain.TxRequestDebit}, Page{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, -1, txs[0].Amount)
}

func TestCreateRequestLedgerPolicyOff(t *testing.T) {
	opts := defaultOptions()
	opts.LedgerRequestDebits = false
	svc, db := newTestService(t, opts)
	ctx := context.Background()
	u := mustRegister(t, svc, "john", false)
	_, _, err := svc.PurchaseCredits(ctx, u.ID, "10")
	require.NoError(t, err)

	_, err = svc.CreateRequest(ctx, u.ID, RequestInput{ProductType: "PVC", Quantity: "1 Ton"})
	require.NoError(t, err)

	assert.Equal(t, 9, balanceOf(t, svc, u.ID))
	assert.Equal(t, 10, ledgerSum(t, db, u.ID))
}

func TestCreateRequestUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t, defaultOptions())
	ctx := context.Background()
	u := mustRegister(t, svc, "john", false)
	_, _, err := svc.PurchaseCredits(ctx, u.ID, "10")
	require.NoError(t, err)
	polymers, err := svc.AddCategory(ctx, CategoryInput{Name: "Polymers"})
	require.NoError(t, err)
	_, err = svc.AddCategory(ctx, CategoryInput{Name: "PVC", ParentID: &polymers.ID})
	require.NoError(t, err)

	_, err = svc.CreateRequest(ctx, u.ID, RequestInput{Category: "Metals", ProductType: "Steel"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
	// only top-level categories classify requests
	_, err = svc.CreateRequest(ctx, u.ID, RequestInput{Category: "PVC", ProductType: "PVC"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, 10, balanceOf(t, svc, u.ID))

	req, err := svc.CreateRequest(ctx, u.ID, RequestInput{Category: "Polymers", SubCategory: "PVC", ProductType: "PVC"})
	require.NoError(t, err)
	assert.Equal(t, "Polymers", req.Category)
}

func TestCreateRequestNeverOverspends(t *testing.T) {
	svc, _ := newTestService(t, defaultOptions())
	ctx := context.Background()
	admin := mustAdmin(t, svc)
	u := mustRegister(t, svc, "john", false)
	_, _, err := svc.GrantCredits(ctx, admin.ID, u.ID, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateRequest(ctx, u.ID, RequestInput{ProductType: "PVC"})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientCredit)
		}
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, 0, balanceOf(t, svc, u.ID))
	assert.Equal(t, 2, countRequests(t, svc, u.ID))
}

func TestSubmitBid(t *testing.T) {
	svc, db := newTestService(t, defaultOptions())
	ctx := context.Background()
	buyer := mustRegister(t, svc, "buyer", false)
	seller := mustRegister(t, svc, "seller", true)
	_, _, err := svc.PurchaseCredits(ctx, buyer.ID, "10")
	require.NoError(t, err)
	req, err := svc.CreateRequest(ctx, buyer.ID, RequestInput{ProductType: "PVC", Quantity: "100 Ton"})
	require.NoError(t, err)

	price, err := domain.ParsePrice("1100 USD / Ton")
	require.NoError(t, err)

	_, err = svc.SubmitBid(ctx, buyer.ID, req.ID, BidInput{Price: price})
	assert.ErrorIs(t, err, ErrNotASeller)
	var n int64
	require.NoError(t, db.Model(&domain.Bid{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err = svc.SubmitBid(ctx, seller.ID, 9999, BidInput{Price: price})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SubmitBid(ctx, seller.ID, req.ID, BidInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	// no dedup: the same seller may bid twice
	first, err := svc.SubmitBid(ctx, seller.ID, req.ID, BidInput{Price: price, Details: "FOB"})
	require.NoError(t, err)
	second, err := svc.SubmitBid(ctx, seller.ID, req.ID, BidInput{Price: price, Details: "CIF"})
	require.NoError(t, err)

	loaded, err := svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Bids, 2)
	assert.Equal(t, second.ID, loaded.Bids[0].ID)
	assert.Equal(t, first.ID, loaded.Bids[1].ID)
	assert.Equal(t, "1100 USD / Ton", loaded.Bids[0].Price.String())
	require.NotNil(t, loaded.Bids[0].Seller)
	assert.Equal(t, "seller", loaded.Bids[0].Seller.Username)
}

func TestMarketplaceAndOwnListings(t *testing.T) {
	svc, _ := newTestService(t, defaultOptions())
	ctx := context.Background()
	alice := mustRegister(t, svc, "alice", true)
	bob := mustRegister(t, svc, "bob", true)
	for _, u := range []*domain.User{alice, bob} {
		_, _, err := svc.PurchaseCredits(ctx, u.ID, "10")
		require.NoError(t, err)
	}

	a1, err := svc.CreateRequest(ctx, alice.ID, RequestInput{ProductType: "PVC"})
	require.NoError(t, err)
	b1, err := svc.CreateRequest(ctx, bob.ID, RequestInput{ProductType: "PET"})
	require.NoError(t, err)
	b2, err := svc.CreateRequest(ctx, bob.ID, RequestInput{ProductType: "HDPE"})
	require.NoError(t, err)

	market, err := svc.ListMarketplace(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, market, 2)
	assert.Equal(t, b2.ID, market[0].ID)
	assert.Equal(t, b1.ID, market[1].ID)

	price, err := domain.ParsePrice("900 EUR")
	require.NoError(t, err)
	bid, err := svc.SubmitBid(ctx, alice.ID, b1.ID, BidInput{Price: price})
	require.NoError(t, err)

	reqs, bids, err := svc.ListOwn(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, a1.ID, reqs[0].ID)
	require.Len(t, bids, 1)
	assert.Equal(t, bid.ID, bids[0].ID)
	require.NotNil(t, bids[0].Request)
	assert.Equal(t, "PET", bids[0].Request.ProductType)

	all, err := svc.ListAllRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteRequestRemovesBids(t *testing.T) {
	svc, db := newTestService(t, defaultOptions())
	ctx := context.Background()
	admin := mustAdmin(t, svc)
	buyer := mustRegister(t, svc, "buyer", false)
	_, _, err := svc.PurchaseCredits(ctx, buyer.ID, "10")
	require.NoError(t, err)
	req, err := svc.CreateRequest(ctx, buyer.ID, RequestInput{ProductType: "PVC"})
	require.NoError(t, err)
	price, _ := domain.ParsePrice("10 USD")
	_, err = svc.SubmitBid(ctx, admin.ID, req.ID, BidInput{Price: price})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteRequest(ctx, buyer.ID, req.ID), ErrNotAdmin)
	require.NoError(t, svc.DeleteRequest(ctx, admin.ID, req.ID))
	assert.ErrorIs(t, svc.DeleteRequest(ctx, admin.ID, req.ID), ErrNotFound)

	_, err = svc.GetRequest(ctx, req.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	var n int64
	require.NoError(t, db.Model(&domain.Bid{}).Count(&n).Error)
	assert.Zero(t, n)
}
