package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Deadline parsing

	"marketplace/internal/domain"     // Domain models
	"marketplace/internal/middleware" // Request scoped logging
	"marketplace/internal/service"    // Domain operations

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Bid amounts
)

// CreateRequestRequest is the sourcing request form
type CreateRequestRequest struct {
	Category      string `json:"category" binding:"max=100"`
	SubCategory   string `json:"sub_category" binding:"max=100"`
	ProductType   string `json:"product_type" binding:"required,max=100"`
	Spec          string `json:"spec" binding:"max=100"`
	Origin        string `json:"origin" binding:"max=100"`
	Application   string `json:"application" binding:"max=100"`
	Quantity      string `json:"quantity" binding:"max=50"`
	ProductStatus string `json:"product_status" binding:"max=50"`
	CustomsStatus string `json:"customs_status" binding:"max=50"`
	Packaging     string `json:"packaging" binding:"max=50"`
	Deadline      string `json:"deadline" binding:"omitempty,datetime=2006-01-02"` // Date only
	Details       string `json:"details"`
}

// SubmitBidRequest accepts either a composed price ("1100 USD / Ton") or its parts
type SubmitBidRequest struct {
	Price    string          `json:"price"`    // Composed form, wins when set
	Amount   decimal.Decimal `json:"amount"`   // Structured form
	Currency string          `json:"currency"` // e.g. USD
	Unit     string          `json:"unit"`     // e.g. Ton
	Details  string          `json:"details"`  // Free text
}

func (r SubmitBidRequest) price() (domain.Price, error) {
	if strings.TrimSpace(r.Price) != "" {
		return domain.ParsePrice(r.Price)
	}
	p := domain.Price{
		Amount:   r.Amount,
		Currency: strings.ToUpper(strings.TrimSpace(r.Currency)),
		Unit:     strings.TrimSpace(r.Unit),
	}
	return p, p.Validate()
}

// RequestResponse is a request as listed to users
type RequestResponse struct {
	domain.Request
	Author string        `json:"author"`         // Username of the buyer
	Bids   []BidResponse `json:"bids,omitempty"` // Only on the detail view
}

// BidResponse is a bid with its seller's username
type BidResponse struct {
	domain.Bid
	Seller string `json:"seller"` // Username of the seller
}

func toRequestResponse(r domain.Request) RequestResponse {
	resp := RequestResponse{Request: r}
	if r.Author != nil {
		resp.Author = r.Author.Username
	}
	for _, b := range r.Bids {
		resp.Bids = append(resp.Bids, toBidResponse(b))
	}
	resp.Request.Bids = nil // Replaced by the annotated list
	return resp
}

func toBidResponse(b domain.Bid) BidResponse {
	resp := BidResponse{Bid: b}
	if b.Seller != nil {
		resp.Seller = b.Seller.Username
	}
	return resp
}

func toRequestResponses(reqs []domain.Request) []RequestResponse {
	out := make([]RequestResponse, len(reqs))
	for i, r := range reqs {
		out[i] = toRequestResponse(r)
	}
	return out
}

// CreateRequestHandler spends one credit and posts a sourcing request
func CreateRequestHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req CreateRequestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		in := service.RequestInput{
			Category:      strings.TrimSpace(req.Category),
			SubCategory:   req.SubCategory,
			ProductType:   req.ProductType,
			Spec:          req.Spec,
			Origin:        req.Origin,
			Application:   req.Application,
			Quantity:      req.Quantity,
			ProductStatus: req.ProductStatus,
			CustomsStatus: req.CustomsStatus,
			Packaging:     req.Packaging,
			Details:       req.Details,
		}
		if req.Deadline != "" {
			deadline, err := time.Parse(time.DateOnly, req.Deadline) // Already validated by binding
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline"})
				return
			}
			in.Deadline = &deadline
		}
		created, err := svc.CreateRequest(c.Request.Context(), userID, in)
		if err != nil {
			if statusFor(err) == http.StatusPaymentRequired {
				middleware.Logger(c).WithField("user_id", userID).Info("Request refused, no credit left")
			}
			respondError(c, err, "Failed to create request") // 402 when out of credits
			return
		}
		invalidate(c, rdb, userTxKey(userID), keyAdminTxs, keyAdminUsers, keyAdminStats)
		c.JSON(http.StatusCreated, gin.H{"message": "Request created", "request": created})
	}
}

// MarketplaceHandler lists everyone else's requests, newest first
func MarketplaceHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		reqs, err := svc.ListMarketplace(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "Failed to load marketplace")
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": toRequestResponses(reqs)})
	}
}

// GetRequestHandler returns one request with its bids
func GetRequestHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		req, err := svc.GetRequest(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "Failed to load request")
			return
		}
		c.JSON(http.StatusOK, gin.H{"request": toRequestResponse(*req)})
	}
}

// SubmitBidHandler records a seller's offer on a request
func SubmitBidHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		requestID, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req SubmitBidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		price, err := req.price()
		if err != nil {
			respondError(c, err, "Invalid price")
			return
		}
		bid, err := svc.SubmitBid(c.Request.Context(), userID, requestID, service.BidInput{Price: price, Details: req.Details})
		if err != nil {
			respondError(c, err, "Failed to submit bid") // 403 for non-sellers
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Bid submitted", "bid": bid})
	}
}

// DashboardHandler returns the caller's own requests and bids
func DashboardHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		user, err := svc.GetUser(ctx, userID)
		if err != nil {
			respondError(c, err, "Failed to load user")
			return
		}
		reqs, bids, err := svc.ListOwn(ctx, userID)
		if err != nil {
			respondError(c, err, "Failed to load dashboard")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":     user,                     // Profile and balance
			"requests": toRequestResponses(reqs), // Authored requests, newest first
			"bids":     bids,                     // Submitted bids with their request, newest first
		})
	}
}
