package handler

import (
	"strconv"
	"time"

	"github.com/chatcart/backend/internal/domain/alias"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultAliasListLimit = 50

// AliasHandler exposes read access to alias memory for operators, useful
// when diagnosing why a resolution picked a surprising product.
type AliasHandler struct {
	BaseHandler
	customerAliases alias.CustomerAliasRepository
	globalAliases   alias.GlobalAliasRepository
}

// NewAliasHandler creates a new AliasHandler
func NewAliasHandler(customerAliases alias.CustomerAliasRepository, globalAliases alias.GlobalAliasRepository) *AliasHandler {
	return &AliasHandler{
		customerAliases: customerAliases,
		globalAliases:   globalAliases,
	}
}

// RegisterRoutes registers alias routes
func (h *AliasHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/aliases", h.List)
}

// AliasResponse is one alias record in API responses
type AliasResponse struct {
	Tier            string     `json:"tier"` // "customer" or "global"
	CustomerID      *uuid.UUID `json:"customer_id,omitempty"`
	Key             string     `json:"key"`
	ProductID       uuid.UUID  `json:"product_id"`
	OccurrenceCount int        `json:"occurrence_count"`
	Confidence      *float64   `json:"confidence,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// List returns both alias tiers for the org, highest occurrence first
func (h *AliasHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid org ID")
		return
	}

	limit := defaultAliasListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()
	customer, err := h.customerAliases.FindByOrg(ctx, orgID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	global, err := h.globalAliases.FindByOrg(ctx, orgID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]AliasResponse, 0, len(customer)+len(global))
	for i := range customer {
		a := &customer[i]
		customerID := a.CustomerID
		out = append(out, AliasResponse{
			Tier:            "customer",
			CustomerID:      &customerID,
			Key:             a.Key,
			ProductID:       a.ProductID,
			OccurrenceCount: a.OccurrenceCount,
			UpdatedAt:       a.UpdatedAt,
		})
	}
	for i := range global {
		a := &global[i]
		confidence := a.Confidence
		out = append(out, AliasResponse{
			Tier:            "global",
			Key:             a.Key,
			ProductID:       a.ProductID,
			OccurrenceCount: a.OccurrenceCount,
			Confidence:      &confidence,
			UpdatedAt:       a.UpdatedAt,
		})
	}

	h.Success(c, out)
}
