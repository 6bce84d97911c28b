package handler

import (
	"time"

	"github.com/chatcart/backend/internal/domain/ordering"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderHandler exposes read access to orders for operators and the
// upstream bot, mainly to inspect clarification progress.
type OrderHandler struct {
	BaseHandler
	orders ordering.OrderRepository
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders ordering.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders/:id", h.Get)
}

// OrderLineResponse is one order line in API responses
type OrderLineResponse struct {
	RawName   string          `json:"raw_name"`
	Canonical string          `json:"canonical"`
	Brand     string          `json:"brand,omitempty"`
	Variant   string          `json:"variant,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit,omitempty"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Status    string          `json:"status"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	CustomerID  *uuid.UUID          `json:"customer_id,omitempty"`
	ParseReason string              `json:"parse_reason,omitempty"`
	Lines       []OrderLineResponse `json:"lines"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Get returns one order with its clarification state
func (h *OrderHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid org ID")
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.FindByIDForOrg(c.Request.Context(), orgID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}

func toOrderResponse(order *ordering.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i, l := range order.Lines {
		lines[i] = OrderLineResponse{
			RawName:   l.RawName,
			Canonical: l.Canonical,
			Brand:     l.Brand,
			Variant:   l.Variant,
			Quantity:  l.Quantity,
			Unit:      l.Unit,
			ProductID: l.ProductID,
			Status:    string(l.Status),
		}
	}
	return OrderResponse{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		ParseReason: order.ParseReason,
		Lines:       lines,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}
