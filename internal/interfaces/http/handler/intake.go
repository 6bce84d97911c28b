package handler

import (
	intakeapp "github.com/chatcart/backend/internal/application/intake"
	"github.com/chatcart/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// IntakeHandler accepts parsed chat orders from the upstream message parser
type IntakeHandler struct {
	BaseHandler
	service *intakeapp.Service
}

// NewIntakeHandler creates a new IntakeHandler
func NewIntakeHandler(service *intakeapp.Service) *IntakeHandler {
	return &IntakeHandler{service: service}
}

// RegisterRoutes registers intake routes
func (h *IntakeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/intake", h.Intake)
}

// IntakeLineRequest is one parsed line item
type IntakeLineRequest struct {
	RawName   string          `json:"raw_name" binding:"required,min=1,max=200"`
	Canonical string          `json:"canonical" binding:"required,min=1,max=200"`
	Brand     string          `json:"brand" binding:"max=100"`
	Variant   string          `json:"variant" binding:"max=100"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit" binding:"max=20"`
}

// IntakeRequest is one parsed order message
type IntakeRequest struct {
	MessageID   string              `json:"message_id" binding:"required,min=1,max=200"`
	Channel     string              `json:"channel" binding:"max=50"`
	Recipient   string              `json:"recipient" binding:"max=200"`
	ParseReason string              `json:"parse_reason" binding:"max=200"`
	Lines       []IntakeLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Intake processes one parsed order message
func (h *IntakeHandler) Intake(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid org ID")
		return
	}
	customerID, err := getCustomerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+middleware.ValidationMessage(err))
		return
	}

	lines := make([]intakeapp.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = intakeapp.LineInput{
			RawName:   l.RawName,
			Canonical: l.Canonical,
			Brand:     l.Brand,
			Variant:   l.Variant,
			Quantity:  l.Quantity,
			Unit:      l.Unit,
		}
	}

	result, err := h.service.Process(c.Request.Context(), intakeapp.Input{
		OrgID:       orgID,
		CustomerID:  customerID,
		MessageID:   req.MessageID,
		Channel:     req.Channel,
		Recipient:   req.Recipient,
		ParseReason: req.ParseReason,
		Lines:       lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
