package handler

import (
	"errors"
	"net/http"

	clarifyapp "github.com/chatcart/backend/internal/application/clarify"
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/chatcart/backend/internal/interfaces/http/dto"
	"github.com/chatcart/backend/internal/interfaces/http/render"
	"github.com/gin-gonic/gin"
)

// ClarifyHandler serves the public clarification pages. These routes live
// at the root, not under /api: the URL is typed into chat messages and
// every extra path segment costs screen space.
type ClarifyHandler struct {
	BaseHandler
	service *clarifyapp.Service
}

// NewClarifyHandler creates a new ClarifyHandler
func NewClarifyHandler(service *clarifyapp.Service) *ClarifyHandler {
	return &ClarifyHandler{service: service}
}

// RegisterRoutes registers the clarification page routes
func (h *ClarifyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/c/:token", h.Page)
	rg.POST("/c", h.Submit)
}

// SubmitRequest is a clarification answer, posted by the HTML form or as JSON
type SubmitRequest struct {
	Token        string `form:"token" json:"token" binding:"required"`
	Choice       *int   `form:"choice" json:"choice" binding:"required"`
	OtherBrand   string `form:"other_brand" json:"other_brand"`
	OtherVariant string `form:"other_variant" json:"other_variant"`
}

// Page renders the clarification form for a token
func (h *ClarifyHandler) Page(c *gin.Context) {
	view, err := h.service.Page(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.invalidLink(c)
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := render.ClarifyPage(c.Writer, render.ClarifyPageData{
		Token:         c.Param("token"),
		Options:       view.Options,
		Ask:           view.Ask,
		AllowFreeform: view.AllowFreeform,
	}); err != nil {
		h.InternalError(c, "Failed to render page")
	}
}

// Submit applies a clarification answer
func (h *ClarifyHandler) Submit(c *gin.Context) {
	wantsJSON := c.ContentType() == "application/json"

	var req SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		if wantsJSON {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid submission")
			return
		}
		h.errorPage(c, http.StatusBadRequest, "The submission was incomplete. Pick an option or fill in the missing detail.")
		return
	}

	result, err := h.service.Submit(c.Request.Context(), clarifyapp.SubmitInput{
		Token:        req.Token,
		Choice:       *req.Choice,
		OtherBrand:   req.OtherBrand,
		OtherVariant: req.OtherVariant,
		SubmitterIP:  c.ClientIP(),
	})
	if err != nil {
		h.submitError(c, wantsJSON, err)
		return
	}

	if wantsJSON {
		h.Success(c, gin.H{
			"order_id":   result.OrderID,
			"line_index": result.LineIndex,
			"brand":      result.Brand,
			"variant":    result.Variant,
			"product_id": result.ProductID,
			"duplicate":  result.Duplicate,
		})
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := render.ConfirmPage(c.Writer, render.ConfirmPageData{
		Label:     result.Label,
		Brand:     result.Brand,
		Variant:   result.Variant,
		Duplicate: result.Duplicate,
	}); err != nil {
		h.InternalError(c, "Failed to render page")
	}
}

func (h *ClarifyHandler) submitError(c *gin.Context, wantsJSON bool, err error) {
	if wantsJSON {
		h.HandleError(c, err)
		return
	}

	switch {
	case errors.Is(err, shared.ErrTokenInvalid):
		h.invalidLink(c)
	case errors.Is(err, shared.ErrValidation):
		h.errorPage(c, http.StatusBadRequest, "Please pick one of the options, or fill in the detail we asked for.")
	case errors.Is(err, shared.ErrNotFound):
		h.errorPage(c, http.StatusNotFound, "We could not find that order anymore.")
	default:
		h.errorPage(c, http.StatusInternalServerError, "Something went wrong on our side. Please try again in a moment.")
	}
}

func (h *ClarifyHandler) invalidLink(c *gin.Context) {
	c.Status(http.StatusBadRequest)
	c.Header("Content-Type", "text/html; charset=utf-8")
	_ = render.InvalidLinkPage(c.Writer)
}

func (h *ClarifyHandler) errorPage(c *gin.Context, status int, message string) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	_ = render.ErrorPage(c.Writer, render.ErrorPageData{Message: message})
}
