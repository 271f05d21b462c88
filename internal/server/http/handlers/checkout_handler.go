package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
	"github.com/rvasilyev/storefront/internal/server/http/dto"
	"github.com/rvasilyev/storefront/internal/server/http/middleware"
)

// CheckoutHandler manages hosted checkout sessions.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Start handles POST /api/checkout. When the payment provider rejects the
// request the pending session id still comes back so the client can retry
// or query it later.
func (h *CheckoutHandler) Start(c *gin.Context) {
	var req dto.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	session, redirectURL, err := h.facade.StartCheckout(c.Request.Context(), CurrentUserID(c), toOrderLines(req.Items), req.Metadata)
	if err != nil {
		var payment domainErrors.PaymentError
		if session != nil && errors.As(err, &payment) {
			c.JSON(paymentStatus(payment), gin.H{
				"error":   payment.Message,
				"session": toCheckoutResponse(session, ""),
			})
			return
		}
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCheckoutResponse(session, redirectURL))
}

// Get handles GET /api/checkout/:id.
func (h *CheckoutHandler) Get(c *gin.Context) {
	session, err := h.facade.Checkout(c.Request.Context(), CurrentUserID(c), CurrentRole(c), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCheckoutResponse(session, ""))
}

// Complete handles POST /api/checkout/:id/complete.
func (h *CheckoutHandler) Complete(c *gin.Context) {
	order, err := h.facade.CompleteCheckout(c.Request.Context(), CurrentUserID(c), CurrentRole(c), c.Param("id"))
	middleware.RecordOrderOperation("checkout_complete", err == nil)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

func toCheckoutResponse(session *model.CheckoutSession, redirectURL string) dto.CheckoutResponse {
	items := make([]dto.OrderItemResponse, 0, len(session.Snapshot.Items))
	for _, item := range session.Snapshot.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return dto.CheckoutResponse{
		ID:          session.ID,
		Status:      string(session.Status),
		Items:       items,
		Total:       session.Snapshot.Total,
		RedirectURL: redirectURL,
		ExpiresAt:   session.ExpiresAt,
	}
}
