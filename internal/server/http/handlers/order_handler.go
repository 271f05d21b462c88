package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rvasilyev/storefront/internal/domain/model"
	"github.com/rvasilyev/storefront/internal/server/http/dto"
	"github.com/rvasilyev/storefront/internal/server/http/middleware"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentUserID(c), req.Address, toOrderLines(req.Items))
	middleware.RecordOrderOperation("place", err == nil)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.MyOrders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// ListAll handles GET /api/admin/orders.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.facade.AllOrders(c.Request.Context(), CurrentRole(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.Order(c.Request.Context(), CurrentUserID(c), CurrentRole(c), orderID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err = h.facade.CancelOrder(c.Request.Context(), CurrentUserID(c), CurrentRole(c), orderID)
	middleware.RecordOrderOperation("cancel", err == nil)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// UpdateAddress handles PATCH /api/orders/:id/address.
func (h *OrderHandler) UpdateAddress(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.UpdateOrderAddress(c.Request.Context(), CurrentUserID(c), CurrentRole(c), orderID, req.Address); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Advance handles PATCH /api/admin/orders/:id/status.
func (h *OrderHandler) Advance(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.AdvanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.AdvanceOrder(c.Request.Context(), CurrentUserID(c), CurrentRole(c), orderID, model.OrderStatus(req.Status))
	middleware.RecordOrderOperation("advance", err == nil)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func toOrderLines(items []dto.OrderLineRequest) []model.OrderLine {
	lines := make([]model.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, model.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return response
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return dto.OrderResponse{
		ID:          order.ID,
		Status:      string(order.Status),
		Total:       order.Total,
		Address:     order.Address,
		Items:       items,
		CancelledAt: order.CancelledAt,
		CreatedAt:   order.CreatedAt,
	}
}
