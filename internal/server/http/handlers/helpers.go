package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
	"github.com/rvasilyev/storefront/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentRole extracts the authenticated user role from context.
func CurrentRole(c *gin.Context) model.Role {
	val, ok := c.Get(middleware.RoleContextKey)
	if !ok {
		return model.RoleClient
	}
	role, _ := val.(model.Role)
	return role
}

// writeDomainError maps domain failures onto HTTP statuses. Unrecognized
// errors fall through to 500.
func writeDomainError(c *gin.Context, err error) {
	var (
		unknown   domainErrors.UnknownProductsError
		shortage  domainErrors.InsufficientStockError
		duplicate domainErrors.DuplicateProductError
		illegal   domainErrors.IllegalTransitionError
		payment   domainErrors.PaymentError
	)

	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrForbidden):
		c.Status(http.StatusForbidden)
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.Status(http.StatusConflict)
	case errors.As(err, &unknown):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": unknown.Error(), "product_ids": unknown.IDs})
	case errors.As(err, &shortage):
		c.JSON(http.StatusConflict, gin.H{"error": shortage.Error(), "shortages": shortage.Shortages})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": duplicate.Error()})
	case errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrAddressTooLong),
		errors.Is(err, domainErrors.ErrInvalidProduct):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domainErrors.ErrOrderCancelled),
		errors.Is(err, domainErrors.ErrOrderNotPending),
		errors.Is(err, domainErrors.ErrCancelNotAllowed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &illegal):
		c.JSON(http.StatusConflict, gin.H{"error": illegal.Error()})
	case errors.As(err, &payment):
		c.JSON(paymentStatus(payment), gin.H{"error": payment.Message})
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func paymentStatus(err domainErrors.PaymentError) int {
	switch err.Kind {
	case domainErrors.PaymentErrorCard:
		return http.StatusPaymentRequired
	case domainErrors.PaymentErrorRateLimit:
		return http.StatusTooManyRequests
	case domainErrors.PaymentErrorInvalidRequest:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
