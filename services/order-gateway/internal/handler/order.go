package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	orderDomain "github.com/muhammadchandra19/exchange/services/order-gateway/internal/domain/order"
	v1 "github.com/muhammadchandra19/exchange/services/order-gateway/internal/domain/order/v1"
)

// FieldError is one entry of an "Invalid input" response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OrderHandler serves /api/trading.
type OrderHandler struct {
	usecase orderDomain.Usecase
	logger  logger.Interface
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(usecase orderDomain.Usecase, logger logger.Interface) *OrderHandler {
	return &OrderHandler{usecase: usecase, logger: logger}
}

// Register mounts the trading routes on r.
func (h *OrderHandler) Register(r gin.IRoutes) {
	r.POST("/orders", h.SubmitOrder)
	r.GET("/orders", h.ListOrders)
	r.POST("/orders/:orderId/cancel", h.CancelOrder)
	r.GET("/positions", h.Positions)
}

// SubmitOrder handles POST /orders.
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var req v1.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, []FieldError{{Field: "body", Message: err.Error()}})
		return
	}

	res, err := h.usecase.Submit(c.Request.Context(), userID(c), req)
	if err != nil {
		if details, ok := validationDetails(err); ok {
			invalidInput(c, details)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), err, logger.Field{Key: "action", Value: "submit_order"})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit order"})
		return
	}

	c.JSON(http.StatusAccepted, res)
}

// ListOrders handles GET /orders.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req v1.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		invalidInput(c, []FieldError{{Field: "query", Message: err.Error()}})
		return
	}

	orders, err := h.usecase.ListOrders(c.Request.Context(), userID(c), req)
	if err != nil {
		if details, ok := validationDetails(err); ok {
			invalidInput(c, details)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), err, logger.Field{Key: "action", Value: "list_orders"})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Positions handles GET /positions.
func (h *OrderHandler) Positions(c *gin.Context) {
	positions, err := h.usecase.Positions(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), err, logger.Field{Key: "action", Value: "positions"})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch positions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

// CancelOrder handles POST /orders/:orderId/cancel.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	res, err := h.usecase.Cancel(c.Request.Context(), userID(c), c.Param("orderId"))
	if err != nil {
		if errors.ErrorCodeEquals(err, errors.OrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if details, ok := validationDetails(err); ok {
			invalidInput(c, details)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), err, logger.Field{Key: "action", Value: "cancel_order"})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	c.JSON(http.StatusAccepted, res)
}

func invalidInput(c *gin.Context, details []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": details})
}

func validationDetails(err error) ([]FieldError, bool) {
	if !errors.ErrorCodeEquals(err, errors.InvalidCommand) {
		return nil, false
	}

	var base *errors.BaseError
	if !stderrors.As(err, &base) {
		return []FieldError{{Message: err.Error()}}, true
	}

	details := make([]FieldError, 0, len(base.GetDetails()))
	for _, d := range base.GetDetails() {
		details = append(details, FieldError{Field: d.Field, Message: d.Message})
	}
	return details, true
}
