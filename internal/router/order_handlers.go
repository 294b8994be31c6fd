package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/novellea/novellea-api/pkg/global"
	"github.com/novellea/novellea-api/pkg/models"
)

// CreateOrder places an order from an explicit item list, or from the
// caller's server-side cart when the list is omitted.
func CreateOrder(c *gin.Context) {
	success := false
	defer func() { RecordOrderOperation("create", success) }()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	order, err := orderEngine.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	success = true
	c.JSON(http.StatusCreated, global.SuccessResponse(order))
}

func GetUserOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	orders, err := orderEngine.GetUserOrders(c.Request.Context(), userID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

func GetOrderByID(c *gin.Context) {
	order, err := orderEngine.GetOrderByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

// UpdateOrderStatus moves an order to the target status named in the query.
// Transitions into CANCELLED or RETURNED restore stock via the engine.
func UpdateOrderStatus(c *gin.Context) {
	success := false
	defer func() { RecordOrderOperation("update_status", success) }()

	status, valid := models.ParseOrderStatus(c.Query("status"))
	if !valid {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Unknown order status", []global.ValidationError{
			{Field: "status", Message: "Must be one of the order status tokens", Code: "invalid_status"},
		}))
		return
	}

	if err := orderEngine.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), status); err != nil {
		respondError(c, err)
		return
	}

	success = true
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Order status updated"}))
}

func CancelOrder(c *gin.Context) {
	success := false
	defer func() { RecordOrderOperation("cancel", success) }()

	if err := orderEngine.CancelOrder(c.Request.Context(), c.Param("orderId")); err != nil {
		respondError(c, err)
		return
	}

	success = true
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Order cancelled"}))
}

func ReturnOrder(c *gin.Context) {
	success := false
	defer func() { RecordOrderOperation("return", success) }()

	if err := orderEngine.ReturnOrder(c.Request.Context(), c.Param("orderId")); err != nil {
		respondError(c, err)
		return
	}

	success = true
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Order returned"}))
}

func Reorder(c *gin.Context) {
	success := false
	defer func() { RecordOrderOperation("reorder", success) }()

	order, err := orderEngine.Reorder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}

	success = true
	c.JSON(http.StatusCreated, global.SuccessResponse(order))
}

func TrackOrder(c *gin.Context) {
	status, err := orderEngine.TrackOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]models.OrderStatus{"status": status}))
}

func TrackByOrderNumber(c *gin.Context) {
	order, err := orderEngine.TrackByOrderNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}
