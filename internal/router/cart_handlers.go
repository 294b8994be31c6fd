package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/novellea/novellea-api/pkg/global"
	"github.com/novellea/novellea-api/pkg/models"
)

func AddToCart(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid cart item", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	added, err := cartService.AddItem(c.Request.Context(), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(added))
}

func UpdateCartItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid cart item", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	updated, err := cartService.UpdateItem(c.Request.Context(), models.CartItem{
		UserID:   req.UserID,
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

func GetUserCart(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid user ID", []global.ValidationError{
			{Field: "userId", Message: "Must be a valid integer", Code: "invalid_format"},
		}))
		return
	}

	items, err := cartService.GetUserCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(items))
}

func GetCartItemCount(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid user ID", []global.ValidationError{
			{Field: "userId", Message: "Must be a valid integer", Code: "invalid_format"},
		}))
		return
	}

	count, err := cartService.GetItemCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]int{"count": count}))
}

func RemoveFromCart(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid user ID", []global.ValidationError{
			{Field: "userId", Message: "Must be a valid integer", Code: "invalid_format"},
		}))
		return
	}

	if err := cartService.RemoveItem(c.Request.Context(), userID, c.Param("bookId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Item removed"}))
}

func ClearCart(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid user ID", []global.ValidationError{
			{Field: "userId", Message: "Must be a valid integer", Code: "invalid_format"},
		}))
		return
	}

	if err := cartService.ClearCart(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Cart cleared"}))
}

// SyncCart replaces the owner's entire server-side cart with the supplied
// list. An empty list is acknowledged without touching anything.
func SyncCart(c *gin.Context) {
	var localItems []models.CartItem
	if err := c.ShouldBindJSON(&localItems); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid sync payload", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	if err := cartService.SyncCart(c.Request.Context(), localItems); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Cart synced"}))
}
