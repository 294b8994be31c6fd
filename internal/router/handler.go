package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novellea/novellea-api/pkg/global"
	"github.com/novellea/novellea-api/pkg/models"
	"github.com/novellea/novellea-api/pkg/mongo"
)

func HealthCheck(c *gin.Context) {
	db := mongo.GetDatabase()
	if err := db.Client().Ping(c, nil); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Database connection failed", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "database": "Connected"}))
}

// respondError maps the core's error kinds onto HTTP statuses. Anything not
// recognized is a 500 and the detail stays in the server log.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, global.ErrorResponse(err.Error(), []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, global.ErrorResponse(err.Error(), []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "not_found"},
		}))
	case errors.Is(err, models.ErrInsufficientStock):
		c.JSON(http.StatusConflict, global.ErrorResponse(err.Error(), []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "insufficient_stock"},
		}))
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, global.ErrorResponse(err.Error(), []global.ValidationError{
			{Field: "status", Message: err.Error(), Code: "invalid_transition"},
		}))
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Internal server error", nil))
	}
}

func currentUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("User not authenticated", nil))
		return 0, false
	}
	userID, ok := raw.(int64)
	if !ok {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("User not authenticated", nil))
		return 0, false
	}
	return userID, true
}
