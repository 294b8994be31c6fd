package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/novellea/novellea-api/pkg/global"
)

func inventoryParams(c *gin.Context) (string, int, bool) {
	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Missing product ID", []global.ValidationError{
			{Field: "productId", Message: "productId query parameter is required", Code: "required"},
		}))
		return "", 0, false
	}

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid quantity", []global.ValidationError{
			{Field: "quantity", Message: "quantity query parameter must be an integer", Code: "invalid_format"},
		}))
		return "", 0, false
	}

	return productID, quantity, true
}

// UpdateStock replenishes a product, creating its ledger record on first use.
func UpdateStock(c *gin.Context) {
	productID, quantity, ok := inventoryParams(c)
	if !ok {
		return
	}

	record, err := stockLedger.AddOrUpdateStock(c.Request.Context(), productID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(record))
}

func CheckStock(c *gin.Context) {
	productID, quantity, ok := inventoryParams(c)
	if !ok {
		return
	}

	inStock, err := stockLedger.IsInStock(c.Request.Context(), productID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]bool{"in_stock": inStock}))
}

func ReduceStock(c *gin.Context) {
	productID, quantity, ok := inventoryParams(c)
	if !ok {
		return
	}

	if err := stockLedger.ReduceStock(c.Request.Context(), productID, quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Stock reduced"}))
}

func GetStock(c *gin.Context) {
	record, err := stockLedger.GetStock(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(record))
}

func ListStock(c *gin.Context) {
	records, err := stockLedger.ListStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(records))
}
