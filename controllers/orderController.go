package controllers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/digistore-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createOrderRequest struct {
	SessionID   string           `json:"sessionId" binding:"required"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
}

// CreateOrder is called by the checkout success page. The webhook may already
// have created the order, in which case that order is returned.
func CreateOrder(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var body createOrderRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Session ID is required")
		return
	}

	result, err := orderService().CreateFromRedirect(ctx.Request.Context(), identity, body.SessionID, body.TotalAmount)
	if err != nil {
		respondWithError(ctx, "Failed to create order", err)
		return
	}

	message := "Order created successfully"
	if !result.Created {
		message = "Order already exists"
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": message, "order": result.Order})
}

func GetOrders(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	orders, err := orderService().ListForOwner(ctx.Request.Context(), identity)
	if err != nil {
		respondWithError(ctx, "Failed to fetch orders", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, orders)
}

func pageFromQuery(ctx *gin.Context, defaultLimit int) services.Page {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return services.Page{Page: page, Limit: limit}
}

func pageMetadata(p services.Page, total int64) gin.H {
	totalPages := int(math.Ceil(float64(total) / float64(p.Limit)))
	return gin.H{
		"total":       total,
		"currentPage": p.Page,
		"limit":       p.Limit,
		"totalPages":  totalPages,
		"hasPrevPage": p.Page > 1,
		"hasNextPage": totalPages > p.Page,
	}
}

func GetAllOrders(ctx *gin.Context) {
	page := pageFromQuery(ctx, 15)
	orders, total, err := orderService().ListAll(ctx.Request.Context(), page)
	if err != nil {
		respondWithError(ctx, "Unable to fetch orders", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders":   orders,
		"metadata": pageMetadata(page, total),
	})
}

func UpdateOrderStatus(ctx *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	order, err := orderService().UpdateStatus(ctx.Request.Context(), uint(orderID), strings.ToLower(body.Status))
	if err != nil {
		respondWithError(ctx, "Failed to update order status", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated successfully.", "order": order})
}

func GetPaymentStats(ctx *gin.Context) {
	stats, err := orderService().PaymentStats(ctx.Request.Context(), time.Now())
	if err != nil {
		respondWithError(ctx, "Failed to compute payment stats", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, stats)
}
