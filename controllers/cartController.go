package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/Kariqs/digistore-api/models"
	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1"`
}

type updateCartRequest struct {
	ID       uint `json:"id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// GetCart returns an empty list to anonymous visitors.
func GetCart(ctx *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(ctx)
	if !ok {
		sendJSONResponse(ctx, http.StatusOK, []models.CartItem{})
		return
	}

	items, err := cartStore().List(ctx.Request.Context(), identity)
	if err != nil {
		respondWithError(ctx, "Failed to fetch cart", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, items)
}

func AddToCart(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var body addToCartRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	item, err := cartStore().Add(ctx.Request.Context(), identity, body.ProductID, body.Quantity)
	if err != nil {
		respondWithError(ctx, "Failed to add item to cart", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, item)
}

func UpdateCartItem(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var body updateCartRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	item, err := cartStore().UpdateQuantity(ctx.Request.Context(), identity, body.ID, body.Quantity)
	if err != nil {
		respondWithError(ctx, "Failed to update cart item", err)
		return
	}
	if item == nil {
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item removed from cart"})
		return
	}
	sendJSONResponse(ctx, http.StatusOK, item)
}

// DeleteCartItem removes one item (?id=) or empties the cart (?clearAll=true).
func DeleteCartItem(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	if ctx.Query("clearAll") == "true" {
		if _, err := cartStore().Clear(ctx.Request.Context(), identity); err != nil {
			respondWithError(ctx, "Failed to clear cart", err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
		return
	}

	id, err := strconv.ParseUint(ctx.Query("id"), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Item ID is required")
		return
	}
	if err := cartStore().Remove(ctx.Request.Context(), identity, uint(id)); err != nil {
		respondWithError(ctx, "Failed to remove item", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item removed from cart"})
}
