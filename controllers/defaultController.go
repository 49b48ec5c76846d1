package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Digistore API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

CART
- GET "/api/cart" - Items in the signed-in user's cart
- POST "/api/cart" - Add a product to the cart
- PUT "/api/cart" - Change an item's quantity
- DELETE "/api/cart?id=" - Remove an item (?clearAll=true empties the cart)

CHECKOUT
- POST "/api/checkout" - Open a Stripe checkout session for the cart
- POST "/api/webhook/stripe" - Stripe webhook receiver
- POST "/api/orders/create" - Record the order after a successful checkout

PRODUCTS
- GET "/api/products" - Browse products (?id, ?search, ?category, ?email, ?page, ?limit)
- GET "/api/products/featured" - Featured products
- POST "/api/products" - Create a product (multipart: image, file, data)
- PUT "/api/products" - Edit your product
- DELETE "/api/products?id=" - Delete a product

ACCOUNT
- POST "/api/user" - Sync your profile
- GET "/api/orders" - Your purchases
- GET "/api/tickets" - Your support tickets
- POST "/api/tickets" - Open a ticket
- POST "/api/tickets/messages" - Reply to a ticket

CATALOGUE
- GET "/api/categories" - Active categories
- GET "/api/settings" - Site settings`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
