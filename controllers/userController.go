package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/Kariqs/digistore-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncUser records the signed-in user's profile. The email always comes from
// the verified identity, never from the body. A previously deleted user is
// restored.
func SyncUser(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var body struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Name == "" {
		body.Name = identity.Name
	}

	user := models.User{Name: body.Name, Image: body.Image, Email: identity.Email}
	db := initializers.DB.WithContext(ctx.Request.Context())
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "image", "updated_at", "deleted_at"}),
	}).Create(&user).Error
	if err != nil {
		respondWithError(ctx, "Failed to save user", err)
		return
	}
	if err := db.Where("email = ?", identity.Email).First(&user).Error; err != nil {
		respondWithError(ctx, "Failed to load user", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, user)
}

func CheckAdmin(ctx *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(ctx)
	if !ok {
		sendJSONResponse(ctx, http.StatusOK, gin.H{"isAdmin": false})
		return
	}
	isAdmin, err := middlewares.IsAdmin(ctx, identity.Email)
	if err != nil {
		respondWithError(ctx, "Failed to check admin status", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"isAdmin": isAdmin})
}

func GetUsers(ctx *gin.Context) {
	page := pageFromQuery(ctx, 20)
	db := initializers.DB.WithContext(ctx.Request.Context())

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		respondWithError(ctx, "Unable to fetch users", err)
		return
	}
	var users []models.User
	if err := db.Order("id DESC").Limit(page.Limit).Offset(page.Offset()).Find(&users).Error; err != nil {
		respondWithError(ctx, "Unable to fetch users", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"users": users, "metadata": pageMetadata(page, total)})
}

func UpdateUserRole(ctx *gin.Context) {
	var body struct {
		UserID  uint  `json:"userId" binding:"required"`
		IsAdmin *bool `json:"isAdmin" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	result := initializers.DB.WithContext(ctx.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", body.UserID).
		Update("is_admin", *body.IsAdmin)
	if result.Error != nil {
		respondWithError(ctx, "Failed to update user", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "User not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true})
}

func DeleteUser(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	userID, err := strconv.ParseUint(ctx.Query("userId"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "User ID required")
		return
	}

	db := initializers.DB.WithContext(ctx.Request.Context())
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(ctx, "Failed to load user", err)
		return
	}
	if user.Email == identity.Email {
		sendErrorResponse(ctx, http.StatusBadRequest, "You cannot delete your own account")
		return
	}
	if err := db.Delete(&user).Error; err != nil {
		respondWithError(ctx, "Failed to delete user", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true})
}

func GetDashboard(ctx *gin.Context) {
	db := initializers.DB.WithContext(ctx.Request.Context())
	counts := map[string]int64{}
	for key, model := range map[string]any{
		"users":    &models.User{},
		"products": &models.Product{},
		"orders":   &models.Order{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			respondWithError(ctx, "Failed to load dashboard", err)
			return
		}
		counts[key] = n
	}

	var openTickets int64
	if err := db.Model(&models.Ticket{}).
		Where("status IN ?", []string{models.TicketStatusOpen, models.TicketStatusInProgress}).
		Count(&openTickets).Error; err != nil {
		respondWithError(ctx, "Failed to load dashboard", err)
		return
	}

	var recent []models.Order
	if err := db.Order("created_at DESC, id DESC").Limit(5).Find(&recent).Error; err != nil {
		respondWithError(ctx, "Failed to load dashboard", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"totalUsers":    counts["users"],
		"totalProducts": counts["products"],
		"totalOrders":   counts["orders"],
		"openTickets":   openTickets,
		"recentOrders":  recent,
	})
}
