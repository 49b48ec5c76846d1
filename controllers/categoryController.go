package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/models"
	"github.com/gin-gonic/gin"
)

func GetCategories(ctx *gin.Context) {
	var categories []models.Category
	query := initializers.DB.WithContext(ctx.Request.Context()).Order("name ASC")
	if ctx.Query("all") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&categories).Error; err != nil {
		respondWithError(ctx, "Failed to fetch categories", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, categories)
}

func CreateCategory(ctx *gin.Context) {
	var body struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Category name is required")
		return
	}
	category := models.Category{
		Name:        strings.TrimSpace(body.Name),
		Description: body.Description,
		Icon:        body.Icon,
		IsActive:    true,
	}
	if err := initializers.DB.WithContext(ctx.Request.Context()).Create(&category).Error; err != nil {
		respondWithError(ctx, "Failed to create category", err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, category)
}

// UpdateCategory applies only the fields present in the body.
func UpdateCategory(ctx *gin.Context) {
	var body struct {
		ID          uint    `json:"id" binding:"required"`
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
		IsActive    *bool   `json:"isActive"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	updates := map[string]any{}
	if body.Name != nil {
		updates["name"] = strings.TrimSpace(*body.Name)
	}
	if body.Description != nil {
		updates["description"] = *body.Description
	}
	if body.Icon != nil {
		updates["icon"] = *body.Icon
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}
	if len(updates) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Nothing to update")
		return
	}

	result := initializers.DB.WithContext(ctx.Request.Context()).
		Model(&models.Category{}).
		Where("id = ?", body.ID).
		Updates(updates)
	if result.Error != nil {
		respondWithError(ctx, "Failed to update category", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true})
}

func DeleteCategory(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Query("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Category ID required")
		return
	}
	result := initializers.DB.WithContext(ctx.Request.Context()).Delete(&models.Category{}, id)
	if result.Error != nil {
		respondWithError(ctx, "Failed to delete category", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true})
}
