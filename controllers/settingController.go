package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetSettings(ctx *gin.Context) {
	var settings []models.SiteSetting
	if err := initializers.DB.WithContext(ctx.Request.Context()).Find(&settings).Error; err != nil {
		respondWithError(ctx, "Failed to fetch settings", err)
		return
	}
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	sendJSONResponse(ctx, http.StatusOK, out)
}

// SaveSettings upserts every key of the posted object.
func SaveSettings(ctx *gin.Context) {
	var body map[string]string
	if err := ctx.ShouldBindJSON(&body); err != nil || len(body) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Settings object is required")
		return
	}

	now := time.Now()
	rows := make([]models.SiteSetting, 0, len(body))
	for key, value := range body {
		key = strings.TrimSpace(key)
		if key == "" {
			sendErrorResponse(ctx, http.StatusBadRequest, "Setting keys cannot be empty")
			return
		}
		rows = append(rows, models.SiteSetting{Key: key, Value: value, UpdatedAt: now})
	}

	err := initializers.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		respondWithError(ctx, "Failed to save settings", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true})
}
