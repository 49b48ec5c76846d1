package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name    string `json:"name"`
	Image   string `json:"image"`
	Email   string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	IsAdmin bool   `json:"isAdmin" gorm:"default:false"`
}
