package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:128;not null"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    bool   `json:"isActive"`
}
