package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	Title       string  `json:"title" gorm:"not null"`
	Price       string  `json:"price" gorm:"size:32;not null"`
	Description string  `json:"description" gorm:"type:text;not null"`
	Category    string  `json:"category" gorm:"size:128;index"`
	ImageUrl    string  `json:"imageUrl"`
	FileUrl     *string `json:"fileUrl"`
	CreatedBy   string  `json:"createdBy" gorm:"size:255;not null;index"`
	IsFeatured  bool    `json:"isFeatured" gorm:"default:false"`
	User        *User   `json:"user,omitempty" gorm:"foreignKey:CreatedBy;references:Email"`
}
