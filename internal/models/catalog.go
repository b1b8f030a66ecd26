package models

import (
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Location struct {
	gorm.Model
	Name string `json:"name"`
}
