package models

import (
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID  uint   `gorm:"index" json:"user_id"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}
