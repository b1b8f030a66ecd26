package models

import (
	"gorm.io/gorm"
)

type FavoriteActivity struct {
	gorm.Model
	UserID     uint     `gorm:"uniqueIndex:idx_fav_activity" json:"user_id"`
	ActivityID uint     `gorm:"uniqueIndex:idx_fav_activity" json:"activity_id"`
	Activity   Activity `json:"activity"`
}

type FavoriteTour struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex:idx_fav_tour" json:"user_id"`
	TourID uint `gorm:"uniqueIndex:idx_fav_tour" json:"tour_id"`
	Tour   Tour `json:"tour"`
}

type FavoritePackage struct {
	gorm.Model
	UserID    uint    `gorm:"uniqueIndex:idx_fav_package" json:"user_id"`
	PackageID uint    `gorm:"uniqueIndex:idx_fav_package" json:"package_id"`
	Package   Package `json:"package"`
}
