package database

import (
	"log"

	"github.com/lebadvisor/lebadvisor-api/internal/config"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{}, &models.Supplier{}, &models.Customer{},
		&models.Category{}, &models.Location{},
		&models.Activity{}, &models.ActivityOffer{}, &models.Period{},
		&models.Tour{}, &models.TourOffer{}, &models.TourDay{},
		&models.Package{}, &models.PackageOffer{}, &models.PackageDay{},
		&models.ActivityBooking{}, &models.TourBooking{}, &models.PackageBooking{},
		&models.Notification{},
		&models.FavoriteActivity{}, &models.FavoriteTour{}, &models.FavoritePackage{},
		&models.BlogCategory{}, &models.BlogPost{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
