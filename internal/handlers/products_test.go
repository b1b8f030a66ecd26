package handlers

import (
	"context"
	"testing"

	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/config"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func productTestSetup(t *testing.T) (*ProductHandler, *gorm.DB, context.Context) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Supplier{}, &models.Customer{}, &models.Location{},
		&models.Activity{}, &models.ActivityOffer{}, &models.Period{},
		&models.Tour{}, &models.TourOffer{}, &models.TourDay{},
		&models.Package{}, &models.PackageOffer{}, &models.PackageDay{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	user := models.User{Username: "supplier", IsSupplier: true}
	db.Create(&user)
	supplier := models.Supplier{UserID: user.ID}
	db.Create(&supplier)

	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db)
	handler := NewProductHandler(db, authHandler)
	ctx := context.WithValue(context.Background(), auth.UserIDKey, user.ID)
	return handler, db, ctx
}

func TestHandleCreateActivity(t *testing.T) {
	handler, db, ctx := productTestSetup(t)

	req := &CreateActivityRequest{}
	req.Body.Title = "Paragliding"
	req.Body.LocationID = 1
	req.Body.AvailableFrom = "2026-06-01"
	req.Body.AvailableTo = "2026-06-02"
	req.Body.Period = 30
	req.Body.StartTime = "10:00"
	req.Body.EndTime = "12:00"
	req.Body.Offers = []OfferInput{
		{Title: "Solo", Price: 70, Stock: 3},
		{Title: "Tandem", Price: 120, Stock: 2},
	}

	res, err := handler.HandleCreateActivity(ctx, req)
	if err != nil {
		t.Fatalf("HandleCreateActivity returned error: %v", err)
	}
	if res.Body.ID == 0 {
		t.Fatal("expected a created activity ID")
	}

	// 4 slots per day, 2 days, 2 offers.
	var count int64
	db.Model(&models.Period{}).Count(&count)
	if count != 16 {
		t.Errorf("expected 16 generated periods, got %d", count)
	}
}

func TestHandleCreateActivityRejectsBadWindow(t *testing.T) {
	handler, db, ctx := productTestSetup(t)

	req := &CreateActivityRequest{}
	req.Body.Title = "Paragliding"
	req.Body.LocationID = 1
	req.Body.AvailableFrom = "2026-06-02"
	req.Body.AvailableTo = "2026-06-01"
	req.Body.Period = 30
	req.Body.StartTime = "10:00"
	req.Body.EndTime = "12:00"
	req.Body.Offers = []OfferInput{{Title: "Solo", Price: 70, Stock: 3}}

	if _, err := handler.HandleCreateActivity(ctx, req); err == nil {
		t.Fatal("expected error for inverted availability window")
	}

	// The transaction rolled everything back.
	var count int64
	db.Model(&models.Activity{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no activity rows, got %d", count)
	}
}

func TestHandleCreateTourRequiresSupplier(t *testing.T) {
	handler, db, _ := productTestSetup(t)

	user := models.User{Username: "customer", IsCustomer: true}
	db.Create(&user)
	db.Create(&models.Customer{UserID: user.ID})
	ctx := context.WithValue(context.Background(), auth.UserIDKey, user.ID)

	req := &CreateTourRequest{}
	req.Body.Title = "Byblos Day Trip"
	req.Body.LocationID = 1
	req.Body.AvailableFrom = "2026-06-01"
	req.Body.AvailableTo = "2026-06-03"
	req.Body.Offers = []OfferInput{{Title: "Standard", Price: 45, Stock: 20}}

	if _, err := handler.HandleCreateTour(ctx, req); err == nil {
		t.Fatal("expected error for user without supplier profile")
	}
}
