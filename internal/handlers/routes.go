package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
)

// Set bundles every handler so route registration stays in one place.
type Set struct {
	Auth          *auth.AuthHandler
	Catalog       *CatalogHandler
	Products      *ProductHandler
	Bookings      *BookingHandler
	Supplier      *SupplierHandler
	Dashboard     *DashboardHandler
	Profile       *ProfileHandler
	Favorites     *FavoriteHandler
	Notifications *NotificationHandler
	Blog          *BlogHandler
	Lookups       *LookupHandler
}

func RegisterRoutes(r *chi.Mux, h *Set) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("LebAdvisor API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	authed := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/google/login", h.Auth.HandleLogin)
	r.Get("/auth/google/callback", h.Auth.HandleCallback)
	huma.Post(api, "/auth/register", h.Auth.HandleRegister)
	huma.Post(api, "/auth/login", h.Auth.HandleLoginPassword)

	// Public catalog
	huma.Get(api, "/activities", h.Catalog.HandleListActivities)
	huma.Get(api, "/activities/{id}", h.Catalog.HandleGetActivity)
	huma.Get(api, "/activities/{id}/offers", h.Catalog.HandleActivityOffers)
	huma.Get(api, "/activity-offers/{offerId}/periods", h.Catalog.HandleListPeriods)
	huma.Get(api, "/tours", h.Catalog.HandleListTours)
	huma.Get(api, "/tours/{id}", h.Catalog.HandleGetTour)
	huma.Get(api, "/tours/{id}/offers", h.Catalog.HandleTourOffers)
	huma.Get(api, "/tour-offers/{offerId}/days", h.Catalog.HandleListTourDays)
	huma.Get(api, "/packages", h.Catalog.HandleListPackages)
	huma.Get(api, "/packages/{id}", h.Catalog.HandleGetPackage)
	huma.Get(api, "/packages/{id}/offers", h.Catalog.HandlePackageOffers)
	huma.Get(api, "/package-offers/{offerId}/days", h.Catalog.HandleListPackageDays)
	huma.Get(api, "/featured", h.Catalog.HandleFeatured)
	huma.Get(api, "/latest", h.Catalog.HandleLatest)
	huma.Get(api, "/search", h.Catalog.HandleSearch)

	// Lookups and blog
	huma.Get(api, "/categories", h.Lookups.HandleListCategories)
	huma.Get(api, "/locations", h.Lookups.HandleListLocations)
	huma.Get(api, "/blog/posts", h.Blog.HandleListPosts)
	huma.Get(api, "/blog/posts/{slug}", h.Blog.HandleGetPost)
	huma.Get(api, "/blog/categories", h.Blog.HandleListBlogCategories)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.AuthMiddleware)

		huma.Get(api, "/me", h.Auth.HandleMe, authed)
		huma.Get(api, "/for-you", h.Catalog.HandleForYou, authed)

		// Customer bookings
		huma.Post(api, "/bookings/activities", h.Bookings.HandleCreateActivityBooking, authed)
		huma.Post(api, "/bookings/tours", h.Bookings.HandleCreateTourBooking, authed)
		huma.Post(api, "/bookings/packages", h.Bookings.HandleCreatePackageBooking, authed)
		huma.Get(api, "/bookings/activities", h.Bookings.HandleMyActivityBookings, authed)
		huma.Get(api, "/bookings/tours", h.Bookings.HandleMyTourBookings, authed)
		huma.Get(api, "/bookings/packages", h.Bookings.HandleMyPackageBookings, authed)

		// Favorites
		huma.Get(api, "/favorites", h.Favorites.HandleListFavorites, authed)
		huma.Post(api, "/favorites/activities/{id}", h.Favorites.HandleAddFavoriteActivity, authed)
		huma.Post(api, "/favorites/tours/{id}", h.Favorites.HandleAddFavoriteTour, authed)
		huma.Post(api, "/favorites/packages/{id}", h.Favorites.HandleAddFavoritePackage, authed)
		huma.Delete(api, "/favorites/activities/{id}", h.Favorites.HandleRemoveFavoriteActivity, authed)
		huma.Delete(api, "/favorites/tours/{id}", h.Favorites.HandleRemoveFavoriteTour, authed)
		huma.Delete(api, "/favorites/packages/{id}", h.Favorites.HandleRemoveFavoritePackage, authed)

		// Notifications
		huma.Get(api, "/notifications", h.Notifications.HandleListNotifications, authed)
		huma.Post(api, "/notifications/{id}/read", h.Notifications.HandleMarkRead, authed)
		huma.Post(api, "/notifications/read-all", h.Notifications.HandleMarkAllRead, authed)

		// Profile
		huma.Patch(api, "/profile", h.Profile.HandleUpdateProfile, authed)
		huma.Post(api, "/profile/password", h.Profile.HandleChangePassword, authed)
		huma.Put(api, "/profile/preferences", h.Profile.HandleUpdatePreferences, authed)
		huma.Put(api, "/profile/supplier-location", h.Profile.HandleUpdateSupplierLocation, authed)

		// Supplier products
		huma.Post(api, "/supplier/activities", h.Products.HandleCreateActivity, authed)
		huma.Post(api, "/supplier/tours", h.Products.HandleCreateTour, authed)
		huma.Post(api, "/supplier/packages", h.Products.HandleCreatePackage, authed)

		// Supplier inventory control
		huma.Post(api, "/supplier/reservations/activities", h.Supplier.HandleReserveActivity, authed)
		huma.Post(api, "/supplier/reservations/tours", h.Supplier.HandleReserveTour, authed)
		huma.Post(api, "/supplier/reservations/packages", h.Supplier.HandleReservePackage, authed)
		huma.Post(api, "/supplier/blocks/activities", h.Supplier.HandleBlockActivityDay, authed)
		huma.Post(api, "/supplier/blocks/tours", h.Supplier.HandleBlockTourDay, authed)
		huma.Post(api, "/supplier/blocks/packages", h.Supplier.HandleBlockPackageDay, authed)

		// Supplier dashboard
		huma.Get(api, "/supplier/dashboard", h.Dashboard.HandleDashboard, authed)
		huma.Get(api, "/supplier/activity-bookings", h.Dashboard.HandleActivityBookings, authed)
		huma.Get(api, "/supplier/tour-bookings", h.Dashboard.HandleTourBookings, authed)
		huma.Get(api, "/supplier/package-bookings", h.Dashboard.HandlePackageBookings, authed)
		huma.Post(api, "/supplier/activity-bookings/{id}/confirm", h.Dashboard.HandleConfirmActivityBooking, authed)
		huma.Post(api, "/supplier/tour-bookings/{id}/confirm", h.Dashboard.HandleConfirmTourBooking, authed)
		huma.Post(api, "/supplier/package-bookings/{id}/confirm", h.Dashboard.HandleConfirmPackageBooking, authed)
		huma.Post(api, "/supplier/activity-bookings/{id}/confirm-payment", h.Dashboard.HandleConfirmActivityPayment, authed)
		huma.Post(api, "/supplier/tour-bookings/{id}/confirm-payment", h.Dashboard.HandleConfirmTourPayment, authed)
		huma.Post(api, "/supplier/package-bookings/{id}/confirm-payment", h.Dashboard.HandleConfirmPackagePayment, authed)
	})
}
