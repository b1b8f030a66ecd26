package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/booking"
	"github.com/lebadvisor/lebadvisor-api/internal/cache"
	"github.com/lebadvisor/lebadvisor-api/internal/config"
	"github.com/lebadvisor/lebadvisor-api/internal/database"
	"github.com/lebadvisor/lebadvisor-api/internal/handlers"
	"github.com/lebadvisor/lebadvisor-api/internal/inventory"
	"github.com/lebadvisor/lebadvisor-api/internal/notifier"
	"github.com/lebadvisor/lebadvisor-api/internal/qr"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Notifications always land in the database; Discord is an optional
	// ops-channel mirror.
	notifiers := notifier.Multi{notifier.NewDBNotifier(db)}
	if cfg.DiscordBotToken != "" && cfg.DiscordOpsChannelID != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			notifiers = append(notifiers, notifier.NewDiscordNotifier(session, cfg.DiscordOpsChannelID))
		}
	}

	// Optional listing cache
	var listingCache *cache.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		listingCache = cache.New(client, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		log.Printf("Listing cache enabled via %s", cfg.RedisAddr)
	}

	qrGen := qr.New(cfg.PublicURL, cfg.QRDir)
	engine := inventory.NewEngine(db)
	bookingSvc := booking.NewService(db, notifiers, qrGen)

	// Release abandoned holds in the background when a TTL is configured.
	if cfg.HoldTTLMinutes > 0 {
		ttl := time.Duration(cfg.HoldTTLMinutes) * time.Minute
		sweeper := booking.NewSweeper(bookingSvc, ttl, time.Minute)
		go sweeper.Start(context.Background())
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	handlerSet := &handlers.Set{
		Auth:          authHandler,
		Catalog:       handlers.NewCatalogHandler(db, listingCache, authHandler, time.Now),
		Products:      handlers.NewProductHandler(db, authHandler),
		Bookings:      handlers.NewBookingHandler(db, bookingSvc, authHandler),
		Supplier:      handlers.NewSupplierHandler(db, engine, authHandler),
		Dashboard:     handlers.NewDashboardHandler(db, bookingSvc, authHandler),
		Profile:       handlers.NewProfileHandler(db, authHandler),
		Favorites:     handlers.NewFavoriteHandler(db, authHandler),
		Notifications: handlers.NewNotificationHandler(db, authHandler),
		Blog:          handlers.NewBlogHandler(db),
		Lookups:       handlers.NewLookupHandler(db),
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, handlerSet)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
