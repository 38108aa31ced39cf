package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"tourstay/internal/cache"
	"tourstay/internal/config"
	"tourstay/internal/database"
	"tourstay/internal/middleware"
	"tourstay/internal/modules/auth"
	"tourstay/internal/modules/booking"
	"tourstay/internal/modules/catalog"
	"tourstay/internal/modules/notify"
	jwtsvc "tourstay/internal/pkg/jwt"
	"tourstay/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	var availCache *cache.AvailabilityCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		availCache = cache.NewAvailabilityCache(client)
	}

	roomRepo := repository.NewRoomRepository(db)
	departureRepo := repository.NewDepartureRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	ledger := repository.NewCapacityLedger(db)
	store := repository.NewReservationStore(db, ledger)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notify.NewHub()
	dispatcher := notify.NewDispatcher(cfg.WebhookURL, hub)
	notifyHandler := notify.NewHandler(hub)

	authService := auth.NewService(adminRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(roomRepo, departureRepo, ledger, availCache)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(
		store,
		bookingRepo,
		roomRepo,
		departureRepo,
		ledger,
		dispatcher,
		bookingCache(availCache),
	)
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		catalogHandler.RegisterRoutes(v1)
		bookingHandler.RegisterRoutes(v1)
		authHandler.RegisterRoutes(v1.Group("/auth"))

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAuth(j), middleware.RequireRole("admin", "manager"))
		{
			bookingHandler.RegisterAdminRoutes(admin)
			catalogHandler.RegisterAdminRoutes(admin)
			notifyHandler.RegisterRoutes(admin)
		}
	}

	log.Printf("listening addr=%s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}

// bookingCache keeps the service's nil check meaningful: a typed nil
// pointer inside a non-nil interface would defeat it.
func bookingCache(c *cache.AvailabilityCache) booking.AvailabilityCache {
	if c == nil {
		return nil
	}
	return c
}
