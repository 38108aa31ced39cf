package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"tourstay/internal/config"
	"tourstay/internal/database"
	"tourstay/internal/domain"
	"tourstay/internal/pkg/validator"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data in FK-safe order
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM capacity_days")
	db.Exec("DELETE FROM customers")
	db.Exec("DELETE FROM departures")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM admins")

	log.Println("Creating admin...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.Admin{
		Email:        "admin@tourstay.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("create admin failed:", err)
	}

	log.Println("Creating property and rooms...")
	property := domain.Property{
		Name:     "Riverside Homestay",
		City:     "Hoi An",
		Address:  "12 Bach Dang",
		IsActive: true,
	}
	if err := db.Create(&property).Error; err != nil {
		log.Fatal("create property failed:", err)
	}

	rooms := []domain.Room{
		{
			PropertyID:    property.ID,
			Name:          "Garden View",
			Description:   "Ground floor double with garden access",
			Units:         2,
			MaxGuests:     3,
			BaseOccupancy: 2,
			NightlyRate:   45,
			ExtraGuestFee: 10,
			Currency:      "USD",
			IsActive:      true,
		},
		{
			PropertyID:    property.ID,
			Name:          "River Balcony",
			Description:   "Upstairs double with river balcony",
			Units:         1,
			MaxGuests:     2,
			BaseOccupancy: 2,
			NightlyRate:   60,
			Currency:      "USD",
			IsActive:      true,
		},
		{
			PropertyID:    property.ID,
			Name:          "Family Suite",
			Description:   "Two connected rooms for families",
			Units:         1,
			MaxGuests:     5,
			BaseOccupancy: 3,
			NightlyRate:   85,
			ExtraGuestFee: 12,
			Currency:      "USD",
			IsActive:      true,
		},
	}
	for i := range rooms {
		if fields := validator.Validate(&rooms[i]); fields != nil {
			log.Fatalf("invalid seed room %q: %v", rooms[i].Name, fields)
		}
		if err := db.Create(&rooms[i]).Error; err != nil {
			log.Fatal("create room failed:", err)
		}
	}

	// Close the Garden View for a maintenance window next month
	log.Println("Creating capacity days...")
	maintenanceStart := domain.Midnight(time.Now().AddDate(0, 1, 0))
	for _, night := range domain.NightsBetween(maintenanceStart, maintenanceStart.AddDate(0, 0, 3)) {
		day := domain.CapacityDay{
			RoomID:     rooms[0].ID,
			Date:       night,
			TotalUnits: rooms[0].Units,
			State:      domain.DayClosed,
		}
		if err := db.Create(&day).Error; err != nil {
			log.Fatal("create capacity day failed:", err)
		}
	}

	log.Println("Creating departures...")
	departures := []domain.Departure{
		{
			TourName:       "Island Hopper",
			StartsAt:       time.Now().AddDate(0, 0, 7).Truncate(time.Hour),
			DurationH:      8,
			SeatsTotal:     20,
			SeatsAvailable: 20,
			AdultPrice:     50,
			ChildPrice:     25,
			Currency:       "USD",
			IsActive:       true,
		},
		{
			TourName:       "Night Market Food Walk",
			StartsAt:       time.Now().AddDate(0, 0, 3).Truncate(time.Hour),
			DurationH:      4,
			SeatsTotal:     12,
			SeatsAvailable: 12,
			AdultPrice:     30,
			ChildPrice:     15,
			Currency:       "USD",
			IsActive:       true,
		},
	}
	for i := range departures {
		if fields := validator.Validate(&departures[i]); fields != nil {
			log.Fatalf("invalid seed departure %q: %v", departures[i].TourName, fields)
		}
		if err := db.Create(&departures[i]).Error; err != nil {
			log.Fatal("create departure failed:", err)
		}
	}

	log.Printf("Seed complete: %d rooms, %d departures, admin login admin@tourstay.local / admin123",
		len(rooms), len(departures))
}
