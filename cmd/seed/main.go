package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"roomreserve/internal/config"
	"roomreserve/internal/database"
	"roomreserve/internal/domain"
	"roomreserve/internal/repository"

	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}

	log.Info().Msg("running migrations")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate failed")
	}
	if err := repository.EnsureConstraints(db); err != nil {
		log.Fatal().Err(err).Msg("constraint setup failed")
	}

	// Wipe in dependency order.
	log.Info().Msg("cleaning old data")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM users")

	log.Info().Msg("creating users")
	admin := createUser(db, "admin@roomreserve.local", "admin123", "Admin", domain.RoleAdmin, true)
	premium := createUser(db, "premium@roomreserve.local", "premium123", "Paula Premium", domain.RoleClientPremium, true)
	client := createUser(db, "client@roomreserve.local", "client123", "Carl Client", domain.RoleClient, true)
	createUser(db, "pending@roomreserve.local", "pending123", "Peter Pending", domain.RoleClient, false)

	ctx := context.Background()
	log.Info().Msg("creating rooms")
	rooms := repository.NewRoomRepository(db)
	alpha := &domain.Room{Name: "Alpha", Size: "small", TVs: 1, Projectors: 0, Capacity: 4, Active: true}
	beta := &domain.Room{Name: "Beta", Size: "medium", TVs: 1, Projectors: 1, Capacity: 8, Active: true}
	gamma := &domain.Room{Name: "Gamma", Size: "large", TVs: 2, Projectors: 2, Capacity: 16, Active: true}
	for _, r := range []*domain.Room{alpha, beta, gamma} {
		if err := rooms.Create(ctx, r); err != nil {
			log.Fatal().Err(err).Str("room", r.Name).Msg("room insert failed")
		}
	}

	log.Info().Msg("creating reservations")
	reservations := repository.NewReservationRepository(db)
	tomorrow := time.Now().AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.Local)

	seedReservation(reservations, premium.ID, alpha.ID, start, 90, domain.ReservationApproved)
	seedReservation(reservations, client.ID, beta.ID, start.Add(time.Hour), 60, domain.ReservationPending)

	log.Info().
		Int64("admin_id", admin.ID).
		Int64("premium_id", premium.ID).
		Int64("client_id", client.ID).
		Msg("seed complete")
}

func createUser(db *gorm.DB, email, password, name string, role domain.UserRole, approved bool) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Approved:     approved,
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		log.Fatal().Err(err).Str("email", email).Msg("user insert failed")
	}
	return u
}

func seedReservation(repo *repository.ReservationRepository, userID, roomID int64, start time.Time, durationMinutes int, status domain.ReservationStatus) {
	res := &domain.Reservation{
		UserID:           userID,
		RoomID:           roomID,
		StartTime:        start,
		EndTime:          start.Add(time.Duration(durationMinutes) * time.Minute),
		ExpectedDuration: durationMinutes,
		Status:           status,
	}
	if err := repo.CreateIfFree(context.Background(), res); err != nil {
		log.Fatal().Err(err).Msg("reservation insert failed")
	}
}
