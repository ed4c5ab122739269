package repository

import (
	"time"

	"gorm.io/gorm"
)

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Name         string    `gorm:"column:name"`
	Role         string    `gorm:"column:role"`
	Approved     bool      `gorm:"column:approved"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type roomModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Name       string    `gorm:"column:name"`
	Size       string    `gorm:"column:size"`
	TVs        int       `gorm:"column:tvs"`
	Projectors int       `gorm:"column:projectors"`
	Capacity   int       `gorm:"column:capacity"`
	Active     bool      `gorm:"column:active"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

type reservationModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	UserID           int64     `gorm:"column:user_id;index"`
	RoomID           int64     `gorm:"column:room_id;index"`
	StartTime        time.Time `gorm:"column:start_time;index"`
	EndTime          time.Time `gorm:"column:end_time"`
	ExpectedDuration int       `gorm:"column:expected_duration"`
	Status           string    `gorm:"column:status;index"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`

	User *userModel `gorm:"foreignKey:UserID"`
	Room *roomModel `gorm:"foreignKey:RoomID"`
}

func (reservationModel) TableName() string { return "reservations" }

// AutoMigrate creates or updates the schema for all repositories.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&roomModel{},
		&reservationModel{},
	)
}

// EnsureConstraints installs the overlap exclusion constraint on postgres so
// two concurrent creates for the same room cannot both commit an approved
// overlapping interval. SQLite serializes writers, so the create transaction
// alone is enough there.
func EnsureConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	return db.Exec(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap'
	) THEN
		ALTER TABLE reservations
			ADD CONSTRAINT reservations_no_overlap
			EXCLUDE USING gist (
				room_id WITH =,
				tstzrange(start_time, end_time) WITH &&
			) WHERE (status = 'approved');
	END IF;
END
$$;
`).Error
}
