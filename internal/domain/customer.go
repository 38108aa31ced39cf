package domain

import "time"

// Customer is the guest a booking belongs to. Creation is an idempotent
// upsert keyed by email, so repeat guests keep a single record.
type Customer struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" gorm:"uniqueIndex:idx_customer_email;size:255" validate:"required,email"`
	Phone     string    `json:"phone,omitempty" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AdminRole string

const (
	RoleAdmin   AdminRole = "admin"
	RoleManager AdminRole = "manager"
)

type Admin struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         AdminRole `json:"role" gorm:"size:16"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
