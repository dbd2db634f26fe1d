// Package model defines the core domain types shared across storage,
// HTTP handlers, and the reminder scheduler.
package model

import "time"

// Layouts for the string-typed calendar fields on Medicine. Dates and the
// daily dose time are stored exactly as the client submits them; all
// interpretation happens in the reminder package against the server-local
// clock.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// User is a registered account.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Medicine is one entry on a user's medication list: a display name, an
// inclusive calendar date range, and a daily dose time.
type Medicine struct {
	ID           string `json:"_id"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	StartDate    string `json:"startDate"`    // YYYY-MM-DD
	EndDate      string `json:"endDate"`      // YYYY-MM-DD
	MedicineTime string `json:"medicineTime"` // HH:MM, server-local
}

// Subscription is a browser push endpoint registered by one of a user's
// devices. The endpoint URL is globally unique and owned by exactly one user.
type Subscription struct {
	Endpoint  string    `json:"endpoint"`
	UserID    string    `json:"userId"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"createdAt"`
}
