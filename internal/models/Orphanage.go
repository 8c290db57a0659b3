// internal/models/orphanage.go
package models

import "time"

// Orphanage is a registered care home. Orphans is only populated by the detail endpoint.
type Orphanage struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	License     string    `json:"license,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	ManagerID   string    `json:"managerId"`
	OrphanCount int       `json:"orphanCount"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Orphans []Orphan `json:"orphans,omitempty"`
}

type Orphan struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Age             int       `json:"age"`
	Gender          string    `json:"gender"`
	Story           string    `json:"story"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	HealthStatus    string    `json:"healthStatus"`
	EducationStatus string    `json:"educationStatus"`
	IsSponsored     bool      `json:"isSponsored"`
	SponsorID       string    `json:"sponsorId,omitempty"`
	OrphanageID     string    `json:"orphanageId"`
	NeedsUrgentHelp bool      `json:"needsUrgentHelp"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// OrphanageInput is the registration form body for POST /orphanages.
type OrphanageInput struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email" binding:"required,email"`
	Description string `json:"description"`
	License     string `json:"license,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// OrphanInput is the body for POST /orphanages/:id/orphans.
type OrphanInput struct {
	Name            string `json:"name" binding:"required"`
	Age             int    `json:"age"`
	Gender          string `json:"gender"`
	Story           string `json:"story"`
	ImageURL        string `json:"imageUrl,omitempty"`
	HealthStatus    string `json:"healthStatus"`
	EducationStatus string `json:"educationStatus"`
	NeedsUrgentHelp bool   `json:"needsUrgentHelp"`
}
