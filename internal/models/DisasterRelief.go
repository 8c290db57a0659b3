package models

import "time"

type UrgencyLevel string

const (
	UrgencyHigh   UrgencyLevel = "high"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyLow    UrgencyLevel = "low"
)

// DisasterRelief is an emergency appeal; same money semantics as Campaign.
type DisasterRelief struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Location      string         `json:"location"`
	TargetAmount  float64        `json:"targetAmount"`
	CurrentAmount float64        `json:"currentAmount"`
	StartDate     time.Time      `json:"startDate"`
	EndDate       time.Time      `json:"endDate"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	Status        CampaignStatus `json:"status"` // "active", "completed", "cancelled"
	UrgencyLevel  UrgencyLevel   `json:"urgencyLevel"`
	AffectedCount int            `json:"affectedCount"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type DisasterInput struct {
	Title         string       `json:"title" binding:"required"`
	Description   string       `json:"description"`
	Location      string       `json:"location" binding:"required"`
	TargetAmount  float64      `json:"targetAmount" binding:"required,gt=0"`
	StartDate     time.Time    `json:"startDate"`
	EndDate       time.Time    `json:"endDate"`
	ImageURL      string       `json:"imageUrl,omitempty"`
	UrgencyLevel  UrgencyLevel `json:"urgencyLevel" binding:"required,oneof=high medium low"`
	AffectedCount int          `json:"affectedCount"`
}
