package models

import "time"

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
	CampaignDraft     CampaignStatus = "draft"
)

// Campaign is a fundraising drive. CurrentAmount only grows as donations post on the server.
type Campaign struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	TargetAmount  float64        `json:"targetAmount"`
	CurrentAmount float64        `json:"currentAmount"`
	StartDate     time.Time      `json:"startDate"`
	EndDate       time.Time      `json:"endDate"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	Status        CampaignStatus `json:"status"`
	CreatorID     string         `json:"creatorId"`
	CreatorType   string         `json:"creatorType"` // "admin", "orphanage"
	OrphanageID   string         `json:"orphanageId,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type CampaignInput struct {
	Title        string         `json:"title" binding:"required"`
	Description  string         `json:"description"`
	TargetAmount float64        `json:"targetAmount" binding:"required,gt=0"`
	StartDate    time.Time      `json:"startDate"`
	EndDate      time.Time      `json:"endDate"`
	ImageURL     string         `json:"imageUrl,omitempty"`
	Status       CampaignStatus `json:"status,omitempty"`
	OrphanageID  string         `json:"orphanageId,omitempty"`
}
