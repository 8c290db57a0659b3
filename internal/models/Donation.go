package models

import "time"

type DonationType string

const (
	DonationOrphan    DonationType = "orphan"
	DonationOrphanage DonationType = "orphanage"
	DonationCampaign  DonationType = "campaign"
	DonationDisaster  DonationType = "disaster"
)

func (t DonationType) Valid() bool {
	switch t {
	case DonationOrphan, DonationOrphanage, DonationCampaign, DonationDisaster:
		return true
	}
	return false
}

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
)

// PaymentMethods offered by the donation form.
var PaymentMethods = []string{"mpesa", "airtel", "tigo", "card"}

// Donation is never edited client side; Status is whatever the server last said.
type Donation struct {
	ID            string         `json:"id"`
	Amount        float64        `json:"amount"`
	DonorID       string         `json:"donorId"`
	DonorName     string         `json:"donorName"`
	DonationType  DonationType   `json:"donationType"`
	TargetID      string         `json:"targetId"`
	TargetName    string         `json:"targetName"`
	PaymentMethod string         `json:"paymentMethod"`
	TransactionID string         `json:"transactionId"`
	Message       string         `json:"message,omitempty"`
	IsAnonymous   bool           `json:"isAnonymous"`
	Status        DonationStatus `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type DonationInput struct {
	Amount        float64      `json:"amount"`
	DonationType  DonationType `json:"donationType"`
	TargetID      string       `json:"targetId"`
	PaymentMethod string       `json:"paymentMethod"`
	Message       string       `json:"message,omitempty"`
	IsAnonymous   bool         `json:"isAnonymous"`
}
