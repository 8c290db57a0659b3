package models

type EventStatus string

const (
	EventUpcoming EventStatus = "upcoming"
	EventOngoing  EventStatus = "ongoing"
	EventEnded    EventStatus = "ended"
)

// Event is a fundraising or community event. Date and Time are kept as the
// server formats them; the API does not send a combined timestamp.
type Event struct {
	ID                  string      `json:"id"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Date                string      `json:"date"`
	Time                string      `json:"time"`
	Location            string      `json:"location"`
	ImageURL            string      `json:"imageUrl,omitempty"`
	MaxParticipants     *int        `json:"maxParticipants,omitempty"`
	CurrentParticipants int         `json:"currentParticipants"`
	RegistrationFee     *float64    `json:"registrationFee,omitempty"`
	Status              EventStatus `json:"status"`
}

// Full reports whether the event has a capacity and has reached it.
func (e Event) Full() bool {
	return e.MaxParticipants != nil && e.CurrentParticipants >= *e.MaxParticipants
}
