package services

import (
	"encoding/json"
	"time"

	"github.com/vnkhanh/party-inviter/models"
)

type ViewerRole string

const (
	RoleAdmin  ViewerRole = "admin"
	RoleGuest  ViewerRole = "guest"
	RolePublic ViewerRole = "public"
)

// EventView is the event shape returned to callers, with the guest list
// filtered for the viewer's role.
type EventView struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Host              string          `json:"host"`
	Date              time.Time       `json:"date"`
	EndDate           *time.Time      `json:"endDate,omitempty"`
	Location          string          `json:"location"`
	Message           string          `json:"message"`
	ShowGuestList     bool            `json:"showGuestList"`
	AllowShareLink    bool            `json:"allowShareLink"`
	PasswordProtected bool            `json:"passwordProtected"`
	Theme             json.RawMessage `json:"theme,omitempty"`
	BackgroundImage   *string         `json:"backgroundImage,omitempty"`
	HeroImages        json.RawMessage `json:"heroImages,omitempty"`
	ShareToken        string          `json:"shareToken"`
	AttendeeCount     int             `json:"attendeeCount"`
	Guests            []models.Guest  `json:"guests"`
}

// AttendeeCount is the headcount of attending guests plus their plus-ones.
// It is computed regardless of guest-list visibility.
func AttendeeCount(guests []models.Guest) int {
	count := 0
	for _, g := range guests {
		if g.Status == models.GuestStatusAttending {
			count += 1 + g.PlusOnes
		}
	}
	return count
}

// ProjectEvent builds the event view a given caller is allowed to see.
// Admins get every guest field including manage tokens; everyone else gets
// manage tokens stripped, and no list at all when the host hides it.
func ProjectEvent(event *models.Event, guests []models.Guest, role ViewerRole) EventView {
	view := EventView{
		ID:                event.ID,
		Title:             event.Title,
		Host:              event.Host,
		Date:              event.StartDate,
		EndDate:           event.EndDate,
		Location:          event.Location,
		Message:           event.Message,
		ShowGuestList:     event.ShowGuestList,
		AllowShareLink:    event.AllowShareLink,
		PasswordProtected: event.PasswordProtected(),
		BackgroundImage:   event.BackgroundImage,
		ShareToken:        event.ShareToken,
		AttendeeCount:     AttendeeCount(guests),
		Guests:            projectGuests(event, guests, role),
	}
	if event.ThemeJSON != nil && *event.ThemeJSON != "" {
		view.Theme = json.RawMessage(*event.ThemeJSON)
	}
	if event.HeroImagesJSON != nil && *event.HeroImagesJSON != "" {
		view.HeroImages = json.RawMessage(*event.HeroImagesJSON)
	}
	return view
}

func projectGuests(event *models.Event, guests []models.Guest, role ViewerRole) []models.Guest {
	if role == RoleAdmin {
		return guests
	}
	if !event.ShowGuestList {
		return []models.Guest{}
	}
	sanitized := make([]models.Guest, len(guests))
	for i, g := range guests {
		g.ManageToken = ""
		sanitized[i] = g
	}
	return sanitized
}
