package models

import "time"

const (
	GuestStatusAttending    = "attending"
	GuestStatusNotAttending = "not-attending"
	GuestStatusPending      = "pending" // admin-added, no response yet
)

type Guest struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	EventID     string    `gorm:"column:event_id;type:varchar(36);not null;uniqueIndex:idx_guest_event_email" json:"-"`
	Name        string    `gorm:"column:name;size:255;not null" json:"name"`
	PlusOnes    int       `gorm:"column:plus_ones;not null;default:0" json:"plusOnes"`
	Comment     string    `gorm:"column:comment;type:text;not null;default:''" json:"comment"`
	Email       *string   `gorm:"column:email;size:255;uniqueIndex:idx_guest_event_email" json:"email,omitempty"`
	Status      string    `gorm:"column:status;size:20;not null" json:"status"`
	RespondedAt time.Time `gorm:"column:responded_at;not null" json:"respondedAt"`
	ManageToken string    `gorm:"column:manage_token;size:64;uniqueIndex;not null" json:"manageToken,omitempty"`
}

func (Guest) TableName() string {
	return "guests"
}
