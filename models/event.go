package models

import "time"

type Event struct {
	ID              string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Title           string     `gorm:"column:title;size:255;not null" json:"title"`
	Host            string     `gorm:"column:host;size:255;not null" json:"host"`
	StartDate       time.Time  `gorm:"column:start_date;not null" json:"date"`
	EndDate         *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`
	Location        string     `gorm:"column:location;size:255;not null" json:"location"`
	Message         string     `gorm:"column:message;type:text" json:"message"`
	ShowGuestList   bool       `gorm:"column:show_guest_list;default:true" json:"showGuestList"`
	AllowShareLink  bool       `gorm:"column:allow_share_link;default:true" json:"allowShareLink"`
	PasswordHash    *string    `gorm:"column:password_hash;size:255" json:"-"`
	PasswordEpoch   int        `gorm:"column:password_epoch;not null;default:0" json:"-"`
	ThemeJSON       *string    `gorm:"column:theme_json;type:text" json:"-"`
	BackgroundImage *string    `gorm:"column:background_image;type:text" json:"backgroundImage,omitempty"`
	HeroImagesJSON  *string    `gorm:"column:hero_images_json;type:text" json:"-"`
	ShareToken      string     `gorm:"column:share_token;size:64;uniqueIndex;not null" json:"shareToken"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"-"`

	Guests []Guest `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

// PasswordProtected reports whether viewers must pass the password gate.
func (e *Event) PasswordProtected() bool {
	return e.PasswordHash != nil && *e.PasswordHash != ""
}
