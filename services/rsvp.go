package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vnkhanh/party-inviter/models"
	"github.com/vnkhanh/party-inviter/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidStatus = errors.New("status must be attending or not-attending")
	ErrEmailConflict = errors.New("email already belongs to another guest of this event")
)

type RSVPInput struct {
	Name        string
	Status      string
	PlusOnes    int
	Comment     string
	Email       string
	ManageToken string
}

// SubmitRSVP applies one RSVP submission to the guest set of an event.
//
// Resolution order, first match wins: the guest holding the supplied manage
// token, else the guest holding the supplied email within the event, else a
// new guest. The whole operation runs in one transaction; a uniqueness race
// on insert is retried once as an update instead of surfacing.
func SubmitRSVP(db *gorm.DB, event *models.Event, in RSVPInput) (*models.Guest, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	if in.Status != models.GuestStatusAttending && in.Status != models.GuestStatusNotAttending {
		return nil, ErrInvalidStatus
	}
	if in.PlusOnes < 0 {
		in.PlusOnes = 0
	}

	// Email and plus-ones only mean something for an attending guest.
	in.Email = strings.TrimSpace(in.Email)
	if in.Status != models.GuestStatusAttending {
		in.PlusOnes = 0
		in.Email = ""
	}

	var result models.Guest
	err := db.Transaction(func(tx *gorm.DB) error {
		guest, err := resolveGuest(tx, event.ID, in)
		if err != nil {
			return err
		}

		now := time.Now()

		if guest != nil {
			// A manage-token match must not silently absorb another
			// guest's email.
			if in.Email != "" {
				var other models.Guest
				e := tx.Where("event_id = ? AND email = ? AND id <> ?", event.ID, in.Email, guest.ID).
					First(&other).Error
				if e == nil {
					return ErrEmailConflict
				}
				if !errors.Is(e, gorm.ErrRecordNotFound) {
					return e
				}
			}
			applyInput(guest, in, now)
			if err := tx.Save(guest).Error; err != nil {
				return err
			}
			result = *guest
			return nil
		}

		created := models.Guest{
			ID:          uuid.NewString(),
			EventID:     event.ID,
			ManageToken: in.ManageToken,
		}
		if created.ManageToken == "" {
			token, err := utils.GenerateManageToken()
			if err != nil {
				return err
			}
			created.ManageToken = token
		}
		applyInput(&created, in, now)

		// ON CONFLICT DO NOTHING instead of a bare insert: a uniqueness
		// race must not abort the transaction, it is finished as an
		// update of whichever row won.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&created)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			guest, rerr := resolveGuest(tx, event.ID, in)
			if rerr != nil {
				return rerr
			}
			if guest == nil {
				// Conflict on something we cannot resolve against, e.g.
				// a manage token already bound to another event.
				return gorm.ErrDuplicatedKey
			}
			applyInput(guest, in, now)
			if err := tx.Save(guest).Error; err != nil {
				return err
			}
			result = *guest
			return nil
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func resolveGuest(tx *gorm.DB, eventID string, in RSVPInput) (*models.Guest, error) {
	var guest models.Guest

	if in.ManageToken != "" {
		err := tx.Where("manage_token = ? AND event_id = ?", in.ManageToken, eventID).First(&guest).Error
		if err == nil {
			return &guest, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if in.Email != "" {
		err := tx.Where("event_id = ? AND email = ?", eventID, in.Email).First(&guest).Error
		if err == nil {
			return &guest, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, nil
}

// applyInput overwrites the mutable guest fields; id and manage token are
// preserved by the caller.
func applyInput(g *models.Guest, in RSVPInput, now time.Time) {
	g.Name = in.Name
	g.Status = in.Status
	g.PlusOnes = in.PlusOnes
	g.Comment = in.Comment
	if in.Email != "" {
		email := in.Email
		g.Email = &email
	} else {
		g.Email = nil
	}
	g.RespondedAt = now
}
