package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vnkhanh/party-inviter/models"
	"github.com/vnkhanh/party-inviter/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Event{}, &models.Guest{}))
	return db
}

func newTestEvent(t *testing.T, db *gorm.DB) *models.Event {
	t.Helper()
	share, err := utils.GenerateShareToken()
	require.NoError(t, err)
	event := &models.Event{
		ID:         uuid.NewString(),
		Title:      "Housewarming",
		Host:       "Sam",
		StartDate:  time.Now().Add(48 * time.Hour),
		Location:   "Home",
		ShareToken: share,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func guestCount(t *testing.T, db *gorm.DB, eventID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Guest{}).Where("event_id = ?", eventID).Count(&count).Error)
	return count
}

func TestSubmitRSVPCreatesGuest(t *testing.T) {
	db := newTestDB(t)
	event := newTestEvent(t, db)

	guest, err := SubmitRSVP(db, event, RSVPInput{
		Name:     "Ann",
		Status:   models.GuestStatusAttending,
		PlusOnes: 2,
		Email:    "a@x.com",
		Comment:  "see you there",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, guest.ID)
	assert.NotEmpty(t, guest.ManageToken)
	assert.Equal(t, models.GuestStatusAttending, guest.Status)
	assert.Equal(t, 2, guest.PlusOnes)
	require.NotNil(t, guest.Email)
	assert.Equal(t, "a@x.com", *guest.Email)
	assert.False(t, guest.RespondedAt.IsZero())
	assert.Equal(t, int64(1), guestCount(t, db, event.ID))
}

func TestSubmitRSVPValidation(t *testing.T) {
	db := newTestDB(t)
	event := newTestEvent(t, db)

	_, err := SubmitRSVP(db, event, RSVPInput{Name: "  ", Status: models.GuestStatusAttending})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = SubmitRSVP(db, event, RSVPInput{Name: "Ann", Status: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// pending is reserved for admin-added guests, never accepted on submit
	_, err = SubmitRSVP(db, event, RSVPInput{Name: "Ann", Status: models.GuestStatusPending})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.Equal(t, int64(0), guestCount(t, db, event.ID))
}

func TestResubmitWithManageTokenIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	event := newTestEvent(t, db)

	first, err := SubmitRSVP(db, event, RSVPInput{
		Name:   "Ann",
		Status: models.GuestStatusAttending,
		Email:  "a@x.com",
	})
	require.NoError(t, err)

	second, err := SubmitRSVP(db, event, RSVPInput{
		Name:        "Ann",
		Status:      models.GuestStatusAttending,
		Email:       "a@x.com",
		ManageToken: first.ManageToken,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ManageToken, second.ManageToken)
	assert.False(t, second.RespondedAt.Before(first.RespondedAt))
	assert.Equal(t, int64(1), guestCount(t, db, event.ID))
}

func TestEmailReconciliation(t *testing.T) {
	db := newTestDB(t)
	event := newTestEvent(t, db)

	first, err := SubmitRSVP(db, event, RSVPInput{
		Name:     "Ann",
		Status:   models.GuestStatusAttending,
		PlusOnes: 1,
		Email:    "a@x.com",
	})
	require.NoError(t, err)

	// Same email, no manage token: must update the same record.
	second, err := SubmitRSVP(db, event, RSVPInput{
		Name:   "Ann",
		Status: models.GuestStatusNotAttending,
		Email:  "a@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.GuestStatusNotAttending, second.Status)
	assert.Equal(t, 0, second.PlusOnes, "plus-ones are zeroed for non-attending guests")
	assert.Nil(t, second.Email, "email is dropped for non-attending guests")
	assert.Equal(t, int64(1), guestCount(t, db, event.ID))
}

func TestNotAttendingNormalization(t *testing.T) {
	db := newTestDB(t)
	event := newTestEvent(t, db)

	guest, err := SubmitRSVP(db, event, RSVPInput{
		Name:     "Bo",
		Status:   models.GuestStatusNotAttending,
		PlusOnes: 3,
		Email:    "bo@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, guest.PlusOnes)
	assert.Nil(t, guest.Email)
}

func TestSameEmailAcrossEventsStaysSeparate(t *testing.T) {
	db := newTestDB(t)
	e1 := newTestEvent(t, db)
	e2 := newTestEvent(t, db)

	g1, err := SubmitRSVP(db, e1, RSVPInput{Name: "Ann", Status: models.GuestStatusAttending, Email: "a@x.com"})
	require.NoError(t, err)

	g2, err := SubmitRSVP(db, e2, RSVPInput{Name: "Ann", Status: models.GuestStatusAttending, Email: "a@x.com"})
	require.NoError(t, err)

	assert.NotEqual(t, g1.ID, g2.ID)
	assert.Equal(t, int64(1), guestCount(t, db, e1.ID))
	assert.Equal(t, int64(1), guestCount(t, db, e2.ID))

	// A later submission for e2 must never touch e1's guest.
	_, err = SubmitRSVP(db, e2, RSVPInput{Name: "Ann", Status: models.GuestStatusNotAttending, Email: "a@x.com"})
	require.NoError(t, err)

	var untouched models.Guest
	require.NoError(t, db.First(&untouched, "id = ?", g1.ID).Error)
	assert.Equal(t, models.GuestStatusAttending, untouched.Status)
}

func TestPendingGuestRoundTrip(t *testing.T) {
	db := newTestDB(t)
	event := newTestEvent(t, db)

	// Admin pre-provisions a pending guest with a manage token.
	manageToken, err := utils.GenerateManageToken()
	require.NoError(t, err)
	pending := models.Guest{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		Name:        "Cleo",
		Status:      models.GuestStatusPending,
		RespondedAt: time.Now(),
		ManageToken: manageToken,
	}
	require.NoError(t, db.Create(&pending).Error)

	guest, err := SubmitRSVP(db, event, RSVPInput{
		Name:        "Cleo",
		Status:      models.GuestStatusAttending,
		PlusOnes:    1,
		ManageToken: manageToken,
	})
	require.NoError(t, err)

	assert.Equal(t, pending.ID, guest.ID, "the pending record converts, no new row")
	assert.Equal(t, manageToken, guest.ManageToken)
	assert.Equal(t, models.GuestStatusAttending, guest.Status)
	assert.Equal(t, int64(1), guestCount(t, db, event.ID))
}

func TestSuppliedManageTokenIsKeptOnCreate(t *testing.T) {
	db := newTestDB(t)
	event := newTestEvent(t, db)

	guest, err := SubmitRSVP(db, event, RSVPInput{
		Name:        "Dia",
		Status:      models.GuestStatusAttending,
		ManageToken: "preprovisioned-token",
	})
	require.NoError(t, err)
	assert.Equal(t, "preprovisioned-token", guest.ManageToken)
}

func TestManageTokenSubmissionWithForeignEmailConflicts(t *testing.T) {
	db := newTestDB(t)
	event := newTestEvent(t, db)

	_, err := SubmitRSVP(db, event, RSVPInput{Name: "Ann", Status: models.GuestStatusAttending, Email: "a@x.com"})
	require.NoError(t, err)

	other, err := SubmitRSVP(db, event, RSVPInput{Name: "Bo", Status: models.GuestStatusAttending})
	require.NoError(t, err)

	// Bo edits via manage token but claims Ann's email: rejected, not merged.
	_, err = SubmitRSVP(db, event, RSVPInput{
		Name:        "Bo",
		Status:      models.GuestStatusAttending,
		Email:       "a@x.com",
		ManageToken: other.ManageToken,
	})
	assert.ErrorIs(t, err, ErrEmailConflict)

	var bo models.Guest
	require.NoError(t, db.First(&bo, "id = ?", other.ID).Error)
	assert.Nil(t, bo.Email, "failed submission leaves the record untouched")
}

func TestInsertRaceRetriesAsUpdate(t *testing.T) {
	db := newTestDB(t)
	event := newTestEvent(t, db)
	email := "race@x.com"

	// Sneak a competing row in right before the engine's insert, after its
	// lookup already came back empty: the insert then trips the unique
	// index and must be retried as an update of the surviving row.
	winnerID := uuid.NewString()
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("test_race", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "guests" {
			return
		}
		raced = true
		competing := models.Guest{
			ID:          winnerID,
			EventID:     event.ID,
			Name:        "First",
			Status:      models.GuestStatusAttending,
			Email:       &email,
			RespondedAt: time.Now(),
			ManageToken: "winner-token",
		}
		tx.Session(&gorm.Session{NewDB: true}).Create(&competing)
	})
	require.NoError(t, err)

	guest, err := SubmitRSVP(db, event, RSVPInput{
		Name:   "Second",
		Status: models.GuestStatusAttending,
		Email:  email,
	})
	require.NoError(t, err)

	assert.True(t, raced)
	assert.Equal(t, winnerID, guest.ID, "loser's insert folds into the winner's row")
	assert.Equal(t, "Second", guest.Name)
	assert.Equal(t, "winner-token", guest.ManageToken)
	assert.Equal(t, int64(1), guestCount(t, db, event.ID))
}
