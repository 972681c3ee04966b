package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/party-inviter/config"
	"github.com/vnkhanh/party-inviter/models"
	"github.com/vnkhanh/party-inviter/utils"
)

func adminEvent(c *gin.Context) (*models.Event, bool) {
	var event models.Event
	if err := config.DB.First(&event, "id = ?", c.Param("eventId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load event"})
		}
		return nil, false
	}
	return &event, true
}

// ListGuestsForEvent returns the raw guest list including manage tokens, so
// the dashboard can build per-guest invite links.
func ListGuestsForEvent(c *gin.Context) {
	event, ok := adminEvent(c)
	if !ok {
		return
	}

	guests, err := eventGuests(config.DB, event.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to list guests"})
		return
	}

	c.JSON(http.StatusOK, guests)
}

type AddGuestReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// AddGuest provisions a pending guest with a manage token that an invite
// link can carry; the guest's first RSVP through that token turns the same
// record into a real response.
func AddGuest(c *gin.Context) {
	event, ok := adminEvent(c)
	if !ok {
		return
	}

	var req AddGuestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	manageToken, err := utils.GenerateManageToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to add guest"})
		return
	}

	guest := models.Guest{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		Name:        strings.TrimSpace(req.Name),
		Status:      models.GuestStatusPending,
		Comment:     "",
		RespondedAt: time.Now(),
		ManageToken: manageToken,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		guest.Email = &email
	}

	if err := config.DB.Create(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "A guest with that email already exists for this event"})
			return
		}
		log.Printf("Unable to add guest: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to add guest"})
		return
	}

	go utils.SendNotificationMail(inviteNotification(event, &guest))

	c.JSON(http.StatusCreated, guest)
}

func RemoveGuest(c *gin.Context) {
	event, ok := adminEvent(c)
	if !ok {
		return
	}

	result := config.DB.Where("id = ? AND event_id = ?", c.Param("guestId"), event.ID).Delete(&models.Guest{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to remove guest"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func inviteNotification(event *models.Event, guest *models.Guest) utils.Mail {
	base := strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	link := fmt.Sprintf("%s/e/%s?manage=%s", base, event.ShareToken, guest.ManageToken)
	return utils.Mail{
		Subject: fmt.Sprintf("Invite link for %s", event.Title),
		Text:    fmt.Sprintf("%s was added to %s.\nInvite link: %s", guest.Name, event.Title, link),
		HTML: fmt.Sprintf("<p>%s was added to <strong>%s</strong>.</p><p><a href=%q>Invite link</a></p>",
			guest.Name, event.Title, link),
	}
}
