package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/party-inviter/config"
	"github.com/vnkhanh/party-inviter/middleware"
	"github.com/vnkhanh/party-inviter/models"
	"github.com/vnkhanh/party-inviter/services"
	"github.com/vnkhanh/party-inviter/utils"
)

func eventGuests(db *gorm.DB, eventID string) ([]models.Guest, error) {
	var guests []models.Guest
	err := db.Where("event_id = ?", eventID).Order("responded_at DESC").Find(&guests).Error
	return guests, err
}

// GetPublicEvent returns the event behind a share token, projected for the
// caller's role. LoadEventAccess has already closed the password gate.
func GetPublicEvent(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)
	role := c.MustGet(middleware.CtxViewerRole).(services.ViewerRole)

	guests, err := eventGuests(config.DB, event.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load event"})
		return
	}

	resp := gin.H{"event": services.ProjectEvent(&event, guests, role)}
	if token, ok := c.Get(middleware.CtxGuestToken); ok {
		resp["guestToken"] = token
	}
	c.JSON(http.StatusOK, resp)
}

type EventAccessReq struct {
	Password   string `json:"password"`
	ShareToken string `json:"share_token"`
}

// AuthorizeEventAccess trades an event password (or, when the host allows
// it, the share link itself) for a guest-access token. Events without a
// password hand out a token unconditionally so later calls look the same
// either way.
func AuthorizeEventAccess(c *gin.Context) {
	shareToken := c.Param("shareToken")

	var event models.Event
	if err := config.DB.Where("share_token = ?", shareToken).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load event"})
		return
	}

	var req EventAccessReq
	if err := c.ShouldBindJSON(&req); err != nil && event.PasswordProtected() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password is required"})
		return
	}

	if event.PasswordProtected() {
		authorized := event.PasswordHash != nil && utils.CheckPassword(*event.PasswordHash, req.Password)
		if !authorized && event.AllowShareLink && req.ShareToken != "" {
			// Share-link bypass: knowing the link counts as knowing the
			// password, but only when the host opted in.
			authorized = req.ShareToken == event.ShareToken
		}
		if !authorized {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unable to unlock this event with those details"})
			return
		}
	}

	guestToken, err := utils.GenerateGuestToken(event.ID, event.PasswordEpoch)
	if err != nil {
		log.Printf("Unable to sign guest token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"guestToken": guestToken, "eventId": event.ID})
}
