package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/party-inviter/config"
	"github.com/vnkhanh/party-inviter/middleware"
	"github.com/vnkhanh/party-inviter/models"
	"github.com/vnkhanh/party-inviter/services"
	"github.com/vnkhanh/party-inviter/utils"
)

type RSVPReq struct {
	Name        string `json:"name" binding:"required"`
	Status      string `json:"status" binding:"required"`
	PlusOnes    int    `json:"plusOnes"`
	Comment     string `json:"comment"`
	Email       string `json:"email"`
	ManageToken string `json:"manageToken"`
}

// SubmitRSVP records one RSVP against the event behind :shareToken and
// returns the refreshed event view plus the guest's manage token for later
// self-service edits.
func SubmitRSVP(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)
	role := c.MustGet(middleware.CtxViewerRole).(services.ViewerRole)

	var req RSVPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name and valid status are required"})
		return
	}

	guest, err := services.SubmitRSVP(config.DB, &event, services.RSVPInput{
		Name:        req.Name,
		Status:      req.Status,
		PlusOnes:    req.PlusOnes,
		Comment:     req.Comment,
		Email:       req.Email,
		ManageToken: req.ManageToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNameRequired), errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Name and valid status are required"})
		case errors.Is(err, services.ErrEmailConflict):
			c.JSON(http.StatusConflict, gin.H{"message": "That email already belongs to another guest of this event"})
		default:
			log.Printf("Unable to process RSVP: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to submit RSVP"})
		}
		return
	}

	guests, err := eventGuests(config.DB, event.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to submit RSVP"})
		return
	}

	go utils.SendNotificationMail(rsvpNotification(&event, guest))

	resp := gin.H{
		"event":       services.ProjectEvent(&event, guests, role),
		"guest":       guest,
		"manageToken": guest.ManageToken,
	}
	if event.PasswordProtected() {
		if token, err := utils.GenerateGuestToken(event.ID, event.PasswordEpoch); err == nil {
			resp["guestToken"] = token
		}
	}
	c.JSON(http.StatusOK, resp)
}

func rsvpNotification(event *models.Event, guest *models.Guest) utils.Mail {
	verb := "attending"
	if guest.Status != models.GuestStatusAttending {
		verb = "not attending"
	}
	line := fmt.Sprintf("%s is %s", guest.Name, verb)
	if guest.PlusOnes > 0 {
		line += fmt.Sprintf(" with +%d", guest.PlusOnes)
	}
	comment := guest.Comment
	if comment == "" {
		comment = "-"
	}
	return utils.Mail{
		Subject: fmt.Sprintf("RSVP update for %s", event.Title),
		Text:    fmt.Sprintf("%s\nEvent: %s\nComment: %s", line, event.Title, comment),
		HTML: fmt.Sprintf("<p>%s</p><p><strong>Event:</strong> %s</p><p><strong>Comment:</strong> %s</p>",
			line, event.Title, comment),
	}
}
