package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/party-inviter/config"
	"github.com/vnkhanh/party-inviter/models"
	"github.com/vnkhanh/party-inviter/services"
	"github.com/vnkhanh/party-inviter/utils"
)

type EventReq struct {
	Title           string          `json:"title" binding:"required"`
	Host            string          `json:"host" binding:"required"`
	Date            time.Time       `json:"date" binding:"required"`
	EndDate         *time.Time      `json:"endDate"`
	Location        string          `json:"location" binding:"required"`
	Message         string          `json:"message"`
	ShowGuestList   *bool           `json:"showGuestList"`
	AllowShareLink  *bool           `json:"allowShareLink"`
	Password        string          `json:"password"`
	RemovePassword  bool            `json:"removePassword"`
	Theme           json.RawMessage `json:"theme"`
	BackgroundImage *string         `json:"backgroundImage"`
	HeroImages      json.RawMessage `json:"heroImages"`
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

func rawToText(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	s := string(raw)
	return &s
}

// ListEvents returns every event with its full guest list, newest first.
func ListEvents(c *gin.Context) {
	var events []models.Event
	if err := config.DB.Order("created_at DESC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to list events"})
		return
	}

	views := []services.EventView{}
	for i := range events {
		guests, err := eventGuests(config.DB, events[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to list events"})
			return
		}
		views = append(views, services.ProjectEvent(&events[i], guests, services.RoleAdmin))
	}

	c.JSON(http.StatusOK, views)
}

func CreateEvent(c *gin.Context) {
	var req EventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	shareToken, err := utils.GenerateShareToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create event"})
		return
	}

	event := models.Event{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Host:            req.Host,
		StartDate:       req.Date,
		EndDate:         req.EndDate,
		Location:        req.Location,
		Message:         req.Message,
		ShowGuestList:   boolOr(req.ShowGuestList, true),
		AllowShareLink:  boolOr(req.AllowShareLink, true),
		ThemeJSON:       rawToText(req.Theme),
		BackgroundImage: req.BackgroundImage,
		HeroImagesJSON:  rawToText(req.HeroImages),
		ShareToken:      shareToken,
	}

	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create event"})
			return
		}
		event.PasswordHash = &hash
	}

	if err := config.DB.Create(&event).Error; err != nil {
		log.Printf("Unable to create event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create event"})
		return
	}

	c.JSON(http.StatusCreated, services.ProjectEvent(&event, nil, services.RoleAdmin))
}

// UpdateEvent replaces the host-owned fields wholesale; there is no partial
// update. Setting or removing the password bumps the password epoch, which
// invalidates every guest token issued before the change.
func UpdateEvent(c *gin.Context) {
	eventID := c.Param("eventId")

	var event models.Event
	if err := config.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to update event"})
		return
	}

	var req EventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	event.Title = req.Title
	event.Host = req.Host
	event.StartDate = req.Date
	event.EndDate = req.EndDate
	event.Location = req.Location
	event.Message = req.Message
	event.ShowGuestList = boolOr(req.ShowGuestList, event.ShowGuestList)
	event.AllowShareLink = boolOr(req.AllowShareLink, event.AllowShareLink)
	event.ThemeJSON = rawToText(req.Theme)
	event.BackgroundImage = req.BackgroundImage
	event.HeroImagesJSON = rawToText(req.HeroImages)

	if req.RemovePassword {
		if event.PasswordHash != nil {
			event.PasswordHash = nil
			event.PasswordEpoch++
		}
	} else if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to update event"})
			return
		}
		event.PasswordHash = &hash
		event.PasswordEpoch++
	}

	if err := config.DB.Save(&event).Error; err != nil {
		log.Printf("Unable to update event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to update event"})
		return
	}

	guests, err := eventGuests(config.DB, event.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to update event"})
		return
	}

	c.JSON(http.StatusOK, services.ProjectEvent(&event, guests, services.RoleAdmin))
}

// DeleteEvent removes the event and all of its guests.
func DeleteEvent(c *gin.Context) {
	eventID := c.Param("eventId")

	var event models.Event
	if err := config.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to delete event"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Guest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		log.Printf("Unable to delete event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to delete event"})
		return
	}

	c.Status(http.StatusNoContent)
}
