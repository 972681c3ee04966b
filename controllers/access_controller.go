package controllers

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/party-inviter/config"
	"github.com/vnkhanh/party-inviter/models"
	"github.com/vnkhanh/party-inviter/utils"
)

type AccessReq struct {
	Password string `json:"password" binding:"required"`
}

// SubmitAccessPassword is the single password box of the landing page: the
// admin secret opens the dashboard, an event password opens that event.
// Which one failed is deliberately not revealed.
func SubmitAccessPassword(c *gin.Context) {
	var req AccessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password is required"})
		return
	}

	if adminPasswordValid(req.Password) {
		token, err := utils.GenerateAdminToken()
		if err != nil {
			log.Printf("Unable to sign admin token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to verify password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": "admin", "token": token})
		return
	}

	var events []models.Event
	if err := config.DB.Where("password_hash IS NOT NULL").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to verify password"})
		return
	}

	for _, event := range events {
		if event.PasswordHash == nil || !utils.CheckPassword(*event.PasswordHash, req.Password) {
			continue
		}
		guestToken, err := utils.GenerateGuestToken(event.ID, event.PasswordEpoch)
		if err != nil {
			log.Printf("Unable to sign guest token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to verify password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"type":       "event",
			"eventId":    event.ID,
			"shareToken": event.ShareToken,
			"guestToken": guestToken,
		})
		return
	}

	c.JSON(http.StatusUnauthorized, gin.H{"message": "No event or admin area matched that password. Please try again."})
}

// RefreshAdminToken re-issues an admin token for a caller that already
// holds a valid one.
func RefreshAdminToken(c *gin.Context) {
	token, err := utils.GenerateAdminToken()
	if err != nil {
		log.Printf("Unable to sign admin token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func adminPasswordValid(password string) bool {
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		return utils.CheckPassword(hash, password)
	}
	if secret := os.Getenv("ADMIN_PASSWORD"); secret != "" {
		return password == secret
	}
	return false
}
