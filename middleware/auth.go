package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/party-inviter/config"
	"github.com/vnkhanh/party-inviter/models"
	"github.com/vnkhanh/party-inviter/services"
	"github.com/vnkhanh/party-inviter/utils"
)

const (
	CtxEvent      = "eventObj"
	CtxViewerRole = "viewerRole"
	CtxGuestToken = "guestToken"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// AuthAdmin guards the admin routes: Authorization: Bearer <admin JWT>.
func AuthAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Admin authorization required"})
			return
		}

		if _, err := utils.VerifyAdminToken(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid admin token"})
			return
		}

		c.Next()
	}
}

// LoadEventAccess resolves :shareToken, decides the viewer's role and puts
// event + role into the context. For a password-protected event the caller
// must present an admin token or a guest token scoped to that event; a
// missing, invalid, expired or mis-scoped token all fail the same way so
// nothing leaks about which check tripped.
func LoadEventAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		shareToken := c.Param("shareToken")

		var event models.Event
		if err := config.DB.Where("share_token = ?", shareToken).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Unable to load event"})
			return
		}
		c.Set(CtxEvent, event)

		token := bearerToken(c)

		// Admin bypasses every per-event password.
		if token != "" {
			if _, err := utils.VerifyAdminToken(token); err == nil {
				c.Set(CtxViewerRole, services.RoleAdmin)
				c.Next()
				return
			}
		}

		if !event.PasswordProtected() {
			c.Set(CtxViewerRole, services.RolePublic)
			c.Next()
			return
		}

		if token != "" {
			if _, err := utils.VerifyGuestToken(token, event.ID, event.PasswordEpoch); err == nil {
				c.Set(CtxViewerRole, services.RoleGuest)
				c.Set(CtxGuestToken, token)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"requiresPassword": true,
			"message":          "Password required for this event",
		})
	}
}
