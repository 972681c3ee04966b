package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/party-inviter/controllers"
	"github.com/vnkhanh/party-inviter/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/access", controllers.SubmitAccessPassword)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthAdmin())
		{
			admin.POST("/token", controllers.RefreshAdminToken)
			admin.GET("/events", controllers.ListEvents)
			admin.POST("/events", controllers.CreateEvent)
			admin.PUT("/events/:eventId", controllers.UpdateEvent)
			admin.DELETE("/events/:eventId", controllers.DeleteEvent)
			admin.GET("/events/:eventId/guests", controllers.ListGuestsForEvent)
			admin.POST("/events/:eventId/guests", controllers.AddGuest)
			admin.DELETE("/events/:eventId/guests/:guestId", controllers.RemoveGuest)
		}

		public := api.Group("/public/events/:shareToken")
		{
			public.POST("/access", controllers.AuthorizeEventAccess)
			public.GET("", middleware.LoadEventAccess(), controllers.GetPublicEvent)
			public.POST("/rsvps", middleware.LoadEventAccess(), controllers.SubmitRSVP)
		}
	}
}
