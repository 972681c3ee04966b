package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/vnkhanh/party-inviter/config"
	"github.com/vnkhanh/party-inviter/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	config.ConnectDB()

	r := gin.Default()

	corsOrigins := os.Getenv("CORS_ORIGINS")
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if corsOrigins == "" {
				return true
			}
			for _, allowed := range strings.Split(corsOrigins, ",") {
				if allowed != "" && origin == strings.TrimSpace(allowed) {
					return true
				}
			}
			return false
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("Party Inviter server listening on port %s\n", port)
	r.Run(":" + port)
}
