package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SindhuAbhirami/civic-watch/config"
	"github.com/SindhuAbhirami/civic-watch/controllers"
	"github.com/SindhuAbhirami/civic-watch/services"
	"github.com/SindhuAbhirami/civic-watch/storage"
)

type Deps struct {
	Settings  config.Settings
	Identity  *services.Identity
	Engine    *services.IssueEngine
	Projector *services.Projector
	Photos    *storage.Photos
	Redis     *redis.Client
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// NewRouter wires every route onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(d.Settings.CORSOrigins)))
	r.MaxMultipartMemory = 8 << 20

	r.Static("/uploads", d.Settings.UploadsDir)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	AuthRoutes(r, &controllers.AuthController{Identity: d.Identity, Photos: d.Photos, Settings: d.Settings})
	UserRoutes(r, &controllers.UserController{Identity: d.Identity})
	IssueRoutes(r, &controllers.IssueController{Engine: d.Engine, Projector: d.Projector, Photos: d.Photos}, d.Redis, d.Settings)

	return r
}
