package api

import (
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	PublicDir string
	ViewsDir  string
}

func NewRouter(app App, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Logger(),
		RequestIDMiddleware(),
		ErrorMiddleware(app.Logger()),
		gin.CustomRecovery(RecoveryHandler(app.Logger())),
		cors.Default(),
	)

	landing := func(c *gin.Context) {
		c.File(filepath.Join(cfg.ViewsDir, "index.html"))
	}
	r.GET("/", landing)
	r.HEAD("/", landing)

	exercise := r.Group("/api/exercise")
	exercise.POST("/new-user", PostNewUser(app))
	exercise.GET("/users", GetUsers(app))
	exercise.POST("/add", PostExercise(app))
	exercise.GET("/log", GetLog(app))

	r.NoRoute(NotFound(cfg.PublicDir))

	return r
}
