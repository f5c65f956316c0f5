package http

import (
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatpdf/internal/bootstrap"
	"chatpdf/internal/transport/http/handler"
	"chatpdf/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(app.Logger),
		middleware.Metrics(),
		cors.Default(),
	)

	healthHandler := handler.NewHealthHandler(app)
	clientConfigHandler := handler.NewClientConfigHandler(app.Config.Client)
	documentHandler := handler.NewDocumentHandler(app.Documents)

	router.StaticFile("/", filepath.Join(app.Config.App.WebDir, "index.html"))
	router.GET("/client-config", clientConfigHandler.Get)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/upload", documentHandler.Upload)
	router.POST("/ask", documentHandler.Ask)

	return router
}
