// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/database"
	"escpos-service/internal/handler"
	"escpos-service/internal/middleware"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config     *config.Config
	logger     *zap.Logger
	db         *database.DB
	registry   *service.PrinterRegistry
	jobService *service.JobService
	eventBus   *handler.EventBus

	wsHandler *handler.WebSocketHandler
}

// NewRouter creates a new router instance. db may be nil.
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	db *database.DB,
	registry *service.PrinterRegistry,
	jobService *service.JobService,
	eventBus *handler.EventBus,
) *Router {
	return &Router{
		config:     config,
		logger:     logger,
		db:         db,
		registry:   registry,
		jobService: jobService,
		eventBus:   eventBus,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if r.config.IsDebugEnabled() {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	r.addMiddleware(router)
	r.addRoutes(router)
	return router
}

// Close disconnects WebSocket clients
func (r *Router) Close() {
	if r.wsHandler != nil {
		r.wsHandler.Close()
	}
}

func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	// inside logging so panics still produce a request log line
	router.Use(middleware.RecoveryMiddleware(r.logger))

	router.Use(middleware.CORSMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.db, r.registry, r.config, r.logger)
	printerHandler := handler.NewPrinterHandler(r.registry, r.logger)
	jobHandler := handler.NewJobHandler(r.jobService, r.logger)
	encodeHandler := handler.NewEncodeHandler(r.jobService, r.logger)
	r.wsHandler = handler.NewWebSocketHandler(r.eventBus, r.registry, r.config.Security.AllowedOrigins, r.logger)

	healthHandler.RegisterRoutes(&router.RouterGroup)

	apiV1 := router.Group("/api/v1")
	printerHandler.RegisterRoutes(apiV1)
	jobHandler.RegisterRoutes(apiV1)
	encodeHandler.RegisterRoutes(apiV1)

	r.wsHandler.RegisterRoutes(router.Group("/ws"))

	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
