package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/groomroute/backend/internal/config"
	"github.com/groomroute/backend/internal/db"
	"github.com/groomroute/backend/internal/geocode"
	"github.com/groomroute/backend/internal/http/handlers"
	"github.com/groomroute/backend/internal/http/middleware"

	_ "github.com/groomroute/backend/docs"
)

func Router(cfg config.Config, store *db.Store, geocoder geocode.Geocoder, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Account-Id", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Geocoder:  geocoder,
		Validator: validator.New(),
		Logger:    logger,
		Cfg:       cfg,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	api.Use(middleware.AccountScope())
	{
		api.GET("/groomers/:id/slots", h.Slots)
		api.GET("/groomers/:id/hours/check", h.HoursCheck)
		api.GET("/groomers/:id/conflicts", h.Conflicts)
		api.GET("/groomers/:id/large-dogs", h.LargeDogs)
		api.POST("/groomers/:id/reorder", h.Reorder)
		api.GET("/groomers/:id/breaks", h.BreaksOverview)
		api.POST("/groomers/:id/breaks", h.CreateBreak)
		api.POST("/groomers/:id/breaks/:breakID/complete", h.CompleteBreak)
		api.POST("/groomers/:id/route", h.RouteUpsert)
		api.GET("/groomers/:id/area", h.GroomerArea)
		api.GET("/groomers/:id/areas", h.GroomerAreaRange)
		api.GET("/groomers/:id/areas/:areaID/next-date", h.NextAreaDate)
		api.POST("/customers/:id/match-area", h.MatchCustomerArea)
		api.POST("/customers/:id/skip", h.SkipAppointment)
		api.GET("/customers/:id/events", h.CustomerEvents)
		api.GET("/watchlist/suggestions", h.WatchlistSuggestions)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
