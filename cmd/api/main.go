package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/studio622/booking-api/internal/handler"
	"github.com/studio622/booking-api/internal/middleware"
	"github.com/studio622/booking-api/internal/notify"
	"github.com/studio622/booking-api/internal/repository"
	"github.com/studio622/booking-api/internal/service"
	"github.com/studio622/booking-api/pkg/cache"
	"github.com/studio622/booking-api/pkg/config"
	"github.com/studio622/booking-api/pkg/database"
	"github.com/studio622/booking-api/pkg/logger"
	corsmiddleware "github.com/studio622/booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studio622/booking-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	loc, err := time.LoadLocation(cfg.Studio.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid studio timezone", "timezone", cfg.Studio.Timezone, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var notifier notify.Notifier = notify.NopNotifier{}
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, live updates disabled", "error", err)
	} else {
		notifier = notify.NewRedisNotifier(redisClient, cfg.Redis.Channel, logr)
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	bookingRepo := repository.NewBookingRepository(db)
	bookingSvc := service.NewBookingService(bookingRepo, notifier, validate, logr, metricsSvc, cfg.Studio.Name, loc)
	calendarSvc := service.NewCalendarService(bookingRepo, logr, cfg.Studio.Name, loc, cfg.Studio.OpenHour, cfg.Studio.CloseHour)
	exportSvc := service.NewExportService(bookingRepo, nil, nil, logr, cfg.Studio.Name, loc)
	feedSvc := service.NewFeedService(bookingRepo, logr, metricsSvc, cfg.Studio.Name, loc, service.FeedOptions{
		CalendarName: cfg.Feed.CalendarName,
		Timezone:     cfg.Studio.Timezone,
		Lookback:     cfg.Feed.Lookback,
	})

	bookingHandler := handler.NewBookingHandler(bookingSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc, exportSvc)
	feedHandler := handler.NewFeedHandler(feedSvc)
	eventsHandler := handler.NewEventsHandler(notifier)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	r.GET("/calendar.ics", feedHandler.Get)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings", bookingHandler.ListUpcoming)
		api.GET("/bookings/:id", bookingHandler.Get)
		api.DELETE("/bookings/:id", bookingHandler.Delete)
		api.GET("/schedule/:date", calendarHandler.Day)
		api.GET("/calendar/:year/:month", calendarHandler.Month)
		api.GET("/calendar/:year/:month/export", calendarHandler.Export)
		api.GET("/events", eventsHandler.Stream)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "studio", cfg.Studio.Name)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
