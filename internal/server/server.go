// Package server wires repositories, services and handlers into the HTTP router.
package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/routine-api/api/swagger"
	"github.com/noah-isme/routine-api/internal/handler"
	"github.com/noah-isme/routine-api/internal/middleware"
	"github.com/noah-isme/routine-api/internal/repository"
	"github.com/noah-isme/routine-api/internal/service"
	"github.com/noah-isme/routine-api/pkg/config"
	"github.com/noah-isme/routine-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/routine-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/routine-api/pkg/middleware/requestid"
)

// App is the fully wired application.
type App struct {
	Teachers *service.TeacherService
	Rooms    *service.RoomService
	Sections *service.SectionService
	Courses  *service.CourseService
	Schedule *service.ScheduleService
	Settings *service.SettingsService
	Exports  *service.ExportService
	Auth     *service.AuthService
	Metrics  *service.MetricsService
	Router   *gin.Engine
}

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth     *handler.AuthHandler
	Schedule *handler.ScheduleHandler
	Routine  *handler.RoutineHandler
	Teachers *handler.TeacherHandler
	Rooms    *handler.RoomHandler
	Sections *handler.SectionHandler
	Courses  *handler.CourseHandler
	Settings *handler.SettingsHandler
	Health   *handler.MetricsHandler
}

// Build constructs every layer on top of db. redisClient may be nil, which
// disables the view cache.
func Build(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client) *App {
	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, cfg.Cache.Prefix, logr)
	}
	cache := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, redisClient != nil)

	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sessionRepo := repository.NewScheduleRepository(db)

	settings := service.NewSettingsService(repository.NewSettingsRepository(db), cache, cfg.Routine.DefaultSemester, validate, logr)
	reference := service.NewReferenceData(teacherRepo, roomRepo, sectionRepo, courseRepo)
	schedule := service.NewScheduleService(sessionRepo, reference, settings, cache, metrics, validate, logr)

	app := &App{
		Teachers: service.NewTeacherService(teacherRepo, settings, validate, logr),
		Rooms:    service.NewRoomService(roomRepo, settings, validate, logr),
		Sections: service.NewSectionService(sectionRepo, settings, validate, logr),
		Courses:  service.NewCourseService(courseRepo, settings, validate, logr),
		Schedule: schedule,
		Settings: settings,
		Exports:  service.NewExportService(schedule, reference, sessionRepo, metrics, logr),
		Auth: service.NewAuthService(validate, logr, service.AuthConfig{
			AdminEmail:        cfg.Admin.Email,
			AdminPasswordHash: cfg.Admin.PasswordHash,
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		}),
		Metrics: metrics,
	}

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["cache"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	app.Router = NewRouter(cfg, logr, metrics, app.Auth, Handlers{
		Auth:     handler.NewAuthHandler(app.Auth),
		Schedule: handler.NewScheduleHandler(schedule),
		Routine:  handler.NewRoutineHandler(schedule, settings, app.Exports),
		Teachers: handler.NewTeacherHandler(app.Teachers),
		Rooms:    handler.NewRoomHandler(app.Rooms),
		Sections: handler.NewSectionHandler(app.Sections),
		Courses:  handler.NewCourseHandler(app.Courses),
		Settings: handler.NewSettingsHandler(settings),
		Health:   handler.NewMetricsHandler(metrics, checks),
	})
	return app
}

// NewRouter mounts the probes at the root and the API under cfg.APIPrefix.
// Everything below <prefix>/admin requires an admin token.
func NewRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, auth *service.AuthService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	r.GET("/metrics", h.Health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/catalog", h.Routine.Catalog)
	api.GET("/routine", h.Routine.Routine)
	api.GET("/routine/export", h.Routine.Export)
	api.GET("/rooms/free", h.Routine.FreeRooms)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(auth))

	admin.GET("/routine", h.Routine.Preview)
	admin.GET("/settings", h.Settings.Get)
	admin.PUT("/settings", h.Settings.Update)

	sessions := admin.Group("/sessions")
	sessions.GET("", h.Schedule.List)
	sessions.POST("", h.Schedule.Create)
	sessions.POST("/validate", h.Schedule.Validate)
	sessions.GET("/:id", h.Schedule.Get)
	sessions.PUT("/:id", h.Schedule.Update)
	sessions.PATCH("/:id/move", h.Schedule.Move)
	sessions.DELETE("/:id", h.Schedule.Delete)

	crud(admin.Group("/teachers"), h.Teachers.List, h.Teachers.Get, h.Teachers.Create, h.Teachers.Update, h.Teachers.Delete)
	crud(admin.Group("/rooms"), h.Rooms.List, h.Rooms.Get, h.Rooms.Create, h.Rooms.Update, h.Rooms.Delete)
	crud(admin.Group("/sections"), h.Sections.List, h.Sections.Get, h.Sections.Create, h.Sections.Update, h.Sections.Delete)
	crud(admin.Group("/courses"), h.Courses.List, h.Courses.Get, h.Courses.Create, h.Courses.Update, h.Courses.Delete)

	return r
}

func crud(g *gin.RouterGroup, list, get, create, update, remove gin.HandlerFunc) {
	g.GET("", list)
	g.POST("", create)
	g.GET("/:id", get)
	g.PUT("/:id", update)
	g.DELETE("/:id", remove)
}
