package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/handler"
	"github.com/noah-isme/routine-api/internal/service"
	"github.com/noah-isme/routine-api/pkg/config"
)

func testRouter(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: env, APIPrefix: "/api/v1"}
	auth := service.NewAuthService(nil, zap.NewNop(), service.AuthConfig{
		AdminEmail:        "admin@routine.local",
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "routine-api",
	})
	return NewRouter(cfg, zap.NewNop(), service.NewMetricsService(), auth, Handlers{
		Auth:     handler.NewAuthHandler(auth),
		Schedule: handler.NewScheduleHandler(nil),
		Routine:  handler.NewRoutineHandler(nil, nil, nil),
		Teachers: handler.NewTeacherHandler(nil),
		Rooms:    handler.NewRoomHandler(nil),
		Sections: handler.NewSectionHandler(nil),
		Courses:  handler.NewCourseHandler(nil),
		Settings: handler.NewSettingsHandler(nil),
		Health:   handler.NewMetricsHandler(service.NewMetricsService(), nil),
	})
}

func TestRouterRegistersRoutes(t *testing.T) {
	router := testRouter(config.EnvDevelopment)

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /docs/*any",
		"POST /api/v1/auth/login",
		"GET /api/v1/catalog",
		"GET /api/v1/routine",
		"GET /api/v1/routine/export",
		"GET /api/v1/rooms/free",
		"GET /api/v1/admin/routine",
		"PUT /api/v1/admin/settings",
		"POST /api/v1/admin/sessions/validate",
		"PATCH /api/v1/admin/sessions/:id/move",
		"DELETE /api/v1/admin/teachers/:id",
		"POST /api/v1/admin/rooms",
		"PUT /api/v1/admin/sections/:id",
		"GET /api/v1/admin/courses",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestRouterHidesDocsInProduction(t *testing.T) {
	router := testRouter(config.EnvProduction)
	gin.SetMode(gin.TestMode)

	for _, route := range router.Routes() {
		assert.NotEqual(t, "/docs/*any", route.Path)
	}
}

func TestRouterGuardsAdminRoutes(t *testing.T) {
	router := testRouter(config.EnvDevelopment)

	for _, path := range []string{"/api/v1/admin/sessions", "/api/v1/admin/settings", "/api/v1/admin/teachers"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
