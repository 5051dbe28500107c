package http

import (
	"log/slog"
	"os"

	"github.com/DurgarajC07/hrms-saas/internal/handler/http/middleware"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, attendanceHandler AttendanceHandler, appEnv string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms-saas"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				// Self-service
				r.Post("/punch", attendanceHandler.Punch)
				r.Get("/my-attendance", attendanceHandler.GetMyAttendance)
				r.Get("/today-status", attendanceHandler.GetTodayStatus)
				r.Get("/statistics", attendanceHandler.GetStatistics)
				r.Get("/punch-events", attendanceHandler.ListPunchEvents)

				// Managers and HR
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireTeamViewer)
					r.Get("/team-attendance", attendanceHandler.GetTeamAttendance)
				})

				// HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Post("/manual-adjustment", attendanceHandler.ManualAdjustment)
					r.Post("/{attendanceID}/approve", attendanceHandler.Approve)
					r.Post("/{attendanceID}/reject", attendanceHandler.Reject)
				})
			})
		})
	})
	return r
}
