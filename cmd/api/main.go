package main

import (
	"fmt"
	"net/http"

	"github.com/DurgarajC07/hrms-saas/internal/config"
	"github.com/DurgarajC07/hrms-saas/internal/domain/company"
	appHTTP "github.com/DurgarajC07/hrms-saas/internal/handler/http"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/database"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/jwt"
	"github.com/DurgarajC07/hrms-saas/internal/repository/postgresql"
	attendanceService "github.com/DurgarajC07/hrms-saas/internal/service/attendance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	var geofenceFallback *company.Geofence
	if cfg.Attendance.GeofenceEnabled {
		geofenceFallback = &company.Geofence{
			Latitude:     cfg.Attendance.CompanyLatitude,
			Longitude:    cfg.Attendance.CompanyLongitude,
			RadiusMeters: cfg.Attendance.PunchRadiusMeters,
		}
	}

	txManager := postgresql.NewTxManager(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	punchEventRepo := postgresql.NewPunchEventRepository(db)
	employeeDirectory := postgresql.NewEmployeeDirectory(db, cfg.Attendance.DefaultTimezone)
	shiftRepo := postgresql.NewShiftRepository(db)
	geofenceProvider := postgresql.NewGeofenceProvider(db, geofenceFallback)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(
		txManager,
		attendanceRepo,
		punchEventRepo,
		employeeDirectory,
		shiftRepo,
		geofenceProvider,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(JWTService, attendanceHandler, cfg.App.Env)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
