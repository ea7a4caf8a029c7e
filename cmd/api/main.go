package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/config"
	appHTTP "github.com/Cachi0001/Simplified-HRM-sub007/internal/handler/http"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/clock"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/cron"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/database"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/email"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/jwt"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/sse"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/repository/postgresql"
	attendanceService "github.com/Cachi0001/Simplified-HRM-sub007/internal/service/attendance"
	notificationService "github.com/Cachi0001/Simplified-HRM-sub007/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolSettings{
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		PingTimeout: cfg.Database.PingTimeout,
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	jobLogRepo := postgresql.NewJobLogRepository(db)

	jwtService := jwt.NewService(cfg.JWT.Secret)
	hub := sse.NewHub()
	clk := clock.Real()

	emailService, err := email.NewService(cfg.SMTP)
	if err != nil {
		fmt.Println("Error initializing email service:", err)
		os.Exit(1)
	}

	dispatcher := notificationService.NewDispatcher(notificationRepo, hub, clk)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		dispatcher,
		cfg.Attendance,
		clk,
	)

	jobs := cron.NewAttendanceJobs(
		attendanceRepo,
		employeeRepo,
		jobLogRepo,
		dispatcher,
		emailService,
		cfg.Attendance,
		clk,
	)
	scheduler := cron.NewScheduler()
	jobs.RegisterJobs(scheduler, cfg.Jobs)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	notificationHandler := appHTTP.NewNotificationHandler(dispatcher, jwtService)
	cronHandler := appHTTP.NewCronHandler(jobs, cfg.Jobs.CronSecret, cfg.Attendance, clk)

	router := appHTTP.NewRouter(cfg, jwtService, attendanceHandler, notificationHandler, cronHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
