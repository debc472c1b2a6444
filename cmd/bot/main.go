package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glee-grades-bot/internal/api"
	"glee-grades-bot/internal/config"
	"glee-grades-bot/internal/grades"
	"glee-grades-bot/internal/handler"
	"glee-grades-bot/internal/repository"
	"glee-grades-bot/internal/service"
	"glee-grades-bot/pkg/telegram"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.SetLevel(cfg.LogLevel)
	logrus.Info("Config initialized...")

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	if _, err = sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logrus.Warnf("Failed to enable foreign keys: %v", err)
	}

	memberRepo, err := repository.NewGormMemberRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create member repository")
	}

	semesterRepo, err := repository.NewGormSemesterRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create semester repository")
	}

	eventRepo, err := repository.NewGormEventRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create event repository")
	}

	attendanceRepo, err := repository.NewGormAttendanceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create attendance repository")
	}

	absenceRepo, err := repository.NewGormAbsenceRequestRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create absence request repository")
	}

	snapshotRepo, err := repository.NewGormGradeSnapshotRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create grade snapshot repository")
	}

	calculator := grades.NewCalculator(
		grades.WithLocation(cfg.Location),
		grades.WithAttendedSectionalFix(cfg.FixAttendedSectional),
	)

	services := handler.Services{
		Members:    service.NewMemberService(memberRepo, semesterRepo, eventRepo, attendanceRepo),
		Semesters:  service.NewSemesterService(semesterRepo),
		Events:     service.NewEventService(eventRepo, semesterRepo, attendanceRepo),
		Attendance: service.NewAttendanceService(attendanceRepo, eventRepo, memberRepo),
		Absences:   service.NewAbsenceService(absenceRepo, eventRepo, memberRepo),
		Grades: service.NewGradeService(
			repository.NewGradeRecordSource(eventRepo, attendanceRepo, absenceRepo),
			snapshotRepo,
			semesterRepo,
			calculator,
		),
	}

	if err := services.Members.InitializeAdmin(cfg.BaseAdminChatID); err != nil {
		logrus.Warnf("Failed to initialize admin: %v", err)
	} else if cfg.BaseAdminChatID != 0 {
		logrus.Infof("Admin initialized with chat ID: %d", cfg.BaseAdminChatID)
	}

	if cfg.EventsFile != "" {
		count, err := services.Events.ImportSchedule(cfg.EventsFile)
		if err != nil {
			logrus.WithError(err).Fatalf("Failed to import events from %s", cfg.EventsFile)
		}
		logrus.Infof("Imported %d events from %s", count, cfg.EventsFile)
	}

	client, err := telegram.NewClient(cfg.TelegramToken, cfg.BotDebug)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(client.Bot, services, cfg.Location, cfg.BaseAdminChatID)

	apiServer := api.NewServer(services.Members, services.Events, services.Grades)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apiServer.Router(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP API listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server failed")
		}
	}()

	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go botHandler.HandleUpdates(updates)

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	client.Bot.StopReceivingUpdates()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Warnf("Error shutting down HTTP server: %v", err)
	}

	if err := sqlDB.Close(); err != nil {
		logrus.Warnf("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
