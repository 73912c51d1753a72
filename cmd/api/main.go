package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MedVetSolutions/vet-scheduler/internal/cache"
	"github.com/MedVetSolutions/vet-scheduler/internal/config"
	dbpkg "github.com/MedVetSolutions/vet-scheduler/internal/db"
	infraRepo "github.com/MedVetSolutions/vet-scheduler/internal/infra/repository"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/notify"
	"github.com/MedVetSolutions/vet-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	redisCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	notifier := notify.NewDispatcher(notify.LogSender{})

	reminders := notify.NewReminderJob(
		infraRepo.NewAppointmentGormRepository(db),
		notifier,
	)
	if err := reminders.Start(); err != nil {
		log.Fatalf("failed to start reminder job: %v", err)
	}
	defer reminders.Stop()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, routes.Deps{
		Cache:    redisCache,
		Notifier: notifier,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
