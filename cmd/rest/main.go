package main

import (
	"context"
	"log"

	"nutri-coach-be/internal/bootstrap"
	"nutri-coach-be/internal/config"
	"nutri-coach-be/internal/server"
	"nutri-coach-be/internal/tracer"
	"nutri-coach-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Mail Worker...")
		if err := container.MailWorkerService.Consume(context.Background()); err != nil {
			log.Printf("Background Mail Worker Error: %v", err)
		}
	}()

	container.Cron.Start()
	defer container.Cron.Stop()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
