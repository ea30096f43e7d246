package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"talkinghead/internal/application/catalog"
	"talkinghead/internal/application/synthesis"
	"talkinghead/internal/config"
	"talkinghead/internal/infrastructure/db"
	"talkinghead/internal/infrastructure/ffmpeg"
	"talkinghead/internal/infrastructure/filesystem"
	"talkinghead/internal/infrastructure/render"
	"talkinghead/internal/infrastructure/tts"
	httptransport "talkinghead/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := log.Default()

	files := filesystem.NewStore(cfg.ModelsDir, cfg.VoicesDir, cfg.ResultsDir)
	if err := files.EnsureDirs(); err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	jobStore := db.NewJobStore(conn)
	modelStore := db.NewModelStore(conn)
	voiceStore := db.NewVoiceStore(conn)

	catalogService := catalog.NewService(modelStore, voiceStore, files, logger)
	speechClient := tts.NewClient(cfg.TTSURL)
	renderClient := render.NewClient(cfg.RenderURL)
	prober := ffmpeg.NewProber()

	machine := synthesis.NewMachine(jobStore, catalogService, catalogService, speechClient, renderClient, prober, logger)
	jobService := synthesis.NewService(jobStore, catalogService, catalogService, logger)

	ctx := context.Background()
	scheduler := synthesis.NewScheduler(jobStore, machine, time.Duration(cfg.TickSeconds)*time.Second, logger)
	go scheduler.Run(ctx)

	retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
	purger := cron.New()
	if _, err := purger.AddFunc(cfg.PurgeCronSpec, func() {
		if _, err := jobService.PurgeTerminal(ctx, retention); err != nil {
			logger.Printf("terminal job purge failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("purge schedule invalid: %v", err)
	}
	purger.Start()

	handler := httptransport.NewHandler(jobService, catalogService, files)
	router := httptransport.NewRouter(handler)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
	})

	log.Printf("Server started on %s", cfg.ServerAddr)
	log.Fatal(http.ListenAndServe(cfg.ServerAddr, c.Handler(router)))
}
