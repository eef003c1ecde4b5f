package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"mcadmin/internal/actions"
	"mcadmin/internal/config"
	"mcadmin/internal/database"
	"mcadmin/internal/dockercli"
	"mcadmin/internal/handlers"
	"mcadmin/internal/jobs"
	"mcadmin/internal/logtail"
	"mcadmin/internal/status"
	"mcadmin/internal/whitelist"
)

func main() {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(settings.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open job database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	docker := dockercli.New(settings.ContainerName)
	wl := whitelist.NewRepository(settings.RepoRoot)

	var tailer logtail.Tailer = &logtail.DockerTailer{CLI: docker}
	var follower *logtail.Follower
	if settings.LogFile != "" {
		tailer = &logtail.FileTailer{Path: settings.LogFile}
		follower = &logtail.Follower{Path: settings.LogFile}
	}

	store := jobs.NewStore(db, settings.JobHistory)
	runner := actions.NewRunner(settings.RepoRoot, settings.ContainerName)
	queue := jobs.NewQueue(store, runner, settings.PlayerWorkers)
	queue.Start()
	defer queue.Stop()

	router := handlers.NewRouter(handlers.Deps{
		Settings:   settings,
		Store:      store,
		Dispatcher: jobs.NewDispatcher(store, queue),
		Aggregator: status.NewAggregator(docker, tailer, wl),
		Tailer:     tailer,
		Follower:   follower,
		Whitelist:  wl,
	})

	log.Printf("Admin panel listening on port %s (container %s)", settings.Port, settings.ContainerName)
	if err := http.ListenAndServe(":"+settings.Port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
