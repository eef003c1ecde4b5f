package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"mcadmin/internal/models"
	"mcadmin/pkg/client"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	baseURL := flag.String("url", "http://localhost:8080", "admin panel base URL")
	jobsEvery := flag.Duration("jobs-interval", 3*time.Second, "jobs poll interval")
	statusEvery := flag.Duration("status-interval", 10*time.Second, "status poll interval")
	flag.Parse()

	password := os.Getenv("MC_ADMIN_PASSWORD")
	if password == "" {
		fmt.Println("ERROR: MC_ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	c, err := client.New(*baseURL)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := c.Login(ctx, password); err != nil {
		fmt.Printf("ERROR: Login failed: %v\n", err)
		os.Exit(1)
	}

	expired := make(chan struct{})
	poller := client.NewPoller(c, client.Hooks{
		OnStatus: func(snap *models.StatusSnapshot) {
			fmt.Printf("[status] state=%s health=%s players=%s whitelist=%d\n",
				snap.ContainerState, snap.Health, playerCount(snap), snap.WhitelistCount)
		},
		OnJobs: func(jobs []models.Job) {
			for _, job := range jobs {
				if !job.Terminal() {
					fmt.Printf("[job] %s %s %s\n", job.ID, job.Action, job.Status)
				}
			}
		},
		OnUnauthorized: func() {
			fmt.Println("Session expired, log in again")
			close(expired)
		},
		OnError: func(stage string, err error) {
			fmt.Printf("[poll] %s failed: %v\n", stage, err)
		},
	}, *jobsEvery, *statusEvery)

	poller.Start()
	defer poller.Stop()

	select {
	case <-ctx.Done():
	case <-expired:
	}
}

func playerCount(snap *models.StatusSnapshot) string {
	if snap.PlayersOnline == nil || snap.PlayersMax == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d/%d", *snap.PlayersOnline, *snap.PlayersMax)
}
