package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	trendclipper "trendclipper/agents/trend-clipper"
	"trendclipper/shared/config"
	"trendclipper/shared/events"
	"trendclipper/shared/monitoring"
	"trendclipper/shared/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	recorder := events.NewRecorder(events.DefaultCapacity)
	monitor := monitoring.NewMonitor()

	agent := trendclipper.NewAgent(cfg, recorder, monitor)
	s := scheduler.New(cfg, agent, monitor, recorder)

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("Running once...")
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Fatalf("Failed to run: %v", err)
		}
		return
	}

	fmt.Println("Starting scheduler...")
	if err := s.Start(ctx); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}
