package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"coldcall_backend/internal/missions"
	"coldcall_backend/platform/config"
	"coldcall_backend/platform/logger"
)

// missionwatch is a terminal companion for agents: it follows the mission
// queue served by the API and prints the countdown phase transitions for
// the next appointment.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting mission watch",
		"api", cfg.MissionAPIBaseURL,
		"poll_interval", cfg.MissionPollInterval,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := missions.NewHTTPFetcher(cfg)
	tracker := missions.NewTracker(fetcher, cfg.MissionPollInterval, log)
	tracker.OnChange(printTransition)

	tracker.Run(ctx)
	log.Info("mission watch stopped")
}

func printTransition(s missions.Snapshot) {
	if s.Mission == nil {
		fmt.Println("no upcoming mission")
		return
	}

	switch s.Phase {
	case missions.PhaseHidden:
		fmt.Printf("next mission %q is more than 30 minutes out\n", s.Mission.BusinessName)
	case missions.PhasePreparation:
		fmt.Printf("[PREPARATION] %s | %s | starts in %s\n",
			s.Mission.BusinessName, s.Mission.PhoneNumber, missions.FormatCountdown(s.Remaining))
	case missions.PhaseCombat:
		fmt.Printf("[COMBAT] %s | %s | starts in %s\n",
			s.Mission.BusinessName, s.Mission.PhoneNumber, missions.FormatCountdown(s.Remaining))
	case missions.PhaseCritical:
		fmt.Printf("[CRITICAL] %s | appointment overdue by %s\n",
			s.Mission.BusinessName, missions.FormatCountdown(s.Remaining))
	}
}
