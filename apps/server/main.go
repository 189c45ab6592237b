package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"arena-lite/analysis"
	"arena-lite/roster"

	"arena-lite/apps/server/internal/arena"
	"arena-lite/apps/server/internal/auth"
	"arena-lite/apps/server/internal/config"
	"arena-lite/apps/server/internal/gateway"
	"arena-lite/apps/server/internal/ledger"
)

func main() {
	configPath := flag.String("config", os.Getenv("ARENA_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Server] Failed to load config: %v", err)
	}

	authService, err := auth.NewService(cfg)
	if err != nil {
		log.Fatalf("[Server] Failed to init auth service: %v", err)
	}
	defer authService.Close()

	ledgerService, err := ledger.NewService(cfg)
	if err != nil {
		log.Fatalf("[Server] Failed to init ledger service: %v", err)
	}
	defer ledgerService.Close()

	rosterReg := roster.NewRegistry()
	if cfg.RosterPath != "" {
		if err := rosterReg.LoadFromFile(cfg.RosterPath); err != nil {
			log.Fatalf("[Server] Failed to load roster %s: %v", cfg.RosterPath, err)
		}
		log.Printf("[Server] Loaded roster from %s (%d templates)", cfg.RosterPath, rosterReg.Count())
	}

	hall := arena.NewHall(cfg.Arena, rosterReg)
	hall.AddBattleEndHook(func(info arena.BattleEndInfo) {
		pipeline := analysis.NewPipeline(ledgerService)
		report, err := pipeline.Run(&info.State)
		if err != nil {
			log.Printf("[Server] Post-battle analysis failed for %s: %v", info.BattleID, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		summary := map[string]any{
			"arena_id": info.ArenaID,
			"result":   report.Result.String(),
			"rounds":   info.State.Round,
		}
		if err := ledgerService.SaveReport(ctx, info.UserID, report, summary); err != nil {
			log.Printf("[Server] Failed to persist report %s: %v", info.BattleID, err)
		}
	})

	gw := gateway.New(hall, authService)
	authHTTP := auth.NewHTTPHandler(authService)
	ledgerHTTP := ledger.NewHTTPHandler(authService, ledgerService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	authHTTP.RegisterRoutes(mux)
	ledgerHTTP.RegisterRoutes(mux)

	// Reap arenas abandoned by their coaches.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			hall.CloseIdle(10 * time.Minute)
		}
	}()

	log.Printf("[Server] Auth mode: %s", cfg.AuthMode)
	log.Printf("[Server] Ledger mode: %s", cfg.LedgerMode)
	log.Printf("[Server] Starting WebSocket server on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}
