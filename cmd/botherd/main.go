// Command botherd runs a herd of autonomous bots against the built-in
// simulated world, with an HTTP API for watching them think.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/botapi"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/config"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/memory"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/roles"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/runtime"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/simenv"
)

func main() {
	configPath := flag.String("config", "", "path to botherd.yaml (empty = defaults)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Memory ────────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	store, err := memory.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	journal := memory.NewJournal(cfg.JournalDir, "decisions")
	defer journal.Close()
	recorder := memory.MultiRecorder{store, journal}

	// ── World ─────────────────────────────────────────────────────────
	slog.Info("generating world", "size", cfg.WorldSize, "seed", cfg.Seed)
	genCfg := simenv.DefaultGenConfig()
	genCfg.Size = cfg.WorldSize
	genCfg.Seed = cfg.Seed
	env := simenv.NewEnv(simenv.Generate(genCfg), cfg.Seed)

	// ── Bots ──────────────────────────────────────────────────────────
	bots := make([]*runtime.Bot, 0, len(cfg.Bots))
	for _, spec := range cfg.Bots {
		if err := env.AddBot(spec.Name); err != nil {
			slog.Error("failed to place bot", "bot", spec.Name, "error", err)
			os.Exit(1)
		}

		reg, err := roles.ForRole(spec.Role, env.OpsFor(spec.Name))
		if err != nil {
			slog.Error("failed to build role", "bot", spec.Name, "error", err)
			os.Exit(1)
		}

		bot := runtime.NewBot(spec.Name, reg, env.SensorFor(spec.Name), recorder, logger)
		bot.Arbiter().HysteresisFactor = cfg.Arbiter.HysteresisFactor
		bot.Arbiter().PreemptionMargin = cfg.Arbiter.PreemptionMargin
		bot.Planner().MaxDepth = cfg.Planner.MaxDepth
		bot.Planner().MaxExpansions = cfg.Planner.MaxExpansions
		bots = append(bots, bot)

		slog.Info("bot ready", "bot", spec.Name, "role", spec.Role, "id", bot.ID)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &botapi.Server{Bots: bots, Store: store, Addr: cfg.ListenAddr}
	apiServer.Start()

	// ── Run ───────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	var wg sync.WaitGroup

	// World clock.
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(cfg.TickInterval.Std())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				env.Step()
			}
		}
	}()

	for _, bot := range bots {
		wg.Add(1)
		go func(b *runtime.Bot) {
			defer wg.Done()
			b.Run(ctx, cfg.TickInterval.Std())
		}(bot)
	}

	fmt.Printf("botherd is alive: %d bots on a %d x %d world.\n",
		len(bots), cfg.WorldSize, cfg.WorldSize)
	fmt.Printf("API: http://localhost%s/api/v1/status\n", cfg.ListenAddr)
	fmt.Println("Running... (Ctrl+C to stop)")

	wg.Wait()

	if err := apiServer.Shutdown(context.Background()); err != nil {
		slog.Error("API shutdown failed", "error", err)
	}
	fmt.Println("Herd stopped.")
}
