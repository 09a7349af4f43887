// Command botclient runs a single bot against a remote game server over a
// websocket, journaling its decisions locally.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/gateway"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/memory"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/roles"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/runtime"
)

func main() {
	var (
		url        = flag.String("url", "ws://localhost:8080/v1/ws", "game server websocket url")
		name       = flag.String("name", "bot", "bot name")
		role       = flag.String("role", roles.RoleFarmer, "bot role: farmer, lumberjack or miner")
		tick       = flag.Duration("tick", 250*time.Millisecond, "decision tick interval")
		journalDir = flag.String("journal", "journal", "decision journal directory (empty = no journal)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	client, err := gateway.Dial(ctx, *url, *name, *role, logger)
	if err != nil {
		slog.Error("failed to connect", "url", *url, "error", err)
		os.Exit(1)
	}
	defer client.Close()

	reg, err := roles.ForRole(*role, client)
	if err != nil {
		slog.Error("failed to build role", "role", *role, "error", err)
		os.Exit(1)
	}

	var recorder runtime.DecisionRecorder
	if *journalDir != "" {
		journal := memory.NewJournal(*journalDir, "decisions-"+*name)
		defer journal.Close()
		recorder = journal
	}

	bot := runtime.NewBot(*name, reg, client, recorder, logger)

	fmt.Printf("%s (%s) connected to %s as %s\n", *name, *role, *url, client.BotID)
	fmt.Println("Running... (Ctrl+C to stop)")

	bot.Run(ctx, *tick)

	fmt.Println("Bot stopped.")
}
