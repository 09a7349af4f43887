// Package botapi serves the herd's state over HTTP. All endpoints are GET
// and read-only; anyone can check in on the bots.
package botapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/memory"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/runtime"
)

// Server serves bot status over HTTP.
type Server struct {
	Bots  []*runtime.Bot
	Store *memory.Store
	Addr  string

	httpSrv *http.Server
}

// Handler builds the route table. Exposed separately so tests can drive it
// with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/bots", s.handleBots)
	mux.HandleFunc("/api/v1/bot/", s.handleBotDetail)
	return mux
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	s.httpSrv = &http.Server{Addr: s.Addr, Handler: s.Handler()}
	slog.Info("HTTP API starting", "addr", s.Addr)

	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server, waiting briefly for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	goals := make(map[string]int)
	var maxTick uint64
	for _, b := range s.Bots {
		st := b.Status()
		if st.Goal != "" {
			goals[st.Goal]++
		}
		if st.Tick > maxTick {
			maxTick = st.Tick
		}
	}

	writeJSON(w, map[string]any{
		"name":  "botherd",
		"bots":  len(s.Bots),
		"tick":  maxTick,
		"goals": goals,
	})
}

func (s *Server) handleBots(w http.ResponseWriter, r *http.Request) {
	statuses := make([]runtime.Status, 0, len(s.Bots))
	for _, b := range s.Bots {
		statuses = append(statuses, b.Status())
	}
	writeJSON(w, statuses)
}

// handleBotDetail serves /api/v1/bot/:name with the bot's current status and
// its recent decisions.
func (s *Server) handleBotDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/bot/")
	if name == "" || strings.Contains(name, "/") {
		http.Error(w, "usage: /api/v1/bot/:name", http.StatusBadRequest)
		return
	}

	var bot *runtime.Bot
	for _, b := range s.Bots {
		if b.Name == name {
			bot = b
			break
		}
	}
	if bot == nil {
		http.Error(w, "bot not found", http.StatusNotFound)
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	var decisions []runtime.Decision
	if s.Store != nil {
		var err error
		decisions, err = s.Store.RecentDecisions(r.Context(), bot.ID, limit)
		if err != nil {
			slog.Error("decision history query failed", "error", err, "bot", name)
			decisions = nil
		}
	}
	if decisions == nil {
		decisions = []runtime.Decision{}
	}

	writeJSON(w, map[string]any{
		"status":    bot.Status(),
		"decisions": decisions,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
