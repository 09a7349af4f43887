package botapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/memory"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/roles"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/runtime"
)

type staticSensor struct {
	values map[string]any
}

func (s *staticSensor) Sense(ctx context.Context) (*goap.WorldState, error) {
	ws := goap.NewWorldState()
	for k, v := range s.values {
		ws.Set(k, v)
	}
	return ws, nil
}

func newTestServer(t *testing.T) (*Server, *runtime.Bot) {
	t.Helper()

	store, err := memory.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reg, err := roles.ForRole(roles.RoleFarmer, nil)
	require.NoError(t, err)

	sensor := &staticSensor{values: map[string]any{roles.KeyNearbyDrops: 3}}
	bot := runtime.NewBot("wheatley", reg, sensor, store, nil)
	require.NoError(t, bot.Tick(context.Background()))

	return &Server{Bots: []*runtime.Bot{bot}, Store: store}, bot
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Name  string         `json:"name"`
		Bots  int            `json:"bots"`
		Tick  uint64         `json:"tick"`
		Goals map[string]int `json:"goals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "botherd", body.Name)
	assert.Equal(t, 1, body.Bots)
	assert.Equal(t, uint64(1), body.Tick)
	assert.Equal(t, 1, body.Goals["collect_drops"])
}

func TestBotsEndpoint(t *testing.T) {
	srv, bot := newTestServer(t)

	rec := get(t, srv, "/api/v1/bots")
	require.Equal(t, http.StatusOK, rec.Code)

	var statuses []runtime.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, bot.ID.String(), statuses[0].ID)
	assert.Equal(t, "collect_drops", statuses[0].Goal)
}

func TestBotDetailEndpoint(t *testing.T) {
	srv, bot := newTestServer(t)

	rec := get(t, srv, "/api/v1/bot/wheatley")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status    runtime.Status     `json:"status"`
		Decisions []runtime.Decision `json:"decisions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, bot.Name, body.Status.Name)
	require.Len(t, body.Decisions, 1)
	assert.Equal(t, "collect_drops", body.Decisions[0].Goal)
	assert.Equal(t, bot.ID, body.Decisions[0].BotID)
}

func TestBotDetailNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/v1/bot/nobody").Code)
}

func TestBotDetailBadPath(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/v1/bot/").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/v1/bot/a/b").Code)
}

func TestBotDetailWorksWithoutStore(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.Store = nil

	rec := get(t, srv, "/api/v1/bot/wheatley")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Decisions []runtime.Decision `json:"decisions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Decisions)
}
