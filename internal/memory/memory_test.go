package memory

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/runtime"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDecision(botID uuid.UUID, tick uint64, goal string) runtime.Decision {
	return runtime.Decision{
		BotID:    botID,
		BotName:  "wheatley",
		Role:     "farmer",
		Tick:     tick,
		Goal:     goal,
		Utility:  130,
		Reason:   string(goap.ReasonSwitch),
		Plan:     []string{"collect_drops"},
		Executed: "collect_drops",
		At:       time.Now(),
	}
}

func TestPOIRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	require.NoError(t, s.RememberPOI(ctx, POI{BotID: botID, Kind: "ore", X: 10, Y: 4, SeenTick: 3}))
	require.NoError(t, s.RememberPOI(ctx, POI{BotID: botID, Kind: "ore", X: 30, Y: 30, SeenTick: 5}))

	poi, err := s.NearestPOI(ctx, botID, "ore", 12, 5)
	require.NoError(t, err)
	assert.Equal(t, 10, poi.X)
	assert.Equal(t, 4, poi.Y)

	poi, err = s.NearestPOI(ctx, botID, "ore", 28, 28)
	require.NoError(t, err)
	assert.Equal(t, 30, poi.X)
}

func TestRememberPOIRefreshesSeenTick(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	require.NoError(t, s.RememberPOI(ctx, POI{BotID: botID, Kind: "trees", X: 2, Y: 2, SeenTick: 1}))
	require.NoError(t, s.RememberPOI(ctx, POI{BotID: botID, Kind: "trees", X: 2, Y: 2, SeenTick: 9}))

	poi, err := s.NearestPOI(ctx, botID, "trees", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), poi.SeenTick)
}

func TestNearestPOIMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.NearestPOI(context.Background(), uuid.New(), "ore", 0, 0)
	assert.ErrorIs(t, err, ErrNoPOI)
}

func TestForgetPOI(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	require.NoError(t, s.RememberPOI(ctx, POI{BotID: botID, Kind: "ore", X: 1, Y: 1, SeenTick: 1}))
	require.NoError(t, s.ForgetPOI(ctx, botID, "ore", 1, 1))

	_, err := s.NearestPOI(ctx, botID, "ore", 0, 0)
	assert.ErrorIs(t, err, ErrNoPOI)
}

func TestPOIIsolatedPerBot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RememberPOI(ctx, POI{BotID: uuid.New(), Kind: "ore", X: 1, Y: 1, SeenTick: 1}))

	_, err := s.NearestPOI(ctx, uuid.New(), "ore", 0, 0)
	assert.ErrorIs(t, err, ErrNoPOI)
}

func TestDecisionLogRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	require.NoError(t, s.RecordDecision(ctx, sampleDecision(botID, 1, "harvest_crops")))
	require.NoError(t, s.RecordDecision(ctx, sampleDecision(botID, 2, "collect_drops")))

	decisions, err := s.RecentDecisions(ctx, botID, 10)
	require.NoError(t, err)
	require.Len(t, decisions, 2)

	assert.Equal(t, "collect_drops", decisions[0].Goal, "newest first")
	assert.Equal(t, uint64(2), decisions[0].Tick)
	assert.Equal(t, botID, decisions[0].BotID)
	assert.Equal(t, []string{"collect_drops"}, decisions[0].Plan)
	assert.Equal(t, string(goap.ReasonSwitch), decisions[0].Reason)
}

func TestRecentDecisionsHonorsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, s.RecordDecision(ctx, sampleDecision(botID, i, "explore")))
	}

	decisions, err := s.RecentDecisions(ctx, botID, 3)
	require.NoError(t, err)
	require.Len(t, decisions, 3)
	assert.Equal(t, uint64(5), decisions[0].Tick)
}

func TestJournalWritesCompressedLines(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir, "decisions")
	ctx := context.Background()
	botID := uuid.New()

	require.NoError(t, j.RecordDecision(ctx, sampleDecision(botID, 1, "harvest_crops")))
	require.NoError(t, j.RecordDecision(ctx, sampleDecision(botID, 2, "collect_drops")))
	require.NoError(t, j.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "decisions-*.jsonl.zst"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()

	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	lines := 0
	scanner := bufio.NewScanner(dec)
	for scanner.Scan() {
		lines++
		assert.Contains(t, scanner.Text(), botID.String())
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 2, lines)
}

// Every record must be readable from disk without waiting for rotation or
// Close; a crashed process may never reach either.
func TestJournalFlushesEachRecord(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir, "decisions")
	t.Cleanup(func() { j.Close() })
	botID := uuid.New()

	require.NoError(t, j.RecordDecision(context.Background(), sampleDecision(botID, 1, "mine_ore")))

	matches, err := filepath.Glob(filepath.Join(dir, "decisions-*.jsonl.zst"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	raw, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	dec, err := zstd.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer dec.Close()

	// The frame is still open, so copy stops with an unexpected-EOF after
	// yielding the flushed blocks.
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, dec)
	assert.Contains(t, buf.String(), botID.String())
	assert.Contains(t, buf.String(), "mine_ore")
}

func TestMultiRecorderFansOut(t *testing.T) {
	s := openTestStore(t)
	j := NewJournal(t.TempDir(), "decisions")
	t.Cleanup(func() { j.Close() })
	ctx := context.Background()
	botID := uuid.New()

	rec := MultiRecorder{s, j}
	require.NoError(t, rec.RecordDecision(ctx, sampleDecision(botID, 1, "explore")))

	decisions, err := s.RecentDecisions(ctx, botID, 1)
	require.NoError(t, err)
	assert.Len(t, decisions, 1)
}
