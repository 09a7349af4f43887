package memory

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/runtime"
)

// Journal archives every decision as zstd-compressed JSONL, one file per
// hour, alongside whatever recorder feeds the queryable store.
type Journal struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

// NewJournal creates a journal writing under baseDir. Files are named
// <prefix>-<hour>.jsonl.zst and rotated on the hour.
func NewJournal(baseDir, prefix string) *Journal {
	return &Journal{baseDir: baseDir, prefix: prefix}
}

// RecordDecision appends one decision line.
func (j *Journal) RecordDecision(ctx context.Context, d runtime.Decision) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != j.curHour {
		if err := j.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := j.w.Flush(); err != nil {
		return err
	}
	// The encoder buffers whole blocks; flushing it too keeps every recorded
	// line on disk even if the process dies before rotation.
	return j.enc.Flush()
}

// Close flushes and closes the current archive file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

func (j *Journal) rotateLocked(hour string) error {
	if err := j.closeLocked(); err != nil {
		return err
	}
	path := j.pathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	j.f = f
	j.enc = enc
	j.w = bufio.NewWriterSize(enc, 128*1024)
	j.curHour = hour
	return nil
}

func (j *Journal) closeLocked() error {
	var err error
	if j.w != nil {
		_ = j.w.Flush()
	}
	if j.enc != nil {
		err = j.enc.Close()
		j.enc = nil
	}
	if j.f != nil {
		_ = j.f.Close()
		j.f = nil
	}
	j.w = nil
	return err
}

func (j *Journal) pathForHour(hour string) string {
	return filepath.Join(j.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", j.prefix, hour))
}

// MultiRecorder fans a decision out to several recorders, returning the
// first error after trying all of them.
type MultiRecorder []runtime.DecisionRecorder

// RecordDecision sends d to every recorder.
func (m MultiRecorder) RecordDecision(ctx context.Context, d runtime.Decision) error {
	var first error
	for _, r := range m {
		if err := r.RecordDecision(ctx, d); err != nil && first == nil {
			first = err
		}
	}
	return first
}
