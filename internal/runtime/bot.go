// Package runtime drives the per-bot decision loop: sense the world, pick a
// goal, derive a plan, execute the first step, repeat. One goroutine per
// bot; bots share no mutable state with each other.
package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/roles"
)

// Sensor rebuilds a bot's WorldState from the live environment. The loop
// has no opinion on how the keys are computed, only on their types.
type Sensor interface {
	Sense(ctx context.Context) (*goap.WorldState, error)
}

// DecisionRecorder receives one record per decision tick. Implementations
// must tolerate being nil-checked out; recording failures never stop a bot.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, d Decision) error
}

// Decision is one tick's outcome, kept for observability and the journal.
type Decision struct {
	BotID    uuid.UUID `json:"bot_id"`
	BotName  string    `json:"bot_name"`
	Role     string    `json:"role"`
	Tick     uint64    `json:"tick"`
	Goal     string    `json:"goal"`
	Utility  float64   `json:"utility"`
	Reason   string    `json:"reason"`
	Plan     []string  `json:"plan,omitempty"`
	Executed string    `json:"executed,omitempty"`
	At       time.Time `json:"at"`
}

// Bot owns one agent's decision state: an arbiter, a planner, a sensor,
// and the idle counter that feeds the fallback goal.
type Bot struct {
	ID   uuid.UUID
	Name string
	Role string

	arbiter *goap.Arbiter
	planner *goap.Planner
	sensor  Sensor
	rec     DecisionRecorder
	log     *slog.Logger

	tick      uint64
	idleTicks float64

	mu     sync.Mutex
	status Status
}

// Status is the read-only view exposed over the status API.
type Status struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Role    string   `json:"role"`
	Tick    uint64   `json:"tick"`
	Goal    string   `json:"goal"`
	Utility float64  `json:"utility"`
	Reason  string   `json:"reason"`
	Plan    []string `json:"plan,omitempty"`
	Action  string   `json:"action,omitempty"`
}

// NewBot wires a bot from a role registry and a sensor.
func NewBot(name string, reg roles.Registry, sensor Sensor, rec DecisionRecorder, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		ID:      uuid.New(),
		Name:    name,
		Role:    reg.Role,
		arbiter: goap.NewArbiter(reg.Goals),
		planner: goap.NewPlanner(reg.Actions),
		sensor:  sensor,
		rec:     rec,
		log:     log.With("bot", name, "role", reg.Role),
	}
}

// Arbiter exposes the bot's arbiter for tuning at startup.
func (b *Bot) Arbiter() *goap.Arbiter { return b.arbiter }

// Planner exposes the bot's planner for tuning at startup.
func (b *Bot) Planner() *goap.Planner { return b.planner }

// Reset clears the arbiter's goal memory, e.g. after a respawn.
func (b *Bot) Reset() {
	b.arbiter.ClearCurrentGoal()
	b.idleTicks = 0
}

// Status returns a snapshot of the bot's most recent decision.
func (b *Bot) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Run ticks the bot until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	b.log.Info("bot loop started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			b.log.Info("bot loop stopped", "tick", b.tick)
			return
		case <-ticker.C:
			if err := b.Tick(ctx); err != nil {
				b.log.Warn("tick failed", "error", err)
			}
		}
	}
}

// Tick runs one full decision cycle. Sensing errors abort the tick; every
// other failure mode (no plan, execution error) degrades to "try again next
// tick" — the decision core never surfaces a fatal error.
func (b *Bot) Tick(ctx context.Context) error {
	b.tick++

	ws, err := b.sensor.Sense(ctx)
	if err != nil {
		return err
	}
	ws.Set(roles.KeyIdleTicks, b.idleTicks)

	sel := b.arbiter.SelectGoal(ws)
	if sel.Goal == nil {
		b.idleTicks++
		return nil
	}

	plan := b.planner.Plan(ws, sel.Goal)
	executed := ""
	switch {
	case !plan.Success:
		// World may change by next tick; the previous goal stays selected.
		b.idleTicks++
		b.log.Debug("no usable plan",
			"goal", sel.Goal.Name,
			"partial", plan.Names(),
		)
	case len(plan.Actions) == 0:
		// Goal already satisfied; nothing to do.
		b.idleTicks++
	default:
		first := plan.Actions[0]
		// Preconditions held at plan time; re-check against the same
		// snapshot guards executor wiring mistakes, the next tick's fresh
		// observation guards stale-world drift.
		if first.CheckPreconditions(ws) && first.Run != nil {
			if err := first.Run(ctx, ws); err != nil {
				b.log.Warn("action failed", "action", first.Name, "error", err)
			} else {
				executed = first.Name
				b.idleTicks = 0
			}
		}
	}

	b.record(ctx, sel, plan, executed)
	return nil
}

func (b *Bot) record(ctx context.Context, sel goap.Selection, plan goap.Plan, executed string) {
	names := plan.Names()

	b.mu.Lock()
	b.status = Status{
		ID:      b.ID.String(),
		Name:    b.Name,
		Role:    b.Role,
		Tick:    b.tick,
		Goal:    sel.Goal.Name,
		Utility: sel.Utility,
		Reason:  string(sel.Reason),
		Plan:    names,
		Action:  executed,
	}
	b.mu.Unlock()

	if sel.Reason == goap.ReasonSwitch {
		b.log.Info("goal switched",
			"goal", sel.Goal.Name,
			"utility", sel.Utility,
			"plan", names,
		)
	}

	if b.rec == nil {
		return
	}
	d := Decision{
		BotID:    b.ID,
		BotName:  b.Name,
		Role:     b.Role,
		Tick:     b.tick,
		Goal:     sel.Goal.Name,
		Utility:  sel.Utility,
		Reason:   string(sel.Reason),
		Plan:     names,
		Executed: executed,
		At:       time.Now().UTC(),
	}
	if err := b.rec.RecordDecision(ctx, d); err != nil {
		b.log.Warn("decision record failed", "error", err)
	}
}
