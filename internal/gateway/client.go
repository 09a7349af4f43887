package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/roles"
)

const ackTimeout = 10 * time.Second

// Client is a connected game session. It feeds observations to the decision
// loop as a Sensor and carries actions out over the wire as the bot's Ops.
type Client struct {
	BotID string
	Seed  int64

	conn *websocket.Conn
	log  *slog.Logger

	writeMu sync.Mutex

	mu       sync.Mutex
	lastObs  *ObsMsg
	firstObs chan struct{}
	pending  map[string]chan AckMsg

	nextID atomic.Uint64
	done   chan struct{}
	err    error
}

var _ roles.Ops = (*Client)(nil)

// Dial connects to a game server, completes the handshake, and starts the
// read loop. The caller owns Close.
func Dial(ctx context.Context, url, name, role string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	hello := HelloMsg{
		Type:            TypeHello,
		ProtocolVersion: Version,
		BotName:         name,
		Role:            role,
	}
	if err := conn.WriteJSON(hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send hello: %w", err)
	}

	var welcome WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}
	if welcome.Type != TypeWelcome {
		conn.Close()
		return nil, fmt.Errorf("handshake: expected %s, got %q", TypeWelcome, welcome.Type)
	}

	c := &Client{
		BotID:    welcome.BotID,
		Seed:     welcome.Seed,
		conn:     conn,
		log:      log.With("bot", name),
		firstObs: make(chan struct{}),
		pending:  make(map[string]chan AckMsg),
		done:     make(chan struct{}),
	}
	go c.readLoop()

	c.log.Info("connected", "bot_id", welcome.BotID, "tick_rate_hz", welcome.TickRateHz)
	return c, nil
}

// Close tears the connection down. Pending action waits fail.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Err reports why the read loop stopped, once it has.
func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

func (c *Client) readLoop() {
	defer close(c.done)

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.err = err
			c.failPending(err)
			return
		}

		var base BaseMsg
		if err := json.Unmarshal(msg, &base); err != nil {
			c.log.Warn("undecodable message", "error", err)
			continue
		}

		switch base.Type {
		case TypeObs:
			var obs ObsMsg
			if err := json.Unmarshal(msg, &obs); err != nil {
				c.log.Warn("bad obs frame", "error", err)
				continue
			}
			c.mu.Lock()
			first := c.lastObs == nil
			c.lastObs = &obs
			c.mu.Unlock()
			if first {
				close(c.firstObs)
			}

		case TypeAck:
			var ack AckMsg
			if err := json.Unmarshal(msg, &ack); err != nil {
				c.log.Warn("bad ack frame", "error", err)
				continue
			}
			c.mu.Lock()
			ch, ok := c.pending[ack.ID]
			delete(c.pending, ack.ID)
			c.mu.Unlock()
			if ok {
				ch <- ack
			}

		default:
			c.log.Debug("ignoring message", "type", base.Type)
		}
	}
}

func (c *Client) failPending(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.pending {
		delete(c.pending, id)
		ch <- AckMsg{ID: id, OK: false, Error: err.Error()}
	}
}

// Sense returns a world state built from the latest observation frame. The
// first call blocks until the server has sent one.
func (c *Client) Sense(ctx context.Context) (*goap.WorldState, error) {
	select {
	case <-c.firstObs:
	case <-c.done:
		return nil, fmt.Errorf("connection closed: %w", c.err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	obs := c.lastObs
	c.mu.Unlock()

	ws := goap.NewWorldState()
	for key, v := range obs.Facts {
		ws.Set(key, v)
	}
	return ws, nil
}

// act sends one action and waits for the server's ack.
func (c *Client) act(ctx context.Context, action, item string) error {
	id := fmt.Sprintf("%s-%d", action, c.nextID.Add(1))
	ch := make(chan AckMsg, 1)

	c.mu.Lock()
	var tick uint64
	if c.lastObs != nil {
		tick = c.lastObs.Tick
	}
	c.pending[id] = ch
	c.mu.Unlock()

	msg := ActMsg{
		Type:            TypeAct,
		ProtocolVersion: Version,
		ID:              id,
		Tick:            tick,
		Action:          action,
		Item:            item,
	}
	c.writeMu.Lock()
	err := c.conn.WriteJSON(msg)
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return fmt.Errorf("send %s: %w", action, err)
	}

	timer := time.NewTimer(ackTimeout)
	defer timer.Stop()
	select {
	case ack := <-ch:
		if !ack.OK {
			return fmt.Errorf("%s rejected: %s", action, ack.Error)
		}
		return nil
	case <-timer.C:
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return fmt.Errorf("%s: no ack within %s", action, ackTimeout)
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return ctx.Err()
	}
}

func (c *Client) CollectDrops(ctx context.Context) error { return c.act(ctx, "collect_drops", "") }

func (c *Client) HarvestCrops(ctx context.Context) error { return c.act(ctx, "harvest_crops", "") }

func (c *Client) TillSoil(ctx context.Context) error { return c.act(ctx, "till_soil", "") }

func (c *Client) PlantSeeds(ctx context.Context) error { return c.act(ctx, "plant_seeds", "") }

func (c *Client) GatherLog(ctx context.Context) error { return c.act(ctx, "gather_log", "") }

func (c *Client) Craft(ctx context.Context, item string) error { return c.act(ctx, "craft", item) }

func (c *Client) ChopTrees(ctx context.Context) error { return c.act(ctx, "chop_trees", "") }

func (c *Client) PlantSaplings(ctx context.Context) error { return c.act(ctx, "plant_saplings", "") }

func (c *Client) MineOre(ctx context.Context) error { return c.act(ctx, "mine_ore", "") }

func (c *Client) Descend(ctx context.Context) error { return c.act(ctx, "descend", "") }

func (c *Client) Ascend(ctx context.Context) error { return c.act(ctx, "ascend", "") }

func (c *Client) DepositItems(ctx context.Context) error { return c.act(ctx, "deposit_items", "") }

func (c *Client) Wander(ctx context.Context) error { return c.act(ctx, "wander", "") }
