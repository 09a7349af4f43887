// Package gateway connects a bot to a remote game server over a websocket.
// The wire protocol is small JSON messages: one hello/welcome handshake,
// then a stream of observations in, actions out.
package gateway

// Version is the wire protocol version spoken by this client.
const Version = 1

// Message types.
const (
	TypeHello   = "hello"
	TypeWelcome = "welcome"
	TypeObs     = "obs"
	TypeAct     = "act"
	TypeAck     = "ack"
)

// BaseMsg carries the fields every message has, used for dispatch.
type BaseMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
}

// HelloMsg opens the session.
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
	BotName         string `json:"bot_name"`
	Role            string `json:"role"`
}

// WelcomeMsg is the server's handshake reply.
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
	BotID           string `json:"bot_id"`
	TickRateHz      int    `json:"tick_rate_hz"`
	Seed            int64  `json:"seed"`
}

// ObsMsg is one observation frame: the server's view of everything the bot
// can sense, as dot-namespaced facts.
type ObsMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion int            `json:"protocol_version"`
	Tick            uint64         `json:"tick"`
	Facts           map[string]any `json:"facts"`
}

// ActMsg asks the server to carry out one action primitive.
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
	ID              string `json:"id"`
	Tick            uint64 `json:"tick"`
	Action          string `json:"action"`
	Item            string `json:"item,omitempty"`
}

// AckMsg reports the outcome of one action.
type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
	ID              string `json:"id"`
	OK              bool   `json:"ok"`
	Error           string `json:"error,omitempty"`
}
