// Package realtime delivers live inserts for one table to a handler. When the
// live channel is unavailable it switches to a local simulator so the
// dashboard keeps receiving plausible data.
package realtime

import (
	"encoding/json"
	"fmt"
)

// Status is a live-channel subscription state.
type Status string

const (
	StatusSubscribed   Status = "SUBSCRIBED"
	StatusChannelError Status = "CHANNEL_ERROR"
	StatusTimedOut     Status = "TIMED_OUT"
	StatusClosed       Status = "CLOSED"
)

// Table names a live feed.
type Table string

const (
	TableEvents Table = "events"
	TableAlerts Table = "alerts"
)

// ParseTable validates a table name.
func ParseTable(s string) (Table, error) {
	switch t := Table(s); t {
	case TableEvents, TableAlerts:
		return t, nil
	}
	return "", fmt.Errorf("unknown table %q", s)
}

// Mode is the controller state.
type Mode string

const (
	ModeIdle          Mode = "idle"
	ModeConnecting    Mode = "connecting"
	ModeLiveConnected Mode = "live"
	ModeDisconnected  Mode = "disconnected"
	ModeDemo          Mode = "demo"
	ModeStopped       Mode = "stopped"
)

// Insert is one record delivered to the handler.
type Insert struct {
	Table  Table           `json:"table"`
	Source Mode            `json:"source"` // live or demo
	Data   json.RawMessage `json:"data"`
}

// Channel is a live insert transport. onInsert and onStatus may be called
// from any goroutine, including synchronously from Subscribe.
type Channel interface {
	Subscribe(table Table, onInsert func([]byte), onStatus func(Status)) (Subscription, error)
}

// Subscription is an active Channel subscription.
type Subscription interface {
	Unsubscribe() error
}
