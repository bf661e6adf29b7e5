// Package mqtt carries realtime inserts over an MQTT broker. The server side
// publishes every created event and alert; watchers subscribe to the same
// topics through Channel.
package mqtt

import (
	"fmt"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/realtime"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const qos = 1

// Options configures a broker connection.
type Options struct {
	BrokerURL      string
	TopicPrefix    string
	ConnectTimeout time.Duration
}

// Topic returns the topic carrying inserts for table.
func Topic(prefix string, table realtime.Table) string {
	return prefix + "/" + string(table)
}

func clientOptions(opts Options, role string) *paho.ClientOptions {
	clientID := fmt.Sprintf("disaster-monitor-%s-%s", role, uuid.NewString()[:8])
	return paho.NewClientOptions().
		AddBroker(opts.BrokerURL).
		SetClientID(clientID).
		SetConnectTimeout(opts.ConnectTimeout).
		SetOrderMatters(true).
		SetAutoReconnect(false)
}

// waitStatus maps a token outcome onto a channel status.
func waitStatus(tok paho.Token, timeout time.Duration) (realtime.Status, error) {
	if !tok.WaitTimeout(timeout) {
		return realtime.StatusTimedOut, nil
	}
	if err := tok.Error(); err != nil {
		return realtime.StatusChannelError, err
	}
	return realtime.StatusSubscribed, nil
}
