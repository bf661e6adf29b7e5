package mqtt

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/realtime"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// Channel implements realtime.Channel. Each subscription gets its own
// broker connection so tearing one down never affects another.
type Channel struct {
	opts      Options
	logger    *slog.Logger
	newClient func(*paho.ClientOptions) paho.Client
}

// NewChannel creates a Channel. No connection is made until Subscribe.
func NewChannel(opts Options, logger *slog.Logger) *Channel {
	return &Channel{opts: opts, logger: logger, newClient: paho.NewClient}
}

type subscription struct {
	client paho.Client
	topic  string
	closed atomic.Bool
}

// Subscribe connects and subscribes in the background; progress is reported
// through onStatus. A lost connection is reported as CHANNEL_ERROR.
func (c *Channel) Subscribe(table realtime.Table, onInsert func([]byte), onStatus func(realtime.Status)) (realtime.Subscription, error) {
	sub := &subscription{topic: Topic(c.opts.TopicPrefix, table)}

	report := func(s realtime.Status) {
		if !sub.closed.Load() {
			onStatus(s)
		}
	}

	opts := clientOptions(c.opts, "watch")
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		c.logger.Warn("mqtt connection lost", "topic", sub.topic, "error", err)
		report(realtime.StatusChannelError)
	})
	sub.client = c.newClient(opts)

	go func() {
		status, err := waitStatus(sub.client.Connect(), c.opts.ConnectTimeout)
		if status != realtime.StatusSubscribed {
			c.logger.Warn("mqtt connect failed", "broker", c.opts.BrokerURL, "status", string(status), "error", err)
			report(status)
			return
		}

		tok := sub.client.Subscribe(sub.topic, qos, func(_ paho.Client, msg paho.Message) {
			if !sub.closed.Load() {
				onInsert(msg.Payload())
			}
		})
		status, err = waitStatus(tok, c.opts.ConnectTimeout)
		if err != nil {
			c.logger.Warn("mqtt subscribe failed", "topic", sub.topic, "error", err)
		}
		report(status)
	}()

	return sub, nil
}

// Unsubscribe is idempotent.
func (s *subscription) Unsubscribe() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.client.IsConnected() {
		s.client.Unsubscribe(s.topic).WaitTimeout(time.Second)
	}
	s.client.Disconnect(250)
	return nil
}
