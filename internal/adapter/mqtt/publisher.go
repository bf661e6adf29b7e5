package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/realtime"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// Publisher implements domain.Publisher on an MQTT broker.
type Publisher struct {
	client  paho.Client
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewPublisher connects to the broker and fails if it does not accept the
// connection within the configured timeout.
func NewPublisher(opts Options, logger *slog.Logger) (*Publisher, error) {
	client := paho.NewClient(clientOptions(opts, "publisher"))
	status, err := waitStatus(client.Connect(), opts.ConnectTimeout)
	switch status {
	case realtime.StatusTimedOut:
		return nil, fmt.Errorf("connect to mqtt broker %s: timed out after %s", opts.BrokerURL, opts.ConnectTimeout)
	case realtime.StatusChannelError:
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", opts.BrokerURL, err)
	}
	return newPublisher(client, opts.TopicPrefix, opts.ConnectTimeout, logger), nil
}

func newPublisher(client paho.Client, prefix string, timeout time.Duration, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, prefix: prefix, timeout: timeout, logger: logger}
}

func (p *Publisher) PublishEvents(ctx context.Context, events []domain.Event) error {
	topic := Topic(p.prefix, realtime.TableEvents)
	var errs []error
	for i := range events {
		if err := p.publish(ctx, topic, events[i].ID, events[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishAlerts sends alerts without their joined event; subscribers that
// need it look the event up by event_id.
func (p *Publisher) PublishAlerts(ctx context.Context, alerts []domain.Alert) error {
	topic := Topic(p.prefix, realtime.TableAlerts)
	var errs []error
	for i := range alerts {
		if err := p.publish(ctx, topic, alerts[i].ID, alerts[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Publisher) publish(ctx context.Context, topic, id string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", id, err)
	}
	status, err := waitStatus(p.client.Publish(topic, qos, false, data), p.timeout)
	switch status {
	case realtime.StatusTimedOut:
		return fmt.Errorf("publish %s to %s: timed out", id, topic)
	case realtime.StatusChannelError:
		return fmt.Errorf("publish %s to %s: %w", id, topic, err)
	}
	p.logger.Debug("mqtt message published", "topic", topic, "id", id)
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
