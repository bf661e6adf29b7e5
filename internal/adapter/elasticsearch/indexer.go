// Package elasticsearch mirrors events and alerts into Elasticsearch so the
// dashboard can run free-text and geo queries outside the primary store.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esutil"
)

// Indexer implements domain.Publisher by bulk-indexing each published batch.
type Indexer struct {
	client      *elasticsearch.Client
	eventsIndex string
	alertsIndex string
	logger      *slog.Logger
}

// NewIndexer creates an Indexer against the cluster at url.
func NewIndexer(url, eventsIndex, alertsIndex string, logger *slog.Logger) (*Indexer, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Indexer{
		client:      client,
		eventsIndex: eventsIndex,
		alertsIndex: alertsIndex,
		logger:      logger,
	}, nil
}

// eventDocument adds a geo_point so location queries work without a custom
// ingest pipeline.
type eventDocument struct {
	domain.Event
	Point geoPoint `json:"point"`
}

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PublishEvents bulk-indexes the events. A rejected document does not stop
// the rest of the batch.
func (ix *Indexer) PublishEvents(ctx context.Context, events []domain.Event) error {
	docs := make([]document, len(events))
	for i := range events {
		docs[i] = document{id: events[i].ID, body: eventDocument{
			Event: events[i],
			Point: geoPoint{Lat: events[i].Latitude, Lon: events[i].Longitude},
		}}
	}
	return ix.bulk(ctx, ix.eventsIndex, docs)
}

// PublishAlerts bulk-indexes the alerts, keyed by alert ID.
func (ix *Indexer) PublishAlerts(ctx context.Context, alerts []domain.Alert) error {
	docs := make([]document, len(alerts))
	for i := range alerts {
		docs[i] = document{id: alerts[i].ID, body: alerts[i]}
	}
	return ix.bulk(ctx, ix.alertsIndex, docs)
}

type document struct {
	id   string
	body any
}

// maxReportedFailures bounds how many per-document errors are joined into
// the returned error.
const maxReportedFailures = 5

func (ix *Indexer) bulk(ctx context.Context, index string, docs []document) error {
	if len(docs) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		failures []error
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, err)
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     ix.client,
		Index:      index,
		NumWorkers: 1,
		OnError: func(_ context.Context, err error) {
			record(fmt.Errorf("bulk %s: %w", index, err))
		},
	})
	if err != nil {
		return fmt.Errorf("create bulk indexer for %s: %w", index, err)
	}

	for _, d := range docs {
		body, err := json.Marshal(d.body)
		if err != nil {
			record(fmt.Errorf("marshal document %s: %w", d.id, err))
			continue
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: d.id,
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err == nil {
					err = fmt.Errorf("status %d: %s: %s", res.Status, res.Error.Type, res.Error.Reason)
				}
				record(fmt.Errorf("index %s/%s: %w", index, item.DocumentID, err))
			},
		})
		if err != nil {
			record(fmt.Errorf("queue document %s: %w", d.id, err))
			break
		}
	}
	if err := bi.Close(ctx); err != nil {
		record(fmt.Errorf("bulk %s: %w", index, err))
	}

	stats := bi.Stats()
	ix.logger.Debug("bulk indexed", "index", index, "documents", len(docs),
		"indexed", stats.NumIndexed, "failed", stats.NumFailed, "requests", stats.NumRequests)

	mu.Lock()
	defer mu.Unlock()
	if len(failures) == 0 {
		return nil
	}
	reported := failures
	if len(reported) > maxReportedFailures {
		reported = reported[:maxReportedFailures]
	}
	return fmt.Errorf("%d of %d documents not indexed into %s: %w",
		max(len(failures), int(stats.NumFailed)), len(docs), index, errors.Join(reported...))
}
