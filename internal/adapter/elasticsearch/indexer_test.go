package elasticsearch

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCluster answers the product check and the bulk API, recording indexed
// documents by "index/id". IDs in reject fail individually; a non-zero
// status fails the whole bulk request.
type fakeCluster struct {
	mu       sync.Mutex
	docs     map[string]map[string]any
	reject   map[string]bool
	status   int
	requests int
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/" {
		_, _ = w.Write([]byte(`{"version":{"number":"7.17.10","build_flavor":"default"},"tagline":"You Know, for Search"}`))
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":"cluster_block_exception"}`))
		return
	}

	// The index comes from the /{index}/_bulk path.
	index := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/_bulk")

	type meta struct {
		Index struct {
			ID string `json:"_id"`
		} `json:"index"`
	}
	var items []map[string]any
	sc := bufio.NewScanner(r.Body)
	for sc.Scan() {
		var m meta
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil || !sc.Scan() {
			break
		}
		id := m.Index.ID
		if f.reject[id] {
			items = append(items, map[string]any{"index": map[string]any{
				"_index": index, "_id": id, "status": 400,
				"error": map[string]any{"type": "mapper_parsing_exception", "reason": "failed to parse"},
			}})
			continue
		}
		var doc map[string]any
		_ = json.Unmarshal(sc.Bytes(), &doc)
		f.docs[index+"/"+id] = doc
		items = append(items, map[string]any{"index": map[string]any{"_index": index, "_id": id, "status": 201, "result": "created"}})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"took": 1, "errors": len(f.reject) > 0, "items": items})
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{docs: map[string]map[string]any{}, reject: map[string]bool{}}
}

func newTestIndexer(t *testing.T, cluster *fakeCluster) *Indexer {
	t.Helper()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	ix, err := NewIndexer(srv.URL, "disaster-events", "disaster-events-alerts", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return ix
}

func TestIndexer_PublishEvents(t *testing.T) {
	cluster := newFakeCluster()
	ix := newTestIndexer(t, cluster)

	err := ix.PublishEvents(context.Background(), []domain.Event{
		{ID: "evt_1", Source: "firms", EventType: domain.EventTypeFire, Confidence: 0.9, Location: "Uttarakhand", Latitude: 30.45, Longitude: 78.15},
		{ID: "evt_2", Source: "firms", EventType: domain.EventTypeFire, Confidence: 0.5, Location: "Kerala", Latitude: 9.9, Longitude: 76.5},
		{ID: "evt_3", Source: "api", EventType: domain.EventTypeFlood, Confidence: 0.8, Location: "Assam", Latitude: 26.1, Longitude: 91.7},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, cluster.requests, "one bulk request for the batch")
	require.Len(t, cluster.docs, 3)
	doc := cluster.docs["disaster-events/evt_1"]
	require.NotNil(t, doc, "event document not indexed: %v", cluster.docs)
	assert.Equal(t, "fire", doc["event_type"])
	assert.Equal(t, map[string]any{"lat": 30.45, "lon": 78.15}, doc["point"])
}

func TestIndexer_PublishAlerts(t *testing.T) {
	cluster := newFakeCluster()
	ix := newTestIndexer(t, cluster)

	err := ix.PublishAlerts(context.Background(), []domain.Alert{{
		ID:       "alrt_evt_1",
		EventID:  "evt_1",
		Severity: domain.SeverityHigh,
		Status:   domain.StatusOpen,
	}})
	require.NoError(t, err)

	doc := cluster.docs["disaster-events-alerts/alrt_evt_1"]
	require.NotNil(t, doc, "alert document not indexed: %v", cluster.docs)
	assert.Equal(t, "high", doc["severity"])
}

func TestIndexer_EmptyBatchSendsNothing(t *testing.T) {
	cluster := newFakeCluster()
	ix := newTestIndexer(t, cluster)

	require.NoError(t, ix.PublishEvents(context.Background(), nil))
	assert.Zero(t, cluster.requests)
}

func TestIndexer_RejectedDocumentDoesNotStopBatch(t *testing.T) {
	cluster := newFakeCluster()
	cluster.reject["evt_1"] = true
	ix := newTestIndexer(t, cluster)

	err := ix.PublishEvents(context.Background(), []domain.Event{{ID: "evt_1"}, {ID: "evt_2"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents")
	assert.Contains(t, err.Error(), "evt_1")
	assert.Contains(t, err.Error(), "mapper_parsing_exception")

	assert.Contains(t, cluster.docs, "disaster-events/evt_2")
	assert.NotContains(t, cluster.docs, "disaster-events/evt_1")
}

func TestIndexer_ErrorResponse(t *testing.T) {
	cluster := newFakeCluster()
	cluster.status = http.StatusForbidden
	ix := newTestIndexer(t, cluster)

	err := ix.PublishEvents(context.Background(), []domain.Event{{ID: "evt_1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
