package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

func TestQuerySendsPayloadFlagsAndMapsHits(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collections/docs/points/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"result":[{"id":"a","score":0.83,"payload":{"document":"fw.pdf","page_number":4,"text":"rules"}},{"id":"b","score":0.2}]}`))
	}))
	defer srv.Close()

	store := NewStore(Config{URL: srv.URL, APIKey: "secret", Collection: "docs"})
	hits, err := store.Query(context.Background(), []float32{0.1, 0.2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got["with_payload"] != true || got["with_vector"] != false || got["limit"] != float64(DefaultSearchLimit) {
		t.Fatalf("unexpected request body %v", got)
	}
	if len(hits) != 2 || hits[0].Score != 0.83 || hits[0].Payload["document"] != "fw.pdf" {
		t.Fatalf("unexpected hits %+v", hits)
	}
	if hits[1].Payload != nil {
		t.Fatalf("missing payload should stay nil, got %v", hits[1].Payload)
	}
}

func TestQueryReportsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewStore(Config{URL: srv.URL, Collection: "docs"}).Query(context.Background(), []float32{1})
	if err == nil {
		t.Fatalf("expected error for 503")
	}
}

func TestScanCollectsPayloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/docs/points/scroll" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["limit"] != float64(200) {
			t.Errorf("expected limit 200, got %v", body["limit"])
		}
		_, _ = w.Write([]byte(`{"result":{"points":[{"id":1,"payload":{"topic":"VPN"}},{"id":2}],"next_page_offset":null}}`))
	}))
	defer srv.Close()

	payloads, err := NewStore(Config{URL: srv.URL, Collection: "docs"}).Scan(context.Background(), 200)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(payloads) != 1 || payloads[0]["topic"] != "VPN" {
		t.Fatalf("unexpected payloads %v", payloads)
	}
}

func TestEnsureCollectionCreatesWhenMissing(t *testing.T) {
	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&created)
			_, _ = w.Write([]byte(`{"result":true}`))
		}
	}))
	defer srv.Close()

	if err := NewStore(Config{URL: srv.URL, Collection: "docs"}).EnsureCollection(context.Background(), 384); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	vectors, _ := created["vectors"].(map[string]any)
	if vectors["size"] != float64(384) || vectors["distance"] != "Cosine" {
		t.Fatalf("unexpected collection body %v", created)
	}
}

func TestEnsureCollectionKeepsExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("existing collection must not be recreated")
		}
		_, _ = w.Write([]byte(`{"result":{"status":"green"}}`))
	}))
	defer srv.Close()

	if err := NewStore(Config{URL: srv.URL, Collection: "docs"}).EnsureCollection(context.Background(), 384); err != nil {
		t.Fatalf("ensure: %v", err)
	}
}

func TestUpsertWaits(t *testing.T) {
	var body struct {
		Points []map[string]any `json:"points"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Query().Get("wait") != "true" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
	}))
	defer srv.Close()

	err := NewStore(Config{URL: srv.URL, Collection: "docs"}).Upsert(context.Background(), []domain.Point{
		{ID: "6f1c", Vector: []float32{1, 0}, Payload: map[string]any{"document": "a.pdf", "page_number": 1, "text": "x"}},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(body.Points) != 1 || body.Points[0]["id"] != "6f1c" {
		t.Fatalf("unexpected upsert body %+v", body)
	}
}
