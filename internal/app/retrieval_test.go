package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/app"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

func TestRetrieveFiltersByThresholdAndKeepsOrder(t *testing.T) {
	store := &stubStore{hits: []domain.Hit{
		{Score: 0.91, Payload: map[string]any{"document": "firewalls.pdf", "page_number": float64(3), "text": "stateful inspection"}},
		{Score: 0.39999, Payload: map[string]any{"document": "noise.pdf"}},
		{Score: 0.40, Payload: map[string]any{"document": "vpn.pdf", "page_number": 7, "text": "ipsec"}},
	}}
	gate := app.NewRetrievalGate(stubEmbedder{vector: []float32{1}}, store, app.DefaultRelevanceThreshold)

	passages, err := gate.Retrieve(context.Background(), "what is a firewall?")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[0].DocumentName != "firewalls.pdf" || passages[0].PageNumber != 3 {
		t.Fatalf("unexpected first passage %+v", passages[0])
	}
	if passages[1].DocumentName != "vpn.pdf" || passages[1].Similarity != 0.40 {
		t.Fatalf("unexpected second passage %+v", passages[1])
	}
	for _, p := range passages {
		if p.Similarity < app.DefaultRelevanceThreshold {
			t.Fatalf("passage below threshold leaked: %+v", p)
		}
	}
}

func TestRetrieveDefaultsMissingPayloadFields(t *testing.T) {
	store := &stubStore{hits: []domain.Hit{{Score: 0.8}}}
	gate := app.NewRetrievalGate(stubEmbedder{}, store, app.DefaultRelevanceThreshold)

	passages, err := gate.Retrieve(context.Background(), "x")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	want := domain.RetrievedPassage{DocumentName: "Unknown", PageNumber: 0, ReferenceText: "", Similarity: 0.8}
	if len(passages) != 1 || passages[0] != want {
		t.Fatalf("expected %+v, got %+v", want, passages)
	}
}

func TestRetrieveEmptyIsNotAnError(t *testing.T) {
	gate := app.NewRetrievalGate(stubEmbedder{}, &stubStore{hits: []domain.Hit{{Score: 0.1}}}, app.DefaultRelevanceThreshold)

	passages, err := gate.Retrieve(context.Background(), "x")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(passages) != 0 {
		t.Fatalf("expected no passages, got %+v", passages)
	}
}

func TestRetrieveSurfacesStoreFailure(t *testing.T) {
	gate := app.NewRetrievalGate(stubEmbedder{}, &stubStore{err: errDown}, app.DefaultRelevanceThreshold)

	_, err := gate.Retrieve(context.Background(), "x")
	if !errors.Is(err, domain.ErrVectorStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
}

func TestRetrieveSurfacesEmbeddingFailure(t *testing.T) {
	store := &stubStore{}
	gate := app.NewRetrievalGate(stubEmbedder{err: errDown}, store, app.DefaultRelevanceThreshold)

	_, err := gate.Retrieve(context.Background(), "x")
	if !errors.Is(err, domain.ErrEmbeddingFailed) {
		t.Fatalf("expected embedding failure, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("store should not be queried without a vector")
	}
}

func TestAssembleFormatsContextAndProvenance(t *testing.T) {
	got := app.Assemble([]domain.RetrievedPassage{
		{DocumentName: "a.pdf", PageNumber: 1, ReferenceText: "alpha", Similarity: 0.876},
		{DocumentName: "b.pdf", PageNumber: 12, ReferenceText: "beta", Similarity: 0.4},
	})

	wantContext := "[a.pdf Pg 1]\nalpha\n\n[b.pdf Pg 12]\nbeta"
	if got.Context != wantContext {
		t.Fatalf("context mismatch:\n%q\n%q", got.Context, wantContext)
	}
	wantSources := "a.pdf (Pg 1) — Score: 0.88\nb.pdf (Pg 12) — Score: 0.40"
	if got.Provenance != wantSources {
		t.Fatalf("provenance mismatch:\n%q\n%q", got.Provenance, wantSources)
	}
}
