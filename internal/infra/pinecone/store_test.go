package pinecone

import (
	"testing"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestVectorFromPointCarriesPayload(t *testing.T) {
	v, err := vectorFromPoint(domain.Point{
		ID:      "p-1",
		Vector:  []float32{0.5, 0.25},
		Payload: map[string]any{"document": "ids.pdf", "page_number": 9, "text": "snort rules"},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if v.Id != "p-1" || v.Values == nil || len(*v.Values) != 2 {
		t.Fatalf("unexpected vector %+v", v)
	}
	md := v.Metadata.AsMap()
	if md["document"] != "ids.pdf" || md["page_number"] != float64(9) {
		t.Fatalf("unexpected metadata %v", md)
	}
}

func TestVectorFromPointRejectsUnsupportedMetadata(t *testing.T) {
	_, err := vectorFromPoint(domain.Point{ID: "bad", Payload: map[string]any{"ch": make(chan int)}})
	if err == nil {
		t.Fatalf("expected metadata conversion error")
	}
}

func TestHitFromMatch(t *testing.T) {
	md, err := structpb.NewStruct(map[string]any{"document": "vpn.pdf", "topic": "VPN"})
	if err != nil {
		t.Fatalf("struct: %v", err)
	}
	hit := hitFromMatch(&pinecone.ScoredVector{Vector: &pinecone.Vector{Id: "x", Metadata: md}, Score: 0.5})
	if hit.Score != 0.5 || hit.Payload["topic"] != "VPN" {
		t.Fatalf("unexpected hit %+v", hit)
	}

	bare := hitFromMatch(&pinecone.ScoredVector{Score: 0.25})
	if bare.Payload != nil || bare.Score != 0.25 {
		t.Fatalf("unexpected bare hit %+v", bare)
	}
}
