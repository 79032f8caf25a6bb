package engine

import (
	"testing"

	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/rerank"
)

func TestDefaultNodeFactory(t *testing.T) {
	f := DefaultNodeFactory()

	nodes, err := f.BuildNodes([]pipeline.NodeConfig{
		{Type: "filter.cel", Config: map[string]any{"expr": "score > 0.1"}},
		{Type: "rerank.topn", Config: map[string]any{"n": 20}},
	})
	if err != nil {
		t.Fatalf("BuildNodes: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].Kind() != pipeline.KindFilter {
		t.Errorf("nodes[0].Kind = %v, want filter", nodes[0].Kind())
	}
	topn, ok := nodes[1].(*rerank.TopN)
	if !ok || topn.N != 20 {
		t.Errorf("nodes[1] = %#v, want TopN{N:20}", nodes[1])
	}
}

func TestDefaultNodeFactoryErrors(t *testing.T) {
	f := DefaultNodeFactory()

	tests := []struct {
		name string
		cfg  pipeline.NodeConfig
	}{
		{name: "cel without expr", cfg: pipeline.NodeConfig{Type: "filter.cel"}},
		{name: "cel with bad expr", cfg: pipeline.NodeConfig{Type: "filter.cel",
			Config: map[string]any{"expr": "score >"}}},
		{name: "unknown type", cfg: pipeline.NodeConfig{Type: "filter.regex"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Build(tt.cfg.Type, tt.cfg.Config); err == nil {
				t.Error("expected error")
			}
		})
	}
}
