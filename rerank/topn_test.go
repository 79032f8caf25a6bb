package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func TestTopN(t *testing.T) {
	items := []*core.Recommendation{
		{Product: &core.Product{Name: "a"}, Score: 0.9},
		{Product: &core.Product{Name: "b"}, Score: 0.7},
		{Product: &core.Product{Name: "c"}, Score: 0.3},
	}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "truncates", n: 2, want: 2},
		{name: "n equals length", n: 3, want: 3},
		{name: "n larger than length", n: 10, want: 3},
		{name: "zero means no limit", n: 0, want: 3},
		{name: "negative means no limit", n: -1, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopN{N: tt.n}
			got, err := node.Process(context.Background(), nil, items)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			// 保留的是头部，顺序不变
			for i := range got {
				if got[i] != items[i] {
					t.Errorf("item %d reordered", i)
				}
			}
		})
	}
}
