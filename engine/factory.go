package engine

import (
	"fmt"

	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/rerank"
)

// DefaultNodeFactory 返回内置 post-rank 节点的工厂，
// 供配置驱动的链路组装（config.PostRank）。
func DefaultNodeFactory() *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()
	factory.Register("filter.cel", buildCELNode)
	factory.Register("rerank.topn", buildTopNNode)
	return factory
}

func buildCELNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("filter.cel requires an expr")
	}
	return filter.NewCEL(expr)
}

func buildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopN{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}
