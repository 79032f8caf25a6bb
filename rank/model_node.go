package rank

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// ModelNode 是用评分模型对候选打分并排序的 Rank Node。
//
// 对每个候选拼接 (用户向量 ⧺ 商品向量) 组成一批输入，对整批调用一次
// Predict——不做逐条调用，以摊薄模型服务的固定推理开销——再把分数
// 写回候选并按分数降序稳定排序：分数相同的候选保持原目录顺序。
//
// 返回完整排序列表；Top-K 截断是调用方的事（见 rerank.TopN）。
type ModelNode struct {
	Model core.ScoringModel
}

func (n *ModelNode) Name() string        { return "rank.model" }
func (n *ModelNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ModelNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if n.Model == nil || len(items) == 0 {
		return items, nil
	}

	inputs := make([][]float64, len(items))
	for i, it := range items {
		row := make([]float64, 0, len(rctx.UserVector)+len(it.Vector))
		row = append(row, rctx.UserVector...)
		row = append(row, it.Vector...)
		inputs[i] = row
	}

	scores, err := n.Model.Predict(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(items) {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			"scoring model returned a prediction count that does not match the input batch")
	}

	for i, it := range items {
		it.Score = scores[i]
		it.PutLabel("rank_model", n.Model.Name())
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}
