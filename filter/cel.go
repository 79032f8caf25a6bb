package filter

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// CEL 是表达式驱动的过滤节点，使用 CEL (Common Expression Language) 实现。
// 表达式对每个候选求值，结果为 false 的候选被剔除；候选间相对顺序不变，
// 可以安全地挂在排序节点之后。
//
// 表达式可见的变量：
//   - score: 模型分数，double
//   - product: 商品元信息，{name, price, category, color}
//   - labels: 解释性标签，map[string]string
//
// 示例：
//   - `score > 0.2`
//   - `product.price < 150.0 && product.category != "chairs"`
//   - `labels.rank_model == "mlp" || score > 0.5`
type CEL struct {
	Expr string

	prg cel.Program
}

// NewCEL 创建并编译一个 CEL 过滤节点；表达式非法时返回编译错误。
// 编译后的程序线程安全，可被并发请求复用。
func NewCEL(expr string) (*CEL, error) {
	env, err := cel.NewEnv(
		cel.Variable("score", cel.DoubleType),
		cel.Variable("product", cel.DynType),
		cel.Variable("labels", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build cel program: %w", err)
	}
	return &CEL{Expr: expr, prg: prg}, nil
}

func (n *CEL) Name() string        { return "filter.cel" }
func (n *CEL) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *CEL) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if n.prg == nil || len(items) == 0 {
		return items, nil
	}

	kept := make([]*core.Recommendation, 0, len(items))
	for _, it := range items {
		out, _, err := n.prg.Eval(map[string]any{
			"score": it.Score,
			"product": map[string]any{
				"name":     it.Product.Name,
				"price":    it.Product.Price,
				"category": it.Product.Category,
				"color":    it.Product.Color,
			},
			"labels": it.Labels,
		})
		if err != nil {
			return nil, fmt.Errorf("eval expression %q: %w", n.Expr, err)
		}
		keep, ok := out.Value().(bool)
		if !ok {
			return nil, fmt.Errorf("expression %q did not evaluate to bool", n.Expr)
		}
		if keep {
			kept = append(kept, it)
		}
	}
	return kept, nil
}
