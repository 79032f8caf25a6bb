package feature

import (
	"context"
)

// TrainingSet 是监督训练样本集：每行输入是 (用户向量 ⧺ 商品向量)，
// 标签为 1（该用户购买过该商品）或 0。构建完成后只读。
type TrainingSet struct {
	Inputs [][]float64
	Labels []float64
}

// Len 返回样本行数。
func (s *TrainingSet) Len() int {
	return len(s.Inputs)
}

// InputDim 返回单行输入的维度（2 * Dimensions）。
func (s *TrainingSet) InputDim() int {
	if len(s.Inputs) == 0 {
		return 0
	}
	return len(s.Inputs[0])
}

// BuildTrainingSet 把（有购买历史的）用户与全部商品做笛卡尔积，
// 生成标注训练对。
//
// 无购买历史的用户被整体排除：他们只会产出负标签加退化的冷启动向量，
// 把模型推向拒绝所有冷启动用户。需要冷启动覆盖的调用方应在上游注入
// 平衡的合成样本。
//
// 输出顺序确定：按用户顺序、再按商品顺序。本层不打乱样本——
// fit 前的 shuffle 是评分模型的职责。
func (e *Encoder) BuildTrainingSet(ctx context.Context) (*TrainingSet, error) {
	productVecs, err := e.EncodeCatalog(ctx)
	if err != nil {
		return nil, err
	}

	products := e.Context.Products
	set := &TrainingSet{}
	for _, u := range e.Context.Users {
		if !u.HasPurchases() {
			continue
		}
		userVec, err := e.EncodeUser(u)
		if err != nil {
			return nil, err
		}
		for i, p := range products {
			label := 0.0
			if u.Purchased(p.Name) {
				label = 1.0
			}
			set.Inputs = append(set.Inputs, Concat(userVec, productVecs[i]))
			set.Labels = append(set.Labels, label)
		}
	}
	return set, nil
}
