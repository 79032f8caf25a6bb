package feature

import (
	"fmt"
	"math"

	"github.com/rushteam/shoprec/core"
)

// Weights 是各特征段的重要性权重，向量的每一段在编码时已乘以对应权重。
// 权重之和必须为 1.0，保证向量各段的量纲一致。
type Weights struct {
	Price    float64 `yaml:"price" json:"price"`
	Age      float64 `yaml:"age" json:"age"`
	Category float64 `yaml:"category" json:"category"`
	Color    float64 `yaml:"color" json:"color"`
}

// DefaultWeights 是默认权重：品类信号最强，颜色次之，价格与年龄为辅。
var DefaultWeights = Weights{
	Price:    0.2,
	Age:      0.1,
	Category: 0.4,
	Color:    0.3,
}

// Validate 校验权重之和为 1.0（容差 1e-9）。
func (w Weights) Validate() error {
	sum := w.Price + w.Age + w.Category + w.Color
	if math.Abs(sum-1.0) > 1e-9 {
		return core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			fmt.Sprintf("feature weights must sum to 1.0, got %v", sum))
	}
	return nil
}

// Encoder 基于一个 EncodingContext 把单个商品或用户转为定长加权向量。
// 向量布局: [price, age, category one-hot..., color one-hot...]，
// 长度恒等于 Context.Dimensions()。Encoder 无状态、并发安全。
type Encoder struct {
	Context *EncodingContext
	Weights Weights
}

// NewEncoder 创建使用默认权重的编码器。
func NewEncoder(ctx *EncodingContext) *Encoder {
	return &Encoder{Context: ctx, Weights: DefaultWeights}
}

// EncodeProduct 编码单个商品。
//
// 品类或颜色未出现在上下文中（构建上下文时未见过）是编码契约违例，
// 返回 UNKNOWN_CATEGORY / UNKNOWN_COLOR 错误而不是静默兜底：
// 错配的编码会污染整个向量空间。
func (e *Encoder) EncodeProduct(p *core.Product) ([]float64, error) {
	ctx := e.Context
	catIdx, ok := ctx.CategoryIndex.Lookup(p.Category)
	if !ok {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnknownCategory,
			fmt.Sprintf("category %q of product %q was not seen when the encoding context was built", p.Category, p.Name))
	}
	colorIdx, ok := ctx.ColorIndex.Lookup(p.Color)
	if !ok {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnknownColor,
			fmt.Sprintf("color %q of product %q was not seen when the encoding context was built", p.Color, p.Name))
	}

	vec := make([]float64, ctx.Dimensions())
	vec[0] = ctx.PriceRange.Normalize(p.Price) * e.Weights.Price

	ageNorm, ok := ctx.AvgPurchaserAgeNorm[p.Name]
	if !ok {
		// 上下文语料之外的商品没有购买者统计，用年龄中点替代
		ageNorm = ctx.AgeRange.Normalize(ctx.AgeRange.Mid())
	}
	vec[1] = ageNorm * e.Weights.Age

	vec[2+catIdx] = e.Weights.Category
	vec[2+ctx.CategoryIndex.Len()+colorIdx] = e.Weights.Color
	return vec, nil
}

// EncodeUser 编码单个用户。
//
// 有购买历史时，用户向量是其购买商品向量的逐元素算术平均（购买历史的质心）。
// 购买记录引用了目录外的商品名时返回 NOT_FOUND 错误。
//
// 冷启动（无购买历史）时价格与品类/颜色段全零（无商品信号），
// 仅年龄槽为 normalize(age)*W.Age。两个分支产出的向量长度与段序完全一致。
func (e *Encoder) EncodeUser(u *core.User) ([]float64, error) {
	ctx := e.Context
	if !u.HasPurchases() {
		vec := make([]float64, ctx.Dimensions())
		vec[1] = ctx.AgeRange.Normalize(u.Age) * e.Weights.Age
		return vec, nil
	}

	vec := make([]float64, ctx.Dimensions())
	for _, name := range u.Purchases {
		p, ok := ctx.ProductByName(name)
		if !ok {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound,
				fmt.Sprintf("purchase references product %q which is not in the catalog", name))
		}
		pv, err := e.EncodeProduct(p)
		if err != nil {
			return nil, err
		}
		for i, v := range pv {
			vec[i] += v
		}
	}
	n := float64(len(u.Purchases))
	for i := range vec {
		vec[i] /= n
	}
	return vec, nil
}

// Concat 拼接用户向量与商品向量，作为评分模型的一行输入，
// 长度为 2*Dimensions。
func Concat(userVec, productVec []float64) []float64 {
	out := make([]float64, 0, len(userVec)+len(productVec))
	out = append(out, userVec...)
	out = append(out, productVec...)
	return out
}
