package feature

import (
	"fmt"

	"github.com/rushteam/shoprec/core"
)

// Index 是"首次出现有序"的类别索引：类别名 → [0, Len) 的稳定整数槽位。
//
// 槽位顺序只取决于类别在商品列表中首次出现的位置，与任何 map 迭代顺序无关。
// 同一语料重建索引得到完全一致的槽位分配，这是 one-hot 编码在训练与推理
// 之间保持可比的前提。
type Index struct {
	keys []string
	pos  map[string]int
}

func NewIndex() *Index {
	return &Index{pos: make(map[string]int)}
}

// Add 登记一个类别；重复登记不改变已分配的槽位。
func (ix *Index) Add(key string) {
	if _, ok := ix.pos[key]; ok {
		return
	}
	ix.pos[key] = len(ix.keys)
	ix.keys = append(ix.keys, key)
}

// Lookup 返回类别的槽位；未登记的类别返回 (0, false)。
func (ix *Index) Lookup(key string) (int, bool) {
	i, ok := ix.pos[key]
	return i, ok
}

// Len 返回已登记的类别数，即 one-hot 段的宽度。
func (ix *Index) Len() int {
	return len(ix.keys)
}

// Keys 返回按槽位排列的类别名副本。
func (ix *Index) Keys() []string {
	out := make([]string, len(ix.keys))
	copy(out, ix.keys)
	return out
}

// EncodingContext 是一次训练运行内不可变的语料统计快照：
// 年龄/价格范围、品类与颜色索引、每商品购买者平均年龄。
//
// 不变量：同一个训练/推理周期内的所有编码调用必须使用同一个
// EncodingContext 实例。索引或范围在训练与推荐之间被重建/重排的话，
// 向量空间即失去可比性。语料变化时必须重建上下文并重新训练。
//
// 构建完成后只读，可被多个并发推荐请求安全共享。
type EncodingContext struct {
	Products []*core.Product
	Users    []*core.User

	AgeRange   Range
	PriceRange Range

	CategoryIndex *Index
	ColorIndex    *Index

	// AvgPurchaserAgeNorm 是商品名 → 归一化的购买者平均年龄；
	// 无购买者的商品记为语料年龄中点的归一化值
	AvgPurchaserAgeNorm map[string]float64

	productByName map[string]*core.Product
}

// Dimensions 返回特征向量长度：价格槽 + 年龄槽 + 品类 one-hot + 颜色 one-hot。
func (c *EncodingContext) Dimensions() int {
	return 2 + c.CategoryIndex.Len() + c.ColorIndex.Len()
}

// ProductByName 按唯一键查找商品。
func (c *EncodingContext) ProductByName(name string) (*core.Product, bool) {
	p, ok := c.productByName[name]
	return p, ok
}

// BuildContext 扫描一遍完整的商品与用户语料，推导编码上下文。
// 不修改输入；商品或用户列表为空时返回 EMPTY_CORPUS 错误
// （空语料无法定义范围与索引）。
func BuildContext(products []*core.Product, users []*core.User) (*EncodingContext, error) {
	if len(products) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeEmptyCorpus,
			"empty product corpus: cannot derive price range and category/color indices")
	}
	if len(users) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeEmptyCorpus,
			"empty user corpus: cannot derive age range")
	}

	ctx := &EncodingContext{
		Products:            products,
		Users:               users,
		CategoryIndex:       NewIndex(),
		ColorIndex:          NewIndex(),
		AvgPurchaserAgeNorm: make(map[string]float64, len(products)),
		productByName:       make(map[string]*core.Product, len(products)),
	}

	ctx.PriceRange = Range{Min: products[0].Price, Max: products[0].Price}
	for _, p := range products {
		if p.Price < ctx.PriceRange.Min {
			ctx.PriceRange.Min = p.Price
		}
		if p.Price > ctx.PriceRange.Max {
			ctx.PriceRange.Max = p.Price
		}
		// 首次出现顺序分配 one-hot 槽位
		ctx.CategoryIndex.Add(p.Category)
		ctx.ColorIndex.Add(p.Color)
		if _, dup := ctx.productByName[p.Name]; dup {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
				fmt.Sprintf("duplicate product name %q in catalog", p.Name))
		}
		ctx.productByName[p.Name] = p
	}

	ctx.AgeRange = Range{Min: users[0].Age, Max: users[0].Age}
	for _, u := range users {
		if u.Age < ctx.AgeRange.Min {
			ctx.AgeRange.Min = u.Age
		}
		if u.Age > ctx.AgeRange.Max {
			ctx.AgeRange.Max = u.Age
		}
	}

	// 每商品累计购买者年龄，推导平均年龄并归一化；
	// 无购买者时用语料年龄中点替代
	ageSums := make(map[string]float64)
	ageCounts := make(map[string]int)
	for _, u := range users {
		for _, name := range u.Purchases {
			ageSums[name] += u.Age
			ageCounts[name]++
		}
	}
	midNorm := ctx.AgeRange.Normalize(ctx.AgeRange.Mid())
	for _, p := range products {
		if n := ageCounts[p.Name]; n > 0 {
			ctx.AvgPurchaserAgeNorm[p.Name] = ctx.AgeRange.Normalize(ageSums[p.Name] / float64(n))
		} else {
			ctx.AvgPurchaserAgeNorm[p.Name] = midNorm
		}
	}

	return ctx, nil
}
