package feature

// Range 是连续特征的取值范围，用于 Min-Max 归一化。
// 公式: x' = (x - min) / (max - min)
// 特点: 将值缩放到 [0, 1] 区间，避免单一特征主导训练
type Range struct {
	Min float64
	Max float64
}

// Normalize 归一化单个值。
// 当 Max == Min（退化范围，例如单商品目录）时分母退化为 1，
// 即返回 value - Min，不会除零。
func (r Range) Normalize(value float64) float64 {
	den := r.Max - r.Min
	if den == 0 {
		den = 1
	}
	return (value - r.Min) / den
}

// Mid 返回范围中点，作为缺失统计量的替代值（如无购买者的商品平均年龄）。
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}
