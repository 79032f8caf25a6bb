package core

// Product 是商品的不可变记录。Name 是目录内的唯一键，
// 加载完成后不得修改（编码上下文通过 Name 关联统计信息）。
type Product struct {
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	Category string  `json:"category" yaml:"category"`
	Color    string  `json:"color" yaml:"color"`
}

// User 是用户记录。Purchases 按时间顺序存放已购买商品的 Name 引用，
// 允许为空（冷启动用户，见 feature.EncodeUser）。
type User struct {
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Age       float64  `json:"age" yaml:"age"`
	Purchases []string `json:"purchases" yaml:"purchases"`
}

// HasPurchases 返回用户是否有购买历史（非冷启动）。
func (u *User) HasPurchases() bool {
	return u != nil && len(u.Purchases) > 0
}

// Purchased 返回用户是否购买过指定商品。
func (u *User) Purchased(name string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.Purchases {
		if p == name {
			return true
		}
	}
	return false
}

// Recommendation 是推荐链路中的统一承载结构：商品元信息、特征向量、
// 模型分数与解释性标签。Score 用于排序决策；Labels 用于解释与策略驱动。
type Recommendation struct {
	Product *Product
	Vector  []float64
	Score   float64
	Labels  map[string]string
}

func NewRecommendation(p *Product, vector []float64) *Recommendation {
	return &Recommendation{
		Product: p,
		Vector:  vector,
		Labels:  make(map[string]string),
	}
}

// PutLabel 写入解释性标签；同名 key 以 '|' 累积，保留历史、可追踪。
func (r *Recommendation) PutLabel(key, value string) {
	if r.Labels == nil {
		r.Labels = make(map[string]string)
	}
	if old, ok := r.Labels[key]; ok && old != "" && value != "" {
		r.Labels[key] = old + "|" + value
		return
	}
	r.Labels[key] = value
}
