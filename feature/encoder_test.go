package feature

import (
	"math"
	"reflect"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func newTestEncoder(t *testing.T) *Encoder {
	t.Helper()
	ctx, err := BuildContext(corpusProducts(), corpusUsers())
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	return NewEncoder(ctx)
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{name: "default weights", w: DefaultWeights},
		{name: "uniform weights", w: Weights{Price: 0.25, Age: 0.25, Category: 0.25, Color: 0.25}},
		{name: "sum below one", w: Weights{Price: 0.2, Age: 0.1, Category: 0.4, Color: 0.2}, wantErr: true},
		{name: "sum above one", w: Weights{Price: 0.5, Age: 0.5, Category: 0.5, Color: 0.5}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.w.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// 向量每段都是 normalize(原始值)*权重，one-hot 槽位直接落权重值。
func TestEncodeProductSegments(t *testing.T) {
	e := newTestEncoder(t)
	ctx := e.Context

	p := ctx.Products[2] // Trail Shoes: 140, shoes, blue
	vec, err := e.EncodeProduct(p)
	if err != nil {
		t.Fatalf("EncodeProduct: %v", err)
	}

	if got := len(vec); got != ctx.Dimensions() {
		t.Fatalf("len(vec) = %d, want %d", got, ctx.Dimensions())
	}
	if want := ctx.PriceRange.Normalize(140) * e.Weights.Price; vec[0] != want {
		t.Errorf("price slot = %v, want %v", vec[0], want)
	}
	if want := ctx.AvgPurchaserAgeNorm["Trail Shoes"] * e.Weights.Age; vec[1] != want {
		t.Errorf("age slot = %v, want %v", vec[1], want)
	}
	// shoes → 槽位 0，blue → 槽位 2
	if vec[2] != e.Weights.Category {
		t.Errorf("category one-hot = %v, want %v", vec[2], e.Weights.Category)
	}
	if vec[2+ctx.CategoryIndex.Len()+2] != e.Weights.Color {
		t.Errorf("color one-hot = %v, want %v", vec[2+ctx.CategoryIndex.Len()+2], e.Weights.Color)
	}
	// 除四个激活槽位外全零
	var nonzero int
	for _, v := range vec {
		if v != 0 {
			nonzero++
		}
	}
	if nonzero > 4 {
		t.Errorf("vector has %d non-zero slots, want at most 4", nonzero)
	}
}

func TestEncodeProductUnknownCategoryColor(t *testing.T) {
	e := newTestEncoder(t)

	_, err := e.EncodeProduct(&core.Product{Name: "Desk", Price: 99, Category: "desks", Color: "red"})
	if !core.IsUnknownCategory(err) {
		t.Errorf("unknown category: err = %v, want UNKNOWN_CATEGORY", err)
	}
	_, err = e.EncodeProduct(&core.Product{Name: "Desk", Price: 99, Category: "shoes", Color: "green"})
	if !core.IsUnknownColor(err) {
		t.Errorf("unknown color: err = %v, want UNKNOWN_COLOR", err)
	}
}

// 单一购买的用户向量就是该商品的向量（单元素质心）。
func TestEncodeUserSinglePurchaseEqualsProduct(t *testing.T) {
	products := []*core.Product{
		{Name: "A", Price: 100, Category: "shoes", Color: "red"},
		{Name: "B", Price: 50, Category: "chairs", Color: "blue"},
	}
	users := []*core.User{
		{ID: "u1", Age: 30, Purchases: []string{"A"}},
		{ID: "u2", Age: 50, Purchases: []string{"B"}},
	}
	ctx, err := BuildContext(products, users)
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if got := ctx.Dimensions(); got != 6 {
		t.Fatalf("Dimensions() = %d, want 6", got)
	}

	e := NewEncoder(ctx)
	userVec, err := e.EncodeUser(users[0])
	if err != nil {
		t.Fatalf("EncodeUser: %v", err)
	}
	productVec, err := e.EncodeProduct(products[0])
	if err != nil {
		t.Fatalf("EncodeProduct: %v", err)
	}
	if !reflect.DeepEqual(userVec, productVec) {
		t.Errorf("single-purchase user vector = %v, want product vector %v", userVec, productVec)
	}
}

// 多购买用户向量是各购买商品向量的逐元素平均。
func TestEncodeUserCentroid(t *testing.T) {
	e := newTestEncoder(t)
	u := &core.User{ID: "u1", Age: 20, Purchases: []string{"Running Shoes", "Trail Shoes"}}

	got, err := e.EncodeUser(u)
	if err != nil {
		t.Fatalf("EncodeUser: %v", err)
	}
	a, _ := e.EncodeProduct(e.Context.Products[0])
	b, _ := e.EncodeProduct(e.Context.Products[2])
	for i := range got {
		want := (a[i] + b[i]) / 2
		if math.Abs(got[i]-want) > 1e-12 {
			t.Fatalf("vec[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestEncodeUserColdStart(t *testing.T) {
	e := newTestEncoder(t)
	// 年龄正好是语料中点 30 → 年龄槽应为 0.5*W.Age
	vec, err := e.EncodeUser(&core.User{ID: "cold", Age: 30})
	if err != nil {
		t.Fatalf("EncodeUser: %v", err)
	}

	if got := len(vec); got != e.Context.Dimensions() {
		t.Fatalf("cold-start len = %d, want %d", got, e.Context.Dimensions())
	}
	if want := 0.5 * e.Weights.Age; vec[1] != want {
		t.Errorf("age slot = %v, want %v", vec[1], want)
	}
	for i, v := range vec {
		if i != 1 && v != 0 {
			t.Errorf("vec[%d] = %v, want 0 for cold-start user", i, v)
		}
	}
}

// 冷启动与有历史用户必须产出等长向量，否则无法喂给同一个模型。
func TestEncodeUserBranchesSameLength(t *testing.T) {
	e := newTestEncoder(t)

	cold, err := e.EncodeUser(&core.User{ID: "cold", Age: 22})
	if err != nil {
		t.Fatalf("EncodeUser(cold): %v", err)
	}
	warm, err := e.EncodeUser(&core.User{ID: "warm", Age: 22, Purchases: []string{"Office Chair"}})
	if err != nil {
		t.Fatalf("EncodeUser(warm): %v", err)
	}
	if len(cold) != len(warm) {
		t.Errorf("cold len %d != warm len %d", len(cold), len(warm))
	}
}

func TestEncodeUserUnknownPurchase(t *testing.T) {
	e := newTestEncoder(t)
	_, err := e.EncodeUser(&core.User{ID: "u", Age: 25, Purchases: []string{"Flying Carpet"}})
	if !core.IsNotFound(err) {
		t.Errorf("unknown purchase: err = %v, want NOT_FOUND", err)
	}
}

func TestConcat(t *testing.T) {
	got := Concat([]float64{1, 2}, []float64{3, 4, 5})
	want := []float64{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Concat = %v, want %v", got, want)
	}
}
