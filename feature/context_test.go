package feature

import (
	"reflect"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func corpusProducts() []*core.Product {
	return []*core.Product{
		{Name: "Running Shoes", Price: 120, Category: "shoes", Color: "red"},
		{Name: "Office Chair", Price: 250, Category: "chairs", Color: "black"},
		{Name: "Trail Shoes", Price: 140, Category: "shoes", Color: "blue"},
		{Name: "Gaming Chair", Price: 320, Category: "chairs", Color: "red"},
	}
}

func corpusUsers() []*core.User {
	return []*core.User{
		{ID: "u1", Age: 20, Purchases: []string{"Running Shoes", "Trail Shoes"}},
		{ID: "u2", Age: 40, Purchases: []string{"Office Chair"}},
		{ID: "u3", Age: 30, Purchases: []string{"Running Shoes"}},
		{ID: "u4", Age: 35}, // 冷启动
	}
}

func TestBuildContextRanges(t *testing.T) {
	ctx, err := BuildContext(corpusProducts(), corpusUsers())
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}

	if ctx.PriceRange != (Range{Min: 120, Max: 320}) {
		t.Errorf("PriceRange = %+v, want {120 320}", ctx.PriceRange)
	}
	if ctx.AgeRange != (Range{Min: 20, Max: 40}) {
		t.Errorf("AgeRange = %+v, want {20 40}", ctx.AgeRange)
	}
}

func TestBuildContextIndexFirstSeenOrder(t *testing.T) {
	ctx, err := BuildContext(corpusProducts(), corpusUsers())
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}

	if got := ctx.CategoryIndex.Keys(); !reflect.DeepEqual(got, []string{"shoes", "chairs"}) {
		t.Errorf("category keys = %v, want first-seen order [shoes chairs]", got)
	}
	if got := ctx.ColorIndex.Keys(); !reflect.DeepEqual(got, []string{"red", "black", "blue"}) {
		t.Errorf("color keys = %v, want first-seen order [red black blue]", got)
	}
	// 2 + 2 品类 + 3 颜色
	if got := ctx.Dimensions(); got != 7 {
		t.Errorf("Dimensions() = %d, want 7", got)
	}
}

// 同一语料重建上下文必须得到完全一致的槽位分配与统计。
func TestBuildContextDeterministic(t *testing.T) {
	a, err := BuildContext(corpusProducts(), corpusUsers())
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	b, err := BuildContext(corpusProducts(), corpusUsers())
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}

	if !reflect.DeepEqual(a.CategoryIndex.Keys(), b.CategoryIndex.Keys()) {
		t.Error("category index order changed between builds")
	}
	if !reflect.DeepEqual(a.ColorIndex.Keys(), b.ColorIndex.Keys()) {
		t.Error("color index order changed between builds")
	}
	if !reflect.DeepEqual(a.AvgPurchaserAgeNorm, b.AvgPurchaserAgeNorm) {
		t.Error("avg purchaser age stats changed between builds")
	}
}

func TestBuildContextAvgPurchaserAge(t *testing.T) {
	ctx, err := BuildContext(corpusProducts(), corpusUsers())
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}

	tests := []struct {
		product string
		want    float64
	}{
		// u1(20) 与 u3(30) 购买，均值 25 → (25-20)/(40-20)
		{product: "Running Shoes", want: 0.25},
		// 仅 u2(40) 购买
		{product: "Office Chair", want: 1.0},
		// 仅 u1(20) 购买
		{product: "Trail Shoes", want: 0.0},
		// 无购买者：年龄中点 30 → 0.5
		{product: "Gaming Chair", want: 0.5},
	}
	for _, tt := range tests {
		if got := ctx.AvgPurchaserAgeNorm[tt.product]; got != tt.want {
			t.Errorf("AvgPurchaserAgeNorm[%q] = %v, want %v", tt.product, got, tt.want)
		}
	}
}

func TestBuildContextEmptyCorpus(t *testing.T) {
	if _, err := BuildContext(nil, corpusUsers()); !core.IsEmptyCorpus(err) {
		t.Errorf("empty products: err = %v, want EMPTY_CORPUS", err)
	}
	if _, err := BuildContext(corpusProducts(), nil); !core.IsEmptyCorpus(err) {
		t.Errorf("empty users: err = %v, want EMPTY_CORPUS", err)
	}
}

func TestBuildContextDuplicateProductName(t *testing.T) {
	products := []*core.Product{
		{Name: "Running Shoes", Price: 120, Category: "shoes", Color: "red"},
		{Name: "Running Shoes", Price: 130, Category: "shoes", Color: "blue"},
	}
	_, err := BuildContext(products, corpusUsers())
	if derr := core.GetDomainError(err); derr == nil || derr.Code != core.ErrorCodeInvalidInput {
		t.Errorf("duplicate name: err = %v, want INVALID_INPUT", err)
	}
}

func TestIndexAddIdempotent(t *testing.T) {
	ix := NewIndex()
	ix.Add("shoes")
	ix.Add("chairs")
	ix.Add("shoes") // 重复登记不改变槽位

	if got := ix.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if i, ok := ix.Lookup("shoes"); !ok || i != 0 {
		t.Errorf("Lookup(shoes) = (%d, %v), want (0, true)", i, ok)
	}
	if i, ok := ix.Lookup("chairs"); !ok || i != 1 {
		t.Errorf("Lookup(chairs) = (%d, %v), want (1, true)", i, ok)
	}
	if _, ok := ix.Lookup("tables"); ok {
		t.Error("Lookup(tables) should miss")
	}
}
