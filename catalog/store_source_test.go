package catalog

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

func newStoreSource(t *testing.T) *StoreSource {
	t.Helper()
	mem := store.NewMemory()
	t.Cleanup(func() { mem.Close() })
	return NewStoreSource(mem)
}

func TestStoreSourceProductsRoundTrip(t *testing.T) {
	s := newStoreSource(t)
	ctx := context.Background()

	products := []*core.Product{
		{Name: "Running Shoes", Price: 120, Category: "shoes", Color: "red"},
		{Name: "Office Chair", Price: 250, Category: "chairs", Color: "black"},
	}
	if err := s.SaveProducts(ctx, products); err != nil {
		t.Fatalf("SaveProducts: %v", err)
	}

	got, err := s.LoadProducts(ctx)
	if err != nil {
		t.Fatalf("LoadProducts: %v", err)
	}
	if !reflect.DeepEqual(got, products) {
		t.Errorf("LoadProducts = %v, want %v", got, products)
	}
}

func TestStoreSourceProductsMissing(t *testing.T) {
	s := newStoreSource(t)
	if _, err := s.LoadProducts(context.Background()); err == nil {
		t.Error("expected error when catalog snapshot is absent")
	}
}

func TestStoreSourceUsersRoundTrip(t *testing.T) {
	s := newStoreSource(t)
	ctx := context.Background()

	users := []*core.User{
		{ID: "u1", Age: 24, Purchases: []string{"Running Shoes"}},
		{ID: "u2", Age: 47, Purchases: []string{"Office Chair"}},
	}
	if err := s.SaveUsers(ctx, users); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}

	// 按 ID 精确取
	got, err := s.LoadUsers(ctx, "u2")
	if err != nil {
		t.Fatalf("LoadUsers(u2): %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], users[1]) {
		t.Errorf("LoadUsers(u2) = %v, want [%v]", got, users[1])
	}

	// 不传 ID 时走索引取全量
	got, err = s.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("LoadUsers(): %v", err)
	}
	if !reflect.DeepEqual(got, users) {
		t.Errorf("LoadUsers() = %v, want %v", got, users)
	}
}

func TestStoreSourceUserMissing(t *testing.T) {
	s := newStoreSource(t)
	ctx := context.Background()

	if err := s.SaveUsers(ctx, []*core.User{{ID: "u1", Age: 30}}); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}
	_, err := s.LoadUsers(ctx, "u1", "ghost")
	if !core.IsNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestStoreSourceSaveUserWithoutID(t *testing.T) {
	s := newStoreSource(t)
	err := s.SaveUsers(context.Background(), []*core.User{{Age: 30}})
	if derr := core.GetDomainError(err); derr == nil || derr.Code != core.ErrorCodeInvalidInput {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
