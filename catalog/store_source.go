package catalog

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/rushteam/shoprec/core"
)

// KV 键约定：上游（订单系统、目录管理）写入，引擎侧只读。
const (
	KeyProducts  = "shoprec:catalog:products" // JSON 商品数组
	KeyUserIndex = "shoprec:users:index"      // JSON 用户 ID 数组
	keyUserFmt   = "shoprec:user:%s"          // JSON 单个用户
)

// StoreSource 从 KeyValueStore（内存或 Redis）读取目录快照与用户购买历史，
// 同时实现 core.ProductSource 和 core.UserSource。
type StoreSource struct {
	Store core.KeyValueStore
}

var (
	_ core.ProductSource = (*StoreSource)(nil)
	_ core.UserSource    = (*StoreSource)(nil)
)

func NewStoreSource(store core.KeyValueStore) *StoreSource {
	return &StoreSource{Store: store}
}

func (s *StoreSource) LoadProducts(ctx context.Context) ([]*core.Product, error) {
	data, err := s.Store.Get(ctx, KeyProducts)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s store: %w", s.Store.Name(), err)
	}
	return decodeProducts(data, s.Store.Name())
}

func (s *StoreSource) LoadUsers(ctx context.Context, ids ...string) ([]*core.User, error) {
	if len(ids) == 0 {
		data, err := s.Store.Get(ctx, KeyUserIndex)
		if err != nil {
			return nil, fmt.Errorf("load user index from %s store: %w", s.Store.Name(), err)
		}
		if err := json.Unmarshal(data, &ids); err != nil {
			return nil, fmt.Errorf("parse user index: %w", err)
		}
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(keyUserFmt, id)
	}
	kvs, err := s.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load users from %s store: %w", s.Store.Name(), err)
	}

	users := make([]*core.User, 0, len(ids))
	for i, key := range keys {
		data, ok := kvs[key]
		if !ok {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound,
				fmt.Sprintf("user %q not found in %s store", ids[i], s.Store.Name()))
		}
		var u core.User
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, fmt.Errorf("parse user %q: %w", ids[i], err)
		}
		if u.ID == "" {
			u.ID = ids[i]
		}
		users = append(users, &u)
	}
	return users, nil
}

// SaveProducts 把目录快照写入存储（上游工具或测试夹具使用）。
func (s *StoreSource) SaveProducts(ctx context.Context, products []*core.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, KeyProducts, data)
}

// SaveUsers 写入用户画像并重建索引（上游工具或测试夹具使用）。
func (s *StoreSource) SaveUsers(ctx context.Context, users []*core.User) error {
	ids := make([]string, 0, len(users))
	kvs := make(map[string][]byte, len(users)+1)
	for _, u := range users {
		if u.ID == "" {
			return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
				"cannot save a user without an id")
		}
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		kvs[fmt.Sprintf(keyUserFmt, u.ID)] = data
		ids = append(ids, u.ID)
	}
	index, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	kvs[KeyUserIndex] = index
	return s.Store.BatchSet(ctx, kvs)
}
