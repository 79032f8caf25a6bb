package core

import "context"

// ProductSource 是商品目录的数据源边界。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（catalog）实现
//   - 引擎只关心"返回内存中的商品记录"，加载方式（文件/HTTP/KV 存储）对其透明
//
// 实现：
//   - catalog.JSONLoader（固定路径 JSON 文件）
//   - catalog.HTTPLoader（远程 JSON 资源）
//   - catalog.StoreSource（KeyValueStore 内的目录快照）
type ProductSource interface {
	// LoadProducts 返回当前目录的全部商品
	LoadProducts(ctx context.Context) ([]*Product, error)
}

// UserSource 是用户画像的数据源边界。
//
// 实现：
//   - catalog.StoreSource（KeyValueStore 内的购买历史）
//   - catalog.FeastSource（Feast 特征平台的在线特征）
type UserSource interface {
	// LoadUsers 返回指定用户的画像；ids 为空时返回全部已知用户
	LoadUsers(ctx context.Context, ids ...string) ([]*User, error)
}

// KeyValueStore 是字节级 KV 存储边界（内存/Redis 实现见 store 包）。
// 目录快照、购买历史与编码产物都以序列化字节存取。
type KeyValueStore interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds ...int) error
	Delete(ctx context.Context, key string) error
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)
	BatchSet(ctx context.Context, kvs map[string][]byte, ttlSeconds ...int) error
	Close() error
}
