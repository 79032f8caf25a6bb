// Package store 提供 core.KeyValueStore 的内存与 Redis 实现，
// 用于存放商品目录快照与用户购买历史（见 catalog.StoreSource）。
//
// 注意：接口定义在 core 包（core.KeyValueStore），此包只包含实现。
package store

import "github.com/rushteam/shoprec/core"

// ErrNotFound 在键不存在时返回；用 core.IsNotFound 检查。
var ErrNotFound = core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, "key not found")
