// Package catalog 提供 core.ProductSource / core.UserSource 的具体实现：
// JSON 文件、HTTP 资源、KV 存储快照与 Feast 特征平台。
package catalog

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/rushteam/shoprec/core"
)

// JSONLoader 从固定路径的 JSON 文件加载商品目录，
// 文件形如 [{"name":...,"price":...,"category":...,"color":...}, ...]。
type JSONLoader struct {
	// Path 目录文件路径，例如 "data/products.json"
	Path string
}

var _ core.ProductSource = (*JSONLoader)(nil)

func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{Path: path}
}

func (l *JSONLoader) LoadProducts(_ context.Context) ([]*core.Product, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", l.Path, err)
	}
	return decodeProducts(data, l.Path)
}

func decodeProducts(data []byte, source string) ([]*core.Product, error) {
	var products []*core.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", source, err)
	}
	for i, p := range products {
		if p == nil || p.Name == "" {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
				fmt.Sprintf("catalog %s: product at index %d has no name", source, i))
		}
	}
	return products, nil
}
