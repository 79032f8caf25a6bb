package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rushteam/shoprec/core"
)

// HTTPLoader 从远程 JSON 资源加载商品目录（与 JSONLoader 同一文件格式）。
type HTTPLoader struct {
	// URL 目录资源地址，例如 "https://cdn.example.com/data/products.json"
	URL string

	// Timeout 请求超时（默认 10s）
	Timeout time.Duration

	httpClient *http.Client
}

var _ core.ProductSource = (*HTTPLoader)(nil)

func NewHTTPLoader(url string) *HTTPLoader {
	return &HTTPLoader{URL: url, Timeout: 10 * time.Second}
}

func (l *HTTPLoader) LoadProducts(ctx context.Context) ([]*core.Product, error) {
	if l.httpClient == nil {
		l.httpClient = &http.Client{Timeout: l.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog %s: %w", l.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog %s: status %d", l.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", l.URL, err)
	}
	return decodeProducts(data, l.URL)
}
