package feature

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EncodeCatalog 并发编码整个商品目录，返回与 Context.Products 顺序对齐的
// 向量切片。结果只读，可在多个推荐请求间共享。
//
// 任一商品编码失败则整体失败（不产出部分向量）。
func (e *Encoder) EncodeCatalog(ctx context.Context) ([][]float64, error) {
	products := e.Context.Products
	vectors := make([][]float64, len(products))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range products {
		eg.Go(func() error {
			vec, err := e.EncodeProduct(p)
			if err != nil {
				return err
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
