package engine

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/config"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/feature"
	"github.com/rushteam/shoprec/model"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/rank"
	"github.com/rushteam/shoprec/rerank"
)

// Engine 是薄的管线编排层：
//
//	训练： ProductSource → BuildContext → BuildTrainingSet → ScoringModel.Fit → 发布
//	推荐： EncodeUser → rank.ModelNode → (post-rank 节点链)
//
// 每个 Engine 自带一个 Session；不同 Engine 实例互不影响，
// 测试/多租户场景可并存多个会话。
type Engine struct {
	products core.ProductSource
	users    core.UserSource // 可选，TrainIDs 时使用

	session   *Session
	weights   feature.Weights
	trainOpts core.TrainOptions
	newModel  func() core.ScoringModel
	postRank  []pipeline.Node
	logger    watermill.LoggerAdapter
}

// Option 配置 Engine。
type Option func(*Engine)

// WithProductSource 注入商品目录来源（覆盖 New 的 products 参数，
// FromConfig 在配置未指定目录时靠它补齐）。
func WithProductSource(src core.ProductSource) Option {
	return func(e *Engine) { e.products = src }
}

// WithUserSource 注入用户画像来源（按 ID 触发训练时使用）。
func WithUserSource(src core.UserSource) Option {
	return func(e *Engine) { e.users = src }
}

// WithWeights 覆盖默认特征权重。
func WithWeights(w feature.Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithTrainOptions 覆盖默认训练超参数。
func WithTrainOptions(opts core.TrainOptions) Option {
	return func(e *Engine) { e.trainOpts = opts }
}

// WithModelFactory 注入评分模型工厂；每次训练创建一个新模型实例，
// 旧模型在新模型发布前持续服务之前的状态语义（见 Session）。
func WithModelFactory(factory func() core.ScoringModel) Option {
	return func(e *Engine) { e.newModel = factory }
}

// WithPostRank 在排序节点之后追加节点链（过滤、截断等）。
func WithPostRank(nodes ...pipeline.Node) Option {
	return func(e *Engine) { e.postRank = append(e.postRank, nodes...) }
}

// WithLogger 注入日志适配器（默认丢弃）。
func WithLogger(logger watermill.LoggerAdapter) Option {
	return func(e *Engine) { e.logger = logger }
}

// New 创建引擎；products 是商品目录的唯一来源。
func New(products core.ProductSource, opts ...Option) *Engine {
	e := &Engine{
		products:  products,
		session:   NewSession(),
		weights:   feature.DefaultWeights,
		trainOpts: *core.DefaultTrainOptions(),
		newModel:  func() core.ScoringModel { return model.NewMLP() },
		logger:    watermill.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromConfig 按配置组装引擎：目录来源、权重、MLP 超参数与 post-rank 节点链。
// cfg.Catalog 未指定来源时需要显式传入 products。
func FromConfig(cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var source core.ProductSource
	switch {
	case cfg.Catalog.Path != "":
		source = catalog.NewJSONLoader(cfg.Catalog.Path)
	case cfg.Catalog.URL != "":
		source = catalog.NewHTTPLoader(cfg.Catalog.URL)
	}

	hidden := cfg.Model.Hidden
	base := []Option{
		WithWeights(cfg.FeatureWeights()),
		WithTrainOptions(cfg.TrainOptions()),
		WithModelFactory(func() core.ScoringModel { return model.NewMLP(hidden...) }),
	}

	if len(cfg.PostRank) > 0 {
		nodes, err := DefaultNodeFactory().BuildNodes(cfg.PostRank)
		if err != nil {
			return nil, err
		}
		base = append(base, WithPostRank(nodes...))
	}

	e := New(source, append(base, opts...)...)
	if e.products == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"no product source: set catalog.path or catalog.url, or pass one via options")
	}
	return e, nil
}

// Session 返回引擎的会话（状态查询用）。
func (e *Engine) Session() *Session {
	return e.session
}

// Train 执行一次完整训练：加载目录、构建编码上下文与训练集、
// 训练新模型，最后原子发布。onEpoch 可为 nil。
//
// 训练期间 Recommend 返回 ErrModelNotReady；训练失败时恢复训练前的
// 可服务状态，不做自动重试——重训练只能由新的 Train 调用触发。
func (e *Engine) Train(ctx context.Context, users []*core.User, onEpoch core.EpochCallback) error {
	if err := e.session.beginTraining(); err != nil {
		return err
	}

	err := e.train(ctx, users, onEpoch)
	if err != nil {
		e.session.abortTraining()
		return err
	}
	return nil
}

func (e *Engine) train(ctx context.Context, users []*core.User, onEpoch core.EpochCallback) error {
	products, err := e.products.LoadProducts(ctx)
	if err != nil {
		return err
	}
	e.logger.Info("catalog loaded", watermill.LogFields{"products": len(products), "users": len(users)})

	ectx, err := feature.BuildContext(products, users)
	if err != nil {
		return err
	}
	enc := &feature.Encoder{Context: ectx, Weights: e.weights}

	productVecs, err := enc.EncodeCatalog(ctx)
	if err != nil {
		return err
	}
	set, err := enc.BuildTrainingSet(ctx)
	if err != nil {
		return err
	}
	e.logger.Info("training set built", watermill.LogFields{
		"rows": set.Len(), "input_dim": set.InputDim(),
	})

	m := e.newModel()
	opts := e.trainOpts
	opts.OnEpochEnd = onEpoch
	if err := m.Fit(ctx, set.Inputs, set.Labels, &opts); err != nil {
		return err
	}

	e.session.publish(enc, productVecs, m)
	e.logger.Info("model published", watermill.LogFields{"model": m.Name()})
	return nil
}

// TrainIDs 从注入的 UserSource 加载用户画像后训练。
func (e *Engine) TrainIDs(ctx context.Context, ids []string, onEpoch core.EpochCallback) error {
	if e.users == nil {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"no user source configured")
	}
	users, err := e.users.LoadUsers(ctx, ids...)
	if err != nil {
		return err
	}
	return e.Train(ctx, users, onEpoch)
}

// Recommend 用已发布的模型为用户排序整个目录，返回分数降序的完整列表
// （post-rank 节点链可能过滤/截断）。topN <= 0 表示不截断。
//
// 用户向量用训练时的同一个编码上下文产出，训练与推理的数值契约一致。
func (e *Engine) Recommend(ctx context.Context, user *core.User, topN int) ([]*core.Recommendation, error) {
	enc, productVecs, m, err := e.session.serving()
	if err != nil {
		return nil, err
	}

	userVec, err := enc.EncodeUser(user)
	if err != nil {
		return nil, err
	}

	items := make([]*core.Recommendation, len(enc.Context.Products))
	for i, p := range enc.Context.Products {
		items[i] = core.NewRecommendation(p, productVecs[i])
	}

	nodes := []pipeline.Node{&rank.ModelNode{Model: m}}
	nodes = append(nodes, e.postRank...)
	if topN > 0 {
		nodes = append(nodes, &rerank.TopN{N: topN})
	}
	p := &pipeline.Pipeline{Nodes: nodes}

	rctx := &core.RecommendContext{User: user, UserVector: userVec}
	return p.Run(ctx, rctx, items)
}
