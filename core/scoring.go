package core

import "context"

// ScoringModel 是评分模型的领域接口：输入 (用户⧺商品) 拼接向量，
// 输出购买概率。训练与推理的内部机制（层结构、优化器、梯度）对本模块不可见。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（model、service）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 实现：
//   - model.MLP 实现此接口（本地训练/推理）
//   - service.RESTModel 实现此接口（远程模型服务）
//
// 约定：
//   - Fit 是阻塞调用，返回后模型才可用于 Predict
//   - Fit 是随机过程；除非 TrainOptions.Seed 固定，跨运行分数不可复现，
//     调用方只应依赖排序/阈值性质
//   - Predict 对整批输入一次调用，返回与输入行一一对应的 [0,1] 概率
type ScoringModel interface {
	// Name 返回模型名称（用于日志/标签）
	Name() string

	// Fit 用标注样本训练模型
	Fit(ctx context.Context, inputs [][]float64, labels []float64, opts *TrainOptions) error

	// Predict 批量预测，结果顺序与输入一致
	Predict(ctx context.Context, inputs [][]float64) ([]float64, error)
}

// EpochMetrics 是单轮训练结束时的指标快照。
type EpochMetrics struct {
	Epoch    int     `json:"epoch"`
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
}

// EpochCallback 在每轮训练结束时被调用，用于进度上报。
// 注入回调而不是依赖具体的消息原语，训练组件可独立测试。
type EpochCallback func(m EpochMetrics)

// TrainOptions 是 Fit 的训练超参数。零值字段由实现方取默认值。
type TrainOptions struct {
	Epochs       int     // 训练轮数（默认 100）
	BatchSize    int     // 小批量大小（默认 32）
	LearningRate float64 // 学习率（默认 0.01）
	Seed         int64   // 随机种子；0 表示不固定
	Shuffle      bool    // 每轮是否打乱样本顺序

	// OnEpochEnd 每轮结束时的回调（可选）
	OnEpochEnd EpochCallback
}

// DefaultTrainOptions 返回与常见推荐场景匹配的默认超参数。
func DefaultTrainOptions() *TrainOptions {
	return &TrainOptions{
		Epochs:       100,
		BatchSize:    32,
		LearningRate: 0.01,
		Shuffle:      true,
	}
}
