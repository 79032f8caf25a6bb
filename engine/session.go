package engine

import (
	"sync"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/feature"
)

// ErrModelNotReady 在尚无完成训练的模型时由 Recommend 返回。
// Dispatcher 对它的处理是记日志且不发事件（见 Dispatcher 文档）；
// 直接调用库的代码可以用 core.IsModelNotReady 区分它和真正的失败。
var ErrModelNotReady = core.NewDomainError(core.ModuleEngine, core.ErrorCodeModelNotReady,
	"no trained model is ready; issue a train command first")

// Status 是会话的训练状态。
type Status int32

const (
	StatusIdle     Status = iota // 从未训练
	StatusTraining               // 训练进行中
	StatusReady                  // 有可用的已训练模型
)

func (s Status) String() string {
	switch s {
	case StatusTraining:
		return "training"
	case StatusReady:
		return "ready"
	default:
		return "idle"
	}
}

// Session 持有一次训练产出的全部可服务状态：编码器（内含编码上下文）、
// 预编码的目录向量与已训练模型。
//
// 状态发布是原子的：新模型只有在 Fit 完全结束后才对 Recommend 可见，
// 训练期间到达的推荐请求收到 ErrModelNotReady，绝不会读到半成品状态。
// 发布后的上下文与向量只读，可被并发推荐请求安全共享。
type Session struct {
	mu     sync.RWMutex
	status Status

	encoder     *feature.Encoder
	productVecs [][]float64
	model       core.ScoringModel
}

func NewSession() *Session {
	return &Session{}
}

// Status 返回当前状态。
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// beginTraining 把会话切入训练态；已有训练在进行时返回错误，
// 训练是串行的（重训练只能由新的 train 命令显式触发）。
func (s *Session) beginTraining() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusTraining {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"a training run is already in progress")
	}
	s.status = StatusTraining
	return nil
}

// abortTraining 在训练失败后回退状态：之前有可用模型则继续 Ready，
// 否则回到 Idle。旧状态未被覆盖，仍可服务。
func (s *Session) abortTraining() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model != nil {
		s.status = StatusReady
		return
	}
	s.status = StatusIdle
}

// publish 原子发布一次训练的全部产物。
func (s *Session) publish(enc *feature.Encoder, productVecs [][]float64, model core.ScoringModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encoder = enc
	s.productVecs = productVecs
	s.model = model
	s.status = StatusReady
}

// serving 返回当前可服务的状态快照。
func (s *Session) serving() (*feature.Encoder, [][]float64, core.ScoringModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status != StatusReady {
		return nil, nil, nil, ErrModelNotReady
	}
	return s.encoder, s.productVecs, s.model, nil
}
