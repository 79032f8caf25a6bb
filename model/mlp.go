package model

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/rushteam/shoprec/core"
)

// MLP 是本地可训练的前馈神经网络（多层感知机），实现 core.ScoringModel。
//
// 结构：输入层 → 若干 ReLU 隐藏层 → 单神经元 Sigmoid 输出（购买概率）。
// 默认隐藏层 [128, 64, 32]，配二元交叉熵损失与 Adam 优化器。
//
// 工程特征：
//   - 实时性：好（本地推理，无网络往返）
//   - 可解释性：弱（黑盒模型）
//   - 特征交互：强（自动学习用户段与商品段的交互）
//
// Fit 与 Predict 不做内部加锁：调用方保证训练完成后再用于推理
// （engine.Session 的原子发布即是这个保证）。
type MLP struct {
	// Hidden 是各隐藏层的神经元数量
	Hidden []int

	// sizes[0] 是输入维度，sizes[len-1] == 1
	sizes []int

	// weights[layer][neuron][input]，biases[layer][neuron]
	weights [][][]float64
	biases  [][]float64

	trained bool
}

// NewMLP 创建一个未训练的 MLP。不传隐藏层时使用默认结构 [128, 64, 32]。
func NewMLP(hidden ...int) *MLP {
	if len(hidden) == 0 {
		hidden = []int{128, 64, 32}
	}
	return &MLP{Hidden: hidden}
}

func (m *MLP) Name() string { return "mlp" }

// Fit 用小批量梯度下降训练网络。
//
// 每轮按 opts.Shuffle 决定是否打乱样本顺序（种子来自 opts.Seed，
// 0 表示不固定），轮末通过 opts.OnEpochEnd 上报损失与准确率。
// 损失出现 NaN 视为训练失败并返回错误，不做自动重试。
func (m *MLP) Fit(ctx context.Context, inputs [][]float64, labels []float64, opts *core.TrainOptions) error {
	if len(inputs) == 0 || len(inputs) != len(labels) {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("training set mismatch: %d inputs vs %d labels", len(inputs), len(labels)))
	}
	o := fillOptions(opts)

	rng := rand.New(rand.NewSource(o.Seed))
	if o.Seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	inputDim := len(inputs[0])
	m.sizes = append([]int{inputDim}, append(append([]int{}, m.Hidden...), 1)...)
	m.initParams(rng)

	adam := newAdamState(m.sizes, o.LearningRate)

	perm := make([]int, len(inputs))
	for i := range perm {
		perm[i] = i
	}

	// 梯度缓冲复用，adamState.step 在更新后清零
	gradW, gradB := m.zeroGrads()

	for epoch := 0; epoch < o.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if o.Shuffle {
			rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		}

		var lossSum float64
		var correct int
		for start := 0; start < len(perm); start += o.BatchSize {
			end := start + o.BatchSize
			if end > len(perm) {
				end = len(perm)
			}
			batch := perm[start:end]

			for _, idx := range batch {
				x, y := inputs[idx], labels[idx]
				acts, zs := m.forward(x)
				p := acts[len(acts)-1][0]

				lossSum += bceLoss(p, y)
				if (p > 0.5) == (y > 0.5) {
					correct++
				}
				m.backward(acts, zs, y, gradW, gradB)
			}
			adam.step(m.weights, m.biases, gradW, gradB, len(batch))
		}

		loss := lossSum / float64(len(inputs))
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
				fmt.Sprintf("training diverged at epoch %d: loss is not finite", epoch))
		}
		if o.OnEpochEnd != nil {
			o.OnEpochEnd(core.EpochMetrics{
				Epoch:    epoch,
				Loss:     loss,
				Accuracy: float64(correct) / float64(len(inputs)),
			})
		}
	}

	m.trained = true
	return nil
}

// Predict 批量推理，返回与输入一一对应的 [0,1] 概率。
func (m *MLP) Predict(ctx context.Context, inputs [][]float64) ([]float64, error) {
	if !m.trained {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelNotReady,
			"mlp has not been fitted")
	}
	out := make([]float64, len(inputs))
	for i, x := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(x) != m.sizes[0] {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
				fmt.Sprintf("input row %d has dim %d, model expects %d", i, len(x), m.sizes[0]))
		}
		acts, _ := m.forward(x)
		out[i] = acts[len(acts)-1][0]
	}
	return out, nil
}

func fillOptions(opts *core.TrainOptions) *core.TrainOptions {
	def := core.DefaultTrainOptions()
	if opts == nil {
		return def
	}
	o := *opts
	if o.Epochs <= 0 {
		o.Epochs = def.Epochs
	}
	if o.BatchSize <= 0 {
		o.BatchSize = def.BatchSize
	}
	if o.LearningRate <= 0 {
		o.LearningRate = def.LearningRate
	}
	return &o
}

// initParams He 初始化：适配 ReLU 的 randn * sqrt(2/fanIn)。
func (m *MLP) initParams(rng *rand.Rand) {
	layers := len(m.sizes) - 1
	m.weights = make([][][]float64, layers)
	m.biases = make([][]float64, layers)
	for l := 0; l < layers; l++ {
		in, out := m.sizes[l], m.sizes[l+1]
		scale := math.Sqrt(2.0 / float64(in))
		m.weights[l] = make([][]float64, out)
		m.biases[l] = make([]float64, out)
		for j := 0; j < out; j++ {
			m.weights[l][j] = make([]float64, in)
			for k := 0; k < in; k++ {
				m.weights[l][j][k] = rng.NormFloat64() * scale
			}
		}
	}
}

func (m *MLP) zeroGrads() ([][][]float64, [][]float64) {
	layers := len(m.sizes) - 1
	gradW := make([][][]float64, layers)
	gradB := make([][]float64, layers)
	for l := 0; l < layers; l++ {
		gradW[l] = make([][]float64, m.sizes[l+1])
		gradB[l] = make([]float64, m.sizes[l+1])
		for j := range gradW[l] {
			gradW[l][j] = make([]float64, m.sizes[l])
		}
	}
	return gradW, gradB
}

// forward 前向传播，返回每层激活值与加权输入（供反向传播使用）。
func (m *MLP) forward(x []float64) (acts [][]float64, zs [][]float64) {
	layers := len(m.sizes) - 1
	acts = make([][]float64, layers+1)
	zs = make([][]float64, layers)
	acts[0] = x

	for l := 0; l < layers; l++ {
		z := make([]float64, m.sizes[l+1])
		a := make([]float64, m.sizes[l+1])
		for j := 0; j < m.sizes[l+1]; j++ {
			sum := m.biases[l][j]
			w := m.weights[l][j]
			for k, v := range acts[l] {
				sum += w[k] * v
			}
			z[j] = sum
			if l < layers-1 {
				a[j] = relu(sum)
			} else {
				a[j] = sigmoid(sum)
			}
		}
		zs[l] = z
		acts[l+1] = a
	}
	return acts, zs
}

// backward 反向传播单个样本，把梯度累加到 gradW/gradB。
// Sigmoid 输出配二元交叉熵时输出层残差化简为 (p - y)。
func (m *MLP) backward(acts, zs [][]float64, y float64, gradW [][][]float64, gradB [][]float64) {
	layers := len(m.sizes) - 1
	delta := []float64{acts[layers][0] - y}

	for l := layers - 1; l >= 0; l-- {
		for j, d := range delta {
			gradB[l][j] += d
			for k, a := range acts[l] {
				gradW[l][j][k] += d * a
			}
		}
		if l == 0 {
			break
		}
		prev := make([]float64, m.sizes[l])
		for k := 0; k < m.sizes[l]; k++ {
			var sum float64
			for j, d := range delta {
				sum += m.weights[l][j][k] * d
			}
			if zs[l-1][k] > 0 {
				prev[k] = sum
			}
		}
		delta = prev
	}
}

// adamState 是 Adam 优化器的一阶/二阶矩估计。
type adamState struct {
	lr           float64
	beta1, beta2 float64
	eps          float64
	t            int

	mW, vW [][][]float64
	mB, vB [][]float64
}

func newAdamState(sizes []int, lr float64) *adamState {
	layers := len(sizes) - 1
	s := &adamState{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-8}
	alloc3 := func() [][][]float64 {
		out := make([][][]float64, layers)
		for l := 0; l < layers; l++ {
			out[l] = make([][]float64, sizes[l+1])
			for j := range out[l] {
				out[l][j] = make([]float64, sizes[l])
			}
		}
		return out
	}
	alloc2 := func() [][]float64 {
		out := make([][]float64, layers)
		for l := 0; l < layers; l++ {
			out[l] = make([]float64, sizes[l+1])
		}
		return out
	}
	s.mW, s.vW = alloc3(), alloc3()
	s.mB, s.vB = alloc2(), alloc2()
	return s
}

// step 按批内平均梯度做一次 Adam 更新。
func (s *adamState) step(weights [][][]float64, biases [][]float64, gradW [][][]float64, gradB [][]float64, batchSize int) {
	s.t++
	n := float64(batchSize)
	c1 := 1 - math.Pow(s.beta1, float64(s.t))
	c2 := 1 - math.Pow(s.beta2, float64(s.t))

	update := func(param, m, v *float64, grad float64) {
		g := grad / n
		*m = s.beta1**m + (1-s.beta1)*g
		*v = s.beta2**v + (1-s.beta2)*g*g
		mHat := *m / c1
		vHat := *v / c2
		*param -= s.lr * mHat / (math.Sqrt(vHat) + s.eps)
	}

	for l := range weights {
		for j := range weights[l] {
			for k := range weights[l][j] {
				update(&weights[l][j][k], &s.mW[l][j][k], &s.vW[l][j][k], gradW[l][j][k])
				gradW[l][j][k] = 0
			}
			update(&biases[l][j], &s.mB[l][j], &s.vB[l][j], gradB[l][j])
			gradB[l][j] = 0
		}
	}
}

// bceLoss 二元交叉熵，概率截断到 [1e-7, 1-1e-7] 避免 log(0)。
func bceLoss(p, y float64) float64 {
	const eps = 1e-7
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
