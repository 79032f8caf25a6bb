package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/rushteam/shoprec/core"
)

// RESTModel 是远程评分服务的客户端实现（TorchServe 风格的 REST 协议），
// 实现 core.ScoringModel。适合把训练/推理托管到独立模型服务的部署形态。
//
// REST API 格式：
//   - 训练端点：POST /train/{model_name}
//     请求体：{"inputs": [[...]], "labels": [...], "options": {...}}
//     响应：{"metrics": [{"epoch":0,"loss":...,"accuracy":...}, ...]}
//   - 推理端点：POST /predictions/{model_name}
//     请求体：{"instances": [[...]]}
//     响应：{"predictions": [...]}
//   - 健康检查：GET /ping
//
// 远程服务按轮上报的指标在 Fit 返回后整批回放给 OnEpochEnd——
// REST 往返里没有训练中途的回调通道。
type RESTModel struct {
	// Endpoint 服务端点，例如 "http://localhost:8080"
	Endpoint string

	// ModelName 模型名称
	ModelName string

	// ModelVersion 模型版本（可选）
	ModelVersion string

	// Timeout 单次请求超时（训练请求建议放大）
	Timeout time.Duration

	// Token 静态认证 Token（可选）
	Token string

	httpClient *http.Client
}

// RESTModelOption 客户端配置选项。
type RESTModelOption func(*RESTModel)

// WithRESTVersion 设置模型版本。
func WithRESTVersion(version string) RESTModelOption {
	return func(c *RESTModel) { c.ModelVersion = version }
}

// WithRESTTimeout 设置超时时间。
func WithRESTTimeout(timeout time.Duration) RESTModelOption {
	return func(c *RESTModel) { c.Timeout = timeout }
}

// WithRESTToken 设置静态认证 Token。
func WithRESTToken(token string) RESTModelOption {
	return func(c *RESTModel) { c.Token = token }
}

// WithRESTHTTPClient 注入自定义 HTTP 客户端（测试或连接池调优用）。
func WithRESTHTTPClient(client *http.Client) RESTModelOption {
	return func(c *RESTModel) { c.httpClient = client }
}

// NewRESTModel 创建一个远程评分服务客户端。
func NewRESTModel(endpoint, modelName string, opts ...RESTModelOption) *RESTModel {
	c := &RESTModel{
		Endpoint:  endpoint,
		ModelName: modelName,
		Timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.Timeout}
	}
	return c
}

func (c *RESTModel) Name() string {
	return "rest:" + c.ModelName
}

type restTrainRequest struct {
	Inputs  [][]float64      `json:"inputs"`
	Labels  []float64        `json:"labels"`
	Options restTrainOptions `json:"options"`
}

type restTrainOptions struct {
	Epochs       int     `json:"epochs,omitempty"`
	BatchSize    int     `json:"batch_size,omitempty"`
	LearningRate float64 `json:"learning_rate,omitempty"`
	Seed         int64   `json:"seed,omitempty"`
	ModelVersion string  `json:"model_version,omitempty"`
}

type restTrainResponse struct {
	Metrics []core.EpochMetrics `json:"metrics"`
}

// Fit 把训练集提交给远程服务并等待训练完成。
func (c *RESTModel) Fit(ctx context.Context, inputs [][]float64, labels []float64, opts *core.TrainOptions) error {
	if len(inputs) == 0 || len(inputs) != len(labels) {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("training set mismatch: %d inputs vs %d labels", len(inputs), len(labels)))
	}

	req := restTrainRequest{Inputs: inputs, Labels: labels}
	if opts != nil {
		req.Options = restTrainOptions{
			Epochs:       opts.Epochs,
			BatchSize:    opts.BatchSize,
			LearningRate: opts.LearningRate,
			Seed:         opts.Seed,
			ModelVersion: c.ModelVersion,
		}
	}

	var resp restTrainResponse
	if err := c.post(ctx, "/train/"+c.ModelName, req, &resp); err != nil {
		return err
	}
	if opts != nil && opts.OnEpochEnd != nil {
		for _, m := range resp.Metrics {
			opts.OnEpochEnd(m)
		}
	}
	return nil
}

type restPredictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type restPredictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predict 批量推理。
func (c *RESTModel) Predict(ctx context.Context, inputs [][]float64) ([]float64, error) {
	var resp restPredictResponse
	if err := c.post(ctx, "/predictions/"+c.ModelName, restPredictRequest{Instances: inputs}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Predictions) != len(inputs) {
		return nil, fmt.Errorf("rest model returned %d predictions for %d instances",
			len(resp.Predictions), len(inputs))
	}
	return resp.Predictions, nil
}

// Health 健康检查。
func (c *RESTModel) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *RESTModel) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: status %d: %s", path, resp.StatusCode, string(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
