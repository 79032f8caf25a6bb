// Package config 提供引擎的 YAML 配置。
//
// 示例：
//
//	catalog:
//	  path: data/products.json
//	weights:
//	  price: 0.2
//	  age: 0.1
//	  category: 0.4
//	  color: 0.3
//	model:
//	  hidden: [128, 64, 32]
//	  epochs: 100
//	  batch_size: 32
//	  learning_rate: 0.01
//	post_rank:
//	  - type: filter.cel
//	    config: {expr: "score > 0.1"}
//	  - type: rerank.topn
//	    config: {n: 20}
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/feature"
	"github.com/rushteam/shoprec/pipeline"
)

// CatalogConfig 指定商品目录的来源；Path 与 URL 二选一，
// 都不填时由调用方自行注入 ProductSource。
type CatalogConfig struct {
	Path string `yaml:"path"` // 本地 JSON 文件
	URL  string `yaml:"url"`  // 远程 JSON 资源
}

// ModelConfig 是本地 MLP 的超参数。
type ModelConfig struct {
	Hidden       []int   `yaml:"hidden"`
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	Seed         int64   `yaml:"seed"`
}

// RedisConfig 是可选的 Redis 数据源配置（目录快照与购买历史）。
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// Config 是引擎的完整配置。
type Config struct {
	Catalog  CatalogConfig         `yaml:"catalog"`
	Weights  *feature.Weights      `yaml:"weights"` // 缺省使用 feature.DefaultWeights
	Model    ModelConfig           `yaml:"model"`
	Redis    *RedisConfig          `yaml:"redis"`
	PostRank []pipeline.NodeConfig `yaml:"post_rank"`
}

// Default 返回与原始工作负载一致的默认配置。
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Hidden:       []int{128, 64, 32},
			Epochs:       100,
			BatchSize:    32,
			LearningRate: 0.01,
		},
	}
}

// Load 从 YAML 文件加载配置并校验。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置的一致性（目前只有权重之和）。
func (c *Config) Validate() error {
	if c.Weights != nil {
		if err := c.Weights.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FeatureWeights 返回生效的特征权重。
func (c *Config) FeatureWeights() feature.Weights {
	if c.Weights != nil {
		return *c.Weights
	}
	return feature.DefaultWeights
}

// TrainOptions 把模型配置转为训练超参数。
func (c *Config) TrainOptions() core.TrainOptions {
	opts := core.DefaultTrainOptions()
	if c.Model.Epochs > 0 {
		opts.Epochs = c.Model.Epochs
	}
	if c.Model.BatchSize > 0 {
		opts.BatchSize = c.Model.BatchSize
	}
	if c.Model.LearningRate > 0 {
		opts.LearningRate = c.Model.LearningRate
	}
	opts.Seed = c.Model.Seed
	return *opts
}
