package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `yaml:"type" json:"type"`     // filter.cel / rerank.topn 等
	Config map[string]any `yaml:"config" json:"config"` // Node 特定配置
}

// Config 是 Pipeline 的配置结构（YAML）。
type Config struct {
	Pipeline struct {
		Name  string       `yaml:"name"`
		Nodes []NodeConfig `yaml:"nodes"`
	} `yaml:"pipeline"`
}

// LoadFromYAML 从 YAML 文件加载 Pipeline 配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// NodeBuilder 根据配置构建一个 Node。
type NodeBuilder func(config map[string]any) (Node, error)

// NodeFactory 按类型名注册/构建 Node，支持配置驱动的链路组装。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{builders: make(map[string]NodeBuilder)}
}

// Register 注册一种 Node 的构建逻辑。
func (f *NodeFactory) Register(typeName string, builder NodeBuilder) {
	f.builders[typeName] = builder
}

// Build 构建指定类型的 Node；未注册的类型返回错误。
func (f *NodeFactory) Build(typeName string, config map[string]any) (Node, error) {
	builder, ok := f.builders[typeName]
	if !ok {
		return nil, fmt.Errorf("unsupported node type %q", typeName)
	}
	return builder(config)
}

// BuildNodes 根据配置批量构建 Node 链。
func (f *NodeFactory) BuildNodes(configs []NodeConfig) ([]Node, error) {
	nodes := make([]Node, 0, len(configs))
	for _, nc := range configs {
		node, err := f.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("build node %s: %w", nc.Type, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
