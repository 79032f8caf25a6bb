// Package shoprec 是一个电商购买预测推荐引擎（Shop Recommender）。
//
// 设计要点：
// - Context-first: 编码上下文（范围/索引/统计）一次构建、训练与推理共用，保证向量空间可比
// - Pipeline-first: 推荐逻辑通过 Node 串联（Rank → Filter → ReRank）
// - 模型可插拔: 评分模型只依赖 core.ScoringModel 契约（本地 MLP 或远程服务均可）
package shoprec

import "github.com/rushteam/shoprec/pipeline"

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRank        = pipeline.KindRank
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
