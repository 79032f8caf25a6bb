package core

// RecommendContext 承载单次推荐请求的用户与请求级信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// User 是请求推荐的用户
	User *User

	// UserVector 是用户的编码向量（与训练时同一个编码上下文产出）
	UserVector []float64

	// Params 请求级上下文参数（如 top_n、scene 等）
	Params map[string]any
}
