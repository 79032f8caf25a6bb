package engine

import "github.com/rushteam/shoprec/core"

// 命令与事件的主题名。命令与事件走不同主题，
// 事件消费方（UI、监控）不会收到回环的命令。
const (
	TopicCommands = "shoprec.commands"
	TopicEvents   = "shoprec.events"
)

// 命令动作。
const (
	ActionTrain     = "train"
	ActionRecommend = "recommend"
)

// Command 是命令主题上的消息载荷。
//
// train 携带 Users（完整画像）或 UserIDs（经 UserSource 解析）；
// recommend 携带 User 与可选的 TopN。
type Command struct {
	Action  string       `json:"action"`
	Users   []*core.User `json:"users,omitempty"`
	UserIDs []string     `json:"user_ids,omitempty"`
	User    *core.User   `json:"user,omitempty"`
	TopN    int          `json:"top_n,omitempty"`
}

// 事件类型。
const (
	EventProgress         = "progress"          // 训练进度百分比（单调递增，至少 1 和 100）
	EventEpoch            = "epoch"             // 单轮训练指标（来自模型的轮末回调）
	EventTrainingComplete = "training_complete" // 训练成功结束
	EventTrainingFailed   = "training_failed"   // 训练失败，携带最后上报的指标
	EventRecommendFailed  = "recommend_failed"  // 推荐请求失败（编码契约违例等）
	EventRecommendations  = "recommendations"   // 完整的降序推荐列表
)

// RankedProduct 是推荐事件里的一条结果：商品元信息加模型分数。
type RankedProduct struct {
	core.Product
	Score  float64           `json:"score"`
	Labels map[string]string `json:"labels,omitempty"`
}

// Event 是事件主题上的消息载荷，Type 决定哪些字段有效。
type Event struct {
	Type            string             `json:"type"`
	Progress        int                `json:"progress,omitempty"`
	Metrics         *core.EpochMetrics `json:"metrics,omitempty"`
	Error           string             `json:"error,omitempty"`
	User            *core.User         `json:"user,omitempty"`
	Recommendations []RankedProduct    `json:"recommendations,omitempty"`
}
