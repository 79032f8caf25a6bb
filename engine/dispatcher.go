package engine

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"

	"github.com/rushteam/shoprec/core"
)

// Dispatcher 是引擎的异步命令/事件边界：订阅命令主题，把 train/recommend
// 分发给 Engine，并把进度、指标与结果发布到事件主题。
//
// 行为约定：
//   - train 在独立的 goroutine 中执行，训练期间命令循环持续消费，
//     并发到达的 recommend 不会被长训练阻塞
//   - 训练失败发布一条 training_failed 事件（携带最后上报的轮指标），
//     进程不退出，也不自动重试
//   - 模型未就绪时的 recommend 是显式定义的 no-op：只记日志、不发事件，
//     与最初的实现语义一致（直接调用 Engine.Recommend 的代码
//     则会收到 ErrModelNotReady）
type Dispatcher struct {
	engine     *Engine
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     watermill.LoggerAdapter
}

// NewDispatcher 创建命令分发器。pub/sub 通常是同一个 gochannel.GoChannel，
// 也可以换成任何 watermill 支持的传输。
func NewDispatcher(e *Engine, pub message.Publisher, sub message.Subscriber, logger watermill.LoggerAdapter) *Dispatcher {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Dispatcher{engine: e, publisher: pub, subscriber: sub, logger: logger}
}

// Run 消费命令直到 ctx 取消或订阅关闭。
func (d *Dispatcher) Run(ctx context.Context) error {
	msgs, err := d.subscriber.Subscribe(ctx, TopicCommands)
	if err != nil {
		return err
	}

	for msg := range msgs {
		var cmd Command
		if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
			d.logger.Error("malformed command", err, watermill.LogFields{"uuid": msg.UUID})
			msg.Ack()
			continue
		}

		switch cmd.Action {
		case ActionTrain:
			// 训练在隔离的执行单元中运行，命令循环不被阻塞
			go d.handleTrain(ctx, &cmd)
		case ActionRecommend:
			d.handleRecommend(ctx, &cmd)
		default:
			d.logger.Error("unknown action", nil, watermill.LogFields{"action": cmd.Action})
		}
		msg.Ack()
	}
	return nil
}

func (d *Dispatcher) handleTrain(ctx context.Context, cmd *Command) {
	d.publish(&Event{Type: EventProgress, Progress: 1})

	var last *core.EpochMetrics
	onEpoch := func(m core.EpochMetrics) {
		mm := m
		last = &mm
		d.publish(&Event{Type: EventEpoch, Metrics: &mm})
	}

	var err error
	if len(cmd.UserIDs) > 0 {
		err = d.engine.TrainIDs(ctx, cmd.UserIDs, onEpoch)
	} else {
		err = d.engine.Train(ctx, cmd.Users, onEpoch)
	}
	if err != nil {
		d.logger.Error("training failed", err, nil)
		d.publish(&Event{Type: EventTrainingFailed, Error: err.Error(), Metrics: last})
		return
	}

	d.publish(&Event{Type: EventProgress, Progress: 100})
	d.publish(&Event{Type: EventTrainingComplete, Metrics: last})
}

func (d *Dispatcher) handleRecommend(ctx context.Context, cmd *Command) {
	recs, err := d.engine.Recommend(ctx, cmd.User, cmd.TopN)
	if err != nil {
		if core.IsModelNotReady(err) {
			d.logger.Info("recommend ignored: model not ready", nil)
			return
		}
		d.logger.Error("recommend failed", err, nil)
		d.publish(&Event{Type: EventRecommendFailed, Error: err.Error(), User: cmd.User})
		return
	}

	ranked := make([]RankedProduct, len(recs))
	for i, r := range recs {
		ranked[i] = RankedProduct{Product: *r.Product, Score: r.Score, Labels: r.Labels}
	}
	d.publish(&Event{Type: EventRecommendations, User: cmd.User, Recommendations: ranked})
}

func (d *Dispatcher) publish(ev *Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		d.logger.Error("marshal event", err, watermill.LogFields{"type": ev.Type})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := d.publisher.Publish(TopicEvents, msg); err != nil {
		d.logger.Error("publish event", err, watermill.LogFields{"type": ev.Type})
	}
}
