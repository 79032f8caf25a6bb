package catalog

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/shoprec/core"
)

// Feast 特征引用约定：用户画像注册为 user_profile 特征视图，
// 实体键为 user_id。
const (
	feastFeatureAge       = "user_profile:age"
	feastFeaturePurchases = "user_profile:purchases"
	feastEntityUserID     = "user_id"
)

// FeastSource 从 Feast Feature Store 在线存储读取用户画像，
// 实现 core.UserSource。适合用户特征由特征平台统一管理的部署形态。
//
// 与 StoreSource 不同，Feast 没有"全部用户"的概念，
// LoadUsers 必须显式传入用户 ID。
type FeastSource struct {
	// Project Feast 项目名称
	Project string

	client *feastsdk.GrpcClient
}

var _ core.UserSource = (*FeastSource)(nil)

// NewFeastSource 连接 Feast Feature Server（gRPC，默认端口 6565）。
func NewFeastSource(host string, port int, project string) (*FeastSource, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("connect feast at %s:%d: %w", host, port, err)
	}
	return &FeastSource{Project: project, client: client}, nil
}

func (s *FeastSource) LoadUsers(ctx context.Context, ids ...string) ([]*core.User, error) {
	if len(ids) == 0 {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			"feast source requires explicit user ids")
	}

	entityRows := make([]feastsdk.Row, len(ids))
	for i, id := range ids {
		entityRows[i] = feastsdk.Row{feastEntityUserID: feastsdk.StrVal(id)}
	}

	resp, err := s.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: []string{feastFeatureAge, feastFeaturePurchases},
		Entities: entityRows,
		Project:  s.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(ids) {
		return nil, fmt.Errorf("feast returned %d rows for %d users", len(rows), len(ids))
	}

	users := make([]*core.User, len(ids))
	for i, row := range rows {
		u := &core.User{ID: ids[i]}
		if v, ok := row[feastFeatureAge]; ok {
			u.Age = ageFromValue(v)
		}
		if v, ok := row[feastFeaturePurchases]; ok {
			if list := v.GetStringListVal(); list != nil {
				u.Purchases = list.GetVal()
			}
		}
		users[i] = u
	}
	return users, nil
}

// ageFromValue 兼容年龄被注册为 double 或 int64 的特征视图。
func ageFromValue(v *feasttypes.Value) float64 {
	if d := v.GetDoubleVal(); d != 0 {
		return d
	}
	return float64(v.GetInt64Val())
}
