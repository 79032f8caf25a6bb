package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rushteam/shoprec/feature"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shoprec.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfigFile(t, `
catalog:
  path: data/products.json
weights:
  price: 0.25
  age: 0.25
  category: 0.25
  color: 0.25
model:
  hidden: [32, 16]
  epochs: 50
  batch_size: 16
  learning_rate: 0.005
  seed: 42
redis:
  addr: localhost:6379
  db: 3
post_rank:
  - type: filter.cel
    config: {expr: "score > 0.1"}
  - type: rerank.topn
    config: {n: 20}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Catalog.Path != "data/products.json" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	wantW := feature.Weights{Price: 0.25, Age: 0.25, Category: 0.25, Color: 0.25}
	if got := cfg.FeatureWeights(); got != wantW {
		t.Errorf("FeatureWeights = %+v, want %+v", got, wantW)
	}
	if !reflect.DeepEqual(cfg.Model.Hidden, []int{32, 16}) {
		t.Errorf("Model.Hidden = %v", cfg.Model.Hidden)
	}
	if cfg.Redis == nil || cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 3 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if len(cfg.PostRank) != 2 || cfg.PostRank[0].Type != "filter.cel" || cfg.PostRank[1].Type != "rerank.topn" {
		t.Errorf("PostRank = %+v", cfg.PostRank)
	}

	opts := cfg.TrainOptions()
	if opts.Epochs != 50 || opts.BatchSize != 16 || opts.LearningRate != 0.005 || opts.Seed != 42 {
		t.Errorf("TrainOptions = %+v", opts)
	}
}

// 未配置的段落沿用默认值。
func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
catalog:
  url: https://cdn.example.com/products.json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(cfg.Model.Hidden, []int{128, 64, 32}) {
		t.Errorf("Model.Hidden = %v, want default [128 64 32]", cfg.Model.Hidden)
	}
	if cfg.FeatureWeights() != feature.DefaultWeights {
		t.Errorf("FeatureWeights = %+v, want defaults", cfg.FeatureWeights())
	}
	opts := cfg.TrainOptions()
	if opts.Epochs != 100 || opts.BatchSize != 32 || opts.LearningRate != 0.01 {
		t.Errorf("TrainOptions = %+v, want defaults", opts)
	}
	if !opts.Shuffle {
		t.Error("TrainOptions.Shuffle should default to true")
	}
}

func TestLoadInvalidWeights(t *testing.T) {
	path := writeConfigFile(t, `
weights:
  price: 0.5
  age: 0.5
  category: 0.5
  color: 0.5
`)
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for weights not summing to 1")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfigFile(t, "model: [not a map]")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
