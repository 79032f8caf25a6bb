// Package conv 提供配置 map 的取值与类型转换工具。
// YAML/JSON 解码出的数值类型不定（int/int64/float64），统一在这里收口。
package conv

// ToFloat64 将 any 转为 float64，支持常见数值类型。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int，支持常见数值类型。
func ToInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}

// ConfigGet 从配置 map 按 key 取 T 类型的值，缺失或类型不符时返回默认值。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if m == nil {
		return defaultVal
	}
	if v, ok := m[key]; ok {
		if t, ok := v.(T); ok {
			return t
		}
	}
	return defaultVal
}

// ConfigGetInt 数值版本的 ConfigGet，容忍解码器产出的不同整数/浮点类型。
func ConfigGetInt(m map[string]any, key string, defaultVal int) int {
	if m == nil {
		return defaultVal
	}
	if v, ok := m[key]; ok {
		if n, ok := ToInt(v); ok {
			return n
		}
	}
	return defaultVal
}
