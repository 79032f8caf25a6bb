package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 通过 IsXXX 函数做错误检查，调用方不依赖消息文本
//
// 使用场景：
//   - 语料错误：EMPTY_CORPUS（空商品/用户列表无法推导编码上下文）
//   - 编码契约错误：UNKNOWN_CATEGORY / UNKNOWN_COLOR / NOT_FOUND
//   - 服务状态错误：MODEL_NOT_READY（尚无完成训练的模型可用）
type DomainError struct {
	Code    string // 错误代码（如 "EMPTY_CORPUS", "UNKNOWN_CATEGORY"）
	Message string // 错误消息
	Module  string // 模块名称（如 "feature", "engine", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeEmptyCorpus     = "EMPTY_CORPUS"     // 商品或用户语料为空
	ErrorCodeUnknownCategory = "UNKNOWN_CATEGORY" // 品类未出现在编码上下文中
	ErrorCodeUnknownColor    = "UNKNOWN_COLOR"    // 颜色未出现在编码上下文中
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在（如购买记录引用的商品）
	ErrorCodeModelNotReady   = "MODEL_NOT_READY"  // 模型尚未完成训练
	ErrorCodeInvalidInput    = "INVALID_INPUT"    // 输入无效
)

// 模块名称常量
const (
	ModuleFeature = "feature" // 特征模块
	ModuleEngine  = "engine"  // 引擎模块
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 目录模块
	ModuleModel   = "model"   // 模型模块
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsEmptyCorpus 检查错误是否为 EMPTY_CORPUS。
func IsEmptyCorpus(err error) bool { return hasCode(err, ErrorCodeEmptyCorpus) }

// IsUnknownCategory 检查错误是否为 UNKNOWN_CATEGORY。
func IsUnknownCategory(err error) bool { return hasCode(err, ErrorCodeUnknownCategory) }

// IsUnknownColor 检查错误是否为 UNKNOWN_COLOR。
func IsUnknownColor(err error) bool { return hasCode(err, ErrorCodeUnknownColor) }

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsModelNotReady 检查错误是否为 MODEL_NOT_READY。
func IsModelNotReady(err error) bool { return hasCode(err, ErrorCodeModelNotReady) }
