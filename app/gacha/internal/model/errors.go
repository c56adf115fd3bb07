package model

import (
	"errors"
	"fmt"
)

// 错误三分类：
//   - ErrValidation：调用方输入违反约束，调整输入即可恢复，不自动重试
//   - ErrConfiguration：目录/卡池配置内部不一致，启动期发现即致命
//   - ErrTransient：外部持久化暂不可用，结果仍然返回，写入进入重试
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient persistence error")
)

// 校验类错误的具体形态，全部可被 errors.Is(err, ErrValidation) 命中
var (
	ErrUnknownPackType = fmt.Errorf("%w: unknown pack type", ErrValidation)
	ErrInvalidCount    = fmt.Errorf("%w: invalid roll count", ErrValidation)
	ErrDeckSize        = fmt.Errorf("%w: deck size out of range", ErrValidation)
	ErrUnownedCard     = fmt.Errorf("%w: deck contains unowned card", ErrValidation)
	ErrDuplicateLimit  = fmt.Errorf("%w: duplicate copies exceed rarity limit", ErrValidation)
	ErrUnknownCard     = fmt.Errorf("%w: unknown card", ErrValidation)
)

// DeckErrorKind 卡组校验失败的对外错误类别
type DeckErrorKind string

const (
	DeckErrorNone           DeckErrorKind = ""
	DeckErrorSize           DeckErrorKind = "DeckSizeError"
	DeckErrorUnownedCard    DeckErrorKind = "UnownedCardError"
	DeckErrorDuplicateLimit DeckErrorKind = "DuplicateLimitError"
	DeckErrorUnknownCard    DeckErrorKind = "UnknownCardError"
)

// DeckErrorKindOf 将卡组校验错误映射为对外类别
func DeckErrorKindOf(err error) DeckErrorKind {
	switch {
	case err == nil:
		return DeckErrorNone
	case errors.Is(err, ErrDeckSize):
		return DeckErrorSize
	case errors.Is(err, ErrUnownedCard):
		return DeckErrorUnownedCard
	case errors.Is(err, ErrDuplicateLimit):
		return DeckErrorDuplicateLimit
	case errors.Is(err, ErrUnknownCard):
		return DeckErrorUnknownCard
	default:
		return DeckErrorNone
	}
}
