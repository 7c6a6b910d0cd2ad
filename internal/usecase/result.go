package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
)

// Kind classifies why a Result failed.
type Kind int

const (
	KindNone Kind = iota
	KindUnavailable
	KindInvalidInput
	KindNotFound
	KindCanceled
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnavailable:
		return "unavailable"
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindCanceled:
		return "canceled"
	default:
		return "internal"
	}
}

// Result carries either Data or a non-nil Err.
type Result[T any] struct {
	Data T
	Err  error
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

func (r Result[T]) Kind() Kind {
	return KindOf(r.Err)
}

// OrDefault returns Data on success and def otherwise.
func (r Result[T]) OrDefault(def T) T {
	if r.Err != nil {
		return def
	}
	return r.Data
}

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case crerr.Is(err, context.Canceled), crerr.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case crerr.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case crerr.Is(err, ErrNotFound):
		return KindNotFound
	case crerr.Is(err, ErrDependencyUnavailable), crerr.Is(err, leaderboard.ErrDataAccess):
		return KindUnavailable
	default:
		return KindInternal
	}
}
