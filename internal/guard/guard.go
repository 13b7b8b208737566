package guard

import (
	"errors"
	"fmt"

	"faultdemo/internal/fault"
)

// ErrUnreachableHandler は先行するハンドラに隠されたハンドラがあることを示す
var ErrUnreachableHandler = errors.New("unreachable handler")

// OrderError はハンドラの宣言順の違反を表す
type OrderError struct {
	Index   int        // 到達不能なハンドラの位置
	Kind    fault.Kind // 到達不能なハンドラの種類
	Shadow  fault.Kind // 先に宣言されたハンドラの種類
	Earlier int        // 先に宣言されたハンドラの位置
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("handler %d for %s is shadowed by handler %d for %s: %v",
		e.Index, e.Kind, e.Earlier, e.Shadow, ErrUnreachableHandler)
}

// Unwrap は ErrUnreachableHandler を返す
func (e *OrderError) Unwrap() error {
	return ErrUnreachableHandler
}

// Observer はガード領域での障害の発生・処理・後始末を受け取る
type Observer interface {
	Raised(err error)
	Handled(err error)
	Cleanup()
}

// Handler は特定の種類の障害を処理する
type Handler struct {
	Kind fault.Kind
	Fn   func(err error) error
}

// Region はガード領域
type Region struct {
	body     func() error
	handlers []Handler
	cleanup  func()
	observer Observer
}

// Try はガード領域を作成する
func Try(body func() error) *Region {
	return &Region{body: body}
}

// Catch はハンドラを宣言順に追加する
func (r *Region) Catch(kind fault.Kind, fn func(err error) error) *Region {
	r.handlers = append(r.handlers, Handler{Kind: kind, Fn: fn})
	return r
}

// Finally は必ず実行される後始末を設定する
func (r *Region) Finally(fn func()) *Region {
	r.cleanup = fn
	return r
}

// Observe はオブザーバーを設定する
func (r *Region) Observe(o Observer) *Region {
	r.observer = o
	return r
}

// Validate はハンドラの宣言順を検証する
func (r *Region) Validate() error {
	for i, h := range r.handlers {
		for j := 0; j < i; j++ {
			if h.Kind.IsA(r.handlers[j].Kind) {
				return &OrderError{
					Index:   i,
					Kind:    h.Kind,
					Shadow:  r.handlers[j].Kind,
					Earlier: j,
				}
			}
		}
	}
	return nil
}

// Run はガード領域を実行する
//
// 後始末はハンドラの後、Run が戻る前に一度だけ実行される。
// ハンドラ内のパニックも後始末を通ってから呼び出し元へ伝わる。
func (r *Region) Run() error {
	if err := r.Validate(); err != nil {
		return err
	}

	if r.cleanup != nil {
		defer func() {
			r.cleanup()
			if r.observer != nil {
				r.observer.Cleanup()
			}
		}()
	}

	raised := r.protect()
	if raised == nil {
		return nil
	}
	if r.observer != nil {
		r.observer.Raised(raised)
	}

	h, ok := r.match(raised)
	if !ok {
		return raised
	}

	if r.observer != nil {
		r.observer.Handled(raised)
	}
	return h.Fn(raised)
}

// protect は本体を実行し、パニックを障害に変換する
func (r *Region) protect() (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fault.FromPanic(v)
		}
	}()
	return r.body()
}

// match は最初に一致したハンドラを返す
func (r *Region) match(err error) (Handler, bool) {
	kind := fault.KindOf(err)
	for _, h := range r.handlers {
		if kind.IsA(h.Kind) {
			return h, true
		}
	}
	return Handler{}, false
}
