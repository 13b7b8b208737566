package fault

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Kinded は種類を持つ障害が実装するインターフェース
type Kinded interface {
	error
	FaultKind() Kind
}

// Fault は種類とメッセージを持つ障害
type Fault struct {
	Kind    Kind
	Message string
	cause   error
}

// New は指定した種類の障害を作成する
func New(kind Kind, msg string) *Fault {
	return &Fault{Kind: kind, Message: msg}
}

// Wrap は原因を保持した障害を作成する
func Wrap(kind Kind, cause error, msg string) *Fault {
	return &Fault{Kind: kind, Message: msg, cause: cause}
}

func (f *Fault) Error() string {
	if f.Message == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// FaultKind は障害の種類を返す
func (f *Fault) FaultKind() Kind {
	return f.Kind
}

// Unwrap は原因を返す
func (f *Fault) Unwrap() error {
	return f.cause
}

// Is は target が Kind の場合、祖先関係で一致を判定する
func (f *Fault) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return f.Kind.IsA(k)
	}
	return false
}

func Arithmetic(msg string) *Fault       { return New(KindArithmetic, msg) }
func IndexOutOfBounds(msg string) *Fault { return New(KindIndexOutOfBounds, msg) }
func NullReference(msg string) *Fault    { return New(KindNullReference, msg) }
func IllegalAccess(msg string) *Fault    { return New(KindIllegalAccess, msg) }
func IO(msg string) *Fault               { return New(KindIO, msg) }
func Runtime(msg string) *Fault          { return New(KindRuntime, msg) }

// MyException は範囲外の入力を受け取ったときに返す独自の障害
type MyException struct {
	Num int
}

func (e MyException) Error() string {
	return fmt.Sprintf("MyException[%d]", e.Num)
}

// FaultKind は KindCustom を返す
func (e MyException) FaultKind() Kind {
	return KindCustom
}

// Is は target が Kind の場合、祖先関係で一致を判定する
func (e MyException) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return KindCustom.IsA(k)
	}
	return false
}

// KindOf はエラーの種類を返す。nil は KindAny、種類を持たないエラーも KindAny になる
func KindOf(err error) Kind {
	var k Kinded
	if errors.As(err, &k) {
		return k.FaultKind()
	}
	return KindAny
}

const runtimePrefix = "runtime error: "

// FromPanic は recover() で得た値を障害に変換する
//
// runtime.Error はメッセージから種類を判定する。error 値はそのまま返し、
// それ以外の値は KindRuntime の障害になる。
func FromPanic(v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case runtime.Error:
		msg := strings.TrimPrefix(x.Error(), runtimePrefix)
		return Wrap(classify(msg), x, msg)
	case error:
		return x
	default:
		return Runtime(fmt.Sprint(x))
	}
}

// classify はランタイムエラーのメッセージから種類を決める
func classify(msg string) Kind {
	switch {
	case strings.Contains(msg, "divide by zero"):
		return KindArithmetic
	case strings.Contains(msg, "out of range"), strings.Contains(msg, "slice bounds"):
		return KindIndexOutOfBounds
	case strings.Contains(msg, "nil pointer"), strings.Contains(msg, "nil map"):
		return KindNullReference
	default:
		return KindRuntime
	}
}
