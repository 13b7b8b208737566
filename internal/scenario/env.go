package scenario

import (
	"fmt"
	"io"

	"faultdemo/internal/guard"
)

// Trace は到達したチェックポイントの回数を記録する
type Trace struct {
	counts map[string]int
}

// NewTrace は空の Trace を作成する
func NewTrace() *Trace {
	return &Trace{counts: make(map[string]int)}
}

// Mark はチェックポイントの回数を一つ増やす
func (t *Trace) Mark(checkpoint string) {
	t.counts[checkpoint]++
}

// Count はチェックポイントの回数を返す
func (t *Trace) Count(checkpoint string) int {
	return t.counts[checkpoint]
}

// Env はシナリオの実行環境。実行ごとに新しく作られる
type Env struct {
	out      io.Writer
	args     []string
	trace    *Trace
	observer guard.Observer
}

// NewEnv は実行環境を作成する。observer は nil でもよい
func NewEnv(out io.Writer, args []string, observer guard.Observer) *Env {
	return &Env{
		out:      out,
		args:     args,
		trace:    NewTrace(),
		observer: observer,
	}
}

// Args は外部引数を返す
func (e *Env) Args() []string {
	return e.args
}

// Trace はチェックポイントの記録を返す
func (e *Env) Trace() *Trace {
	return e.trace
}

// Mark はチェックポイントを記録する
func (e *Env) Mark(checkpoint string) {
	e.trace.Mark(checkpoint)
}

// Println はトランスクリプトに一行出力する
func (e *Env) Println(a ...any) {
	_, _ = fmt.Fprintln(e.out, a...)
}

// Printf はトランスクリプトに書式付きで出力する
func (e *Env) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(e.out, format, a...)
}

// Try はオブザーバー付きのガード領域を作成する
func (e *Env) Try(body func() error) *guard.Region {
	r := guard.Try(body)
	if e.observer != nil {
		r.Observe(e.observer)
	}
	return r
}

// Cleanup は defer で使う後始末を実行し、オブザーバーに通知する
func (e *Env) Cleanup(fn func()) {
	fn()
	if e.observer != nil {
		e.observer.Cleanup()
	}
}
