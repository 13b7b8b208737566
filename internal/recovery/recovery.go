package recovery

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"faultdemo/internal/events"
	"faultdemo/internal/fault"
	"faultdemo/internal/logger"
)

// Escape はシナリオから漏れた障害
type Escape struct {
	Scenario string
	Err      error // スタック付きの障害
	Panicked bool  // パニックとして漏れたか
}

func (e *Escape) Error() string {
	return fmt.Sprintf("scenario %s: %v", e.Scenario, e.Err)
}

// Unwrap は漏れた障害を返す
func (e *Escape) Unwrap() error {
	return e.Err
}

// Kind は漏れた障害の種類を返す
func (e *Escape) Kind() fault.Kind {
	return fault.KindOf(e.Err)
}

// Stack はスタック付きの詳細を返す
func (e *Escape) Stack() string {
	return fmt.Sprintf("%+v", e.Err)
}

// Stats は隔離の統計
type Stats struct {
	TotalRuns uint64
	Escapes   uint64
	Panics    uint64
}

// Boundary はシナリオの隔離境界
type Boundary struct {
	eventBus *events.Bus

	mu    sync.RWMutex
	stats Stats
}

// NewBoundary は新しい隔離境界を作成する
func NewBoundary() *Boundary {
	return &Boundary{}
}

// SetEventBus はイベントバスを設定する
func (b *Boundary) SetEventBus(bus *events.Bus) {
	b.eventBus = bus
}

// publishEvent はイベントを発行する
func (b *Boundary) publishEvent(event events.Event) {
	if b.eventBus != nil {
		b.eventBus.Publish(event)
	}
}

// Isolate は fn を実行し、漏れた障害を Escape として返す。正常終了なら nil
func (b *Boundary) Isolate(name string, fn func() error) (esc *Escape) {
	b.mu.Lock()
	b.stats.TotalRuns++
	b.mu.Unlock()

	defer func() {
		if v := recover(); v != nil {
			esc = &Escape{
				Scenario: name,
				Err:      errors.WithStack(fault.FromPanic(v)),
				Panicked: true,
			}
		}
		if esc != nil {
			b.record(esc)
		}
	}()

	if err := fn(); err != nil {
		return &Escape{Scenario: name, Err: errors.WithStack(err)}
	}
	return nil
}

// record は漏れた障害を統計とイベントに反映する
func (b *Boundary) record(esc *Escape) {
	b.mu.Lock()
	b.stats.Escapes++
	if esc.Panicked {
		b.stats.Panics++
	}
	b.mu.Unlock()

	logger.Warn(esc.Scenario, "fault escaped scenario: %v", esc.Err)
	if logger.Default.Enabled(logger.LevelDebug) {
		logger.Debug(esc.Scenario, "%s", esc.Stack())
	}
	b.publishEvent(events.NewFaultEvent(events.EventFaultEscaped, esc.Scenario, esc.Err))
}

// Stats は隔離の統計を返す
func (b *Boundary) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}

// ResetStats は統計をリセットする
func (b *Boundary) ResetStats() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats = Stats{}
}
