package scenario

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"faultdemo/internal/events"
	"faultdemo/internal/logger"
	"faultdemo/internal/metrics"
	"faultdemo/internal/recovery"
)

// Config は実行の設定
type Config struct {
	Name        string   // プリセット名
	Description string   // 説明
	Scenarios   []string // 実行するシナリオ名（順番どおり）
	Args        []string // 外部引数
}

// DefaultConfig はデフォルト設定（main プリセット）を返す
func DefaultConfig() Config {
	return MainPreset()
}

// Outcome は一つのシナリオの結果
type Outcome struct {
	Name     string
	Title    string
	Duration time.Duration
	Escaped  bool
	Fault    string // 漏れた障害の説明
}

// Result は実行結果
type Result struct {
	PresetName  string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Interrupted bool

	Outcomes   []Outcome
	Transcript string
	Metrics    metrics.Snapshot
	Isolation  recovery.Stats
}

// Escaped は障害が漏れたシナリオの数を返す
func (r *Result) Escaped() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Escaped {
			n++
		}
	}
	return n
}

// Engine はシナリオ実行エンジン
type Engine struct {
	config   Config
	out      io.Writer
	eventBus *events.Bus

	lookup func(string) (Scenario, bool)

	mu      sync.RWMutex
	running bool
	metrics *metrics.Metrics
}

// New は新しいEngineを作成する。out が nil ならトランスクリプトは Result にのみ残る
func New(config Config, out io.Writer) *Engine {
	if out == nil {
		out = io.Discard
	}
	return &Engine{
		config: config,
		out:    out,
		lookup: Lookup,
	}
}

// SetEventBus はイベントバスを設定する
func (e *Engine) SetEventBus(bus *events.Bus) {
	e.eventBus = bus
}

// publishEvent はイベントを発行する
func (e *Engine) publishEvent(event events.Event) {
	if e.eventBus != nil {
		e.eventBus.Publish(event)
	}
}

// Resolve は設定のシナリオ名をカタログから解決する
func (c Config) Resolve() ([]Scenario, error) {
	return c.resolveWith(Lookup)
}

func (c Config) resolveWith(lookup func(string) (Scenario, bool)) ([]Scenario, error) {
	if len(c.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios configured")
	}

	resolved := make([]Scenario, 0, len(c.Scenarios))
	for _, name := range c.Scenarios {
		s, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario: %s", name)
		}
		resolved = append(resolved, s)
	}
	return resolved, nil
}

// Run はシナリオを順番に実行する
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	scenarios, err := e.config.resolveWith(e.lookup)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("run is already in progress")
	}
	e.running = true
	m := metrics.New()
	e.metrics = m
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	logger.Info("", "=== Run '%s' started (%d scenarios) ===", e.config.Name, len(scenarios))

	boundary := recovery.NewBoundary()
	boundary.SetEventBus(e.eventBus)

	var transcript bytes.Buffer
	w := io.MultiWriter(e.out, &transcript)

	result := &Result{
		PresetName: e.config.Name,
		StartTime:  time.Now(),
	}

	for _, s := range scenarios {
		if ctx.Err() != nil {
			logger.Warn("", "Run interrupted before '%s'", s.Name)
			result.Interrupted = true
			break
		}
		result.Outcomes = append(result.Outcomes, e.runOne(s, w, m, boundary))
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Transcript = transcript.String()
	result.Metrics = m.Snapshot()
	result.Isolation = boundary.Stats()

	logger.Info("", "=== Run '%s' completed (%d escaped) ===", e.config.Name, result.Escaped())

	return result, nil
}

// runOne は一つのシナリオを見出し付きで実行する
func (e *Engine) runOne(s Scenario, w io.Writer, m *metrics.Metrics, boundary *recovery.Boundary) Outcome {
	e.publishEvent(events.NewScenarioStartEvent(s.Name))
	logger.Debug(s.Name, "started")

	_, _ = fmt.Fprintln(w, s.Title)
	_, _ = fmt.Fprintln(w, Separator)

	env := NewEnv(w, e.config.Args, &observer{scenario: s.Name, metrics: m, bus: e.eventBus})

	start := time.Now()
	esc := boundary.Isolate(s.Name, func() error {
		return s.Run(env)
	})
	elapsed := time.Since(start)

	outcome := Outcome{
		Name:     s.Name,
		Title:    s.Title,
		Duration: elapsed,
	}
	if esc != nil {
		outcome.Escaped = true
		outcome.Fault = esc.Err.Error()
		m.RecordEscaped(esc.Err)
	}
	m.RecordScenario(elapsed, outcome.Escaped)

	e.publishEvent(events.NewScenarioDoneEvent(s.Name, elapsed, outcome.Escaped))
	logger.Debug(s.Name, "completed in %v", elapsed)

	return outcome
}

// observer はガード領域の動きをメトリクスとイベントに流す
type observer struct {
	scenario string
	metrics  *metrics.Metrics
	bus      *events.Bus
}

func (o *observer) Raised(err error) {
	o.metrics.RecordRaised(err)
	o.publish(events.NewFaultEvent(events.EventFaultRaised, o.scenario, err))
	logger.Debug(o.scenario, "raised: %v", err)
}

func (o *observer) Handled(err error) {
	o.metrics.RecordHandled(err)
	o.publish(events.NewFaultEvent(events.EventFaultHandled, o.scenario, err))
}

func (o *observer) Cleanup() {
	o.metrics.RecordCleanup()
	o.publish(events.NewCleanupEvent(o.scenario))
}

func (o *observer) publish(event events.Event) {
	if o.bus != nil {
		o.bus.Publish(event)
	}
}

// IsRunning は実行中かどうかを返す
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Config は設定を返す
func (e *Engine) Config() Config {
	return e.config
}

// Metrics は最新の実行のメトリクスを返す
func (e *Engine) Metrics() *metrics.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.metrics == nil {
		return nil
	}
	snapshot := e.metrics.Snapshot()
	return &snapshot
}

// Report は結果をフォーマットして返す
func (r *Result) Report() string {
	var b strings.Builder

	fmt.Fprintf(&b, `
================================================================================
                         RUN REPORT: %s
================================================================================

EXECUTION SUMMARY
-----------------
  Start Time:     %s
  End Time:       %s
  Duration:       %v
  Interrupted:    %v

FAULT STATISTICS
----------------
  Raised:           %d
  Handled:          %d
  Escaped:          %d
  Cleanups:         %d
  Avg Scenario:     %v
  P99 Scenario:     %v

SCENARIOS
---------
`,
		r.PresetName,
		r.StartTime.Format("2006-01-02 15:04:05"),
		r.EndTime.Format("2006-01-02 15:04:05"),
		r.Duration.Round(time.Microsecond),
		r.Interrupted,
		r.Metrics.FaultsRaised,
		r.Metrics.FaultsHandled,
		r.Metrics.FaultsEscaped,
		r.Metrics.Cleanups,
		r.Metrics.AverageLatency.Round(time.Microsecond),
		r.Metrics.P99Latency.Round(time.Microsecond),
	)

	for _, o := range r.Outcomes {
		status := "ok"
		if o.Escaped {
			status = "ESCAPED: " + o.Fault
		}
		fmt.Fprintf(&b, "  %-22s %s\n", o.Name+":", status)
	}

	b.WriteString("\n================================================================================")

	return b.String()
}
