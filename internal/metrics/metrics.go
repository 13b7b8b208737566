package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"faultdemo/internal/fault"
)

const defaultMaxLatencySamples = 1000

// Metrics は障害とシナリオのメトリクスを収集する
type Metrics struct {
	scenarios      atomic.Uint64
	escapedRuns    atomic.Uint64
	faultsRaised   atomic.Uint64
	faultsHandled  atomic.Uint64
	faultsEscaped  atomic.Uint64
	cleanups       atomic.Uint64
	totalLatencyNs atomic.Uint64

	mu                sync.RWMutex
	startTime         time.Time
	byKind            map[fault.Kind]uint64
	latencies         []time.Duration
	maxLatencySamples int
}

// New は新しいメトリクスを作成する
func New() *Metrics {
	return &Metrics{
		startTime:         time.Now(),
		byKind:            make(map[fault.Kind]uint64),
		latencies:         make([]time.Duration, 0, 16),
		maxLatencySamples: defaultMaxLatencySamples,
	}
}

// RecordRaised は発生した障害を記録する
func (m *Metrics) RecordRaised(err error) {
	m.faultsRaised.Add(1)

	m.mu.Lock()
	m.byKind[fault.KindOf(err)]++
	m.mu.Unlock()
}

// RecordHandled はハンドラが受け取った障害を記録する
func (m *Metrics) RecordHandled(err error) {
	m.faultsHandled.Add(1)
}

// RecordEscaped はシナリオの外へ漏れた障害を記録する
func (m *Metrics) RecordEscaped(err error) {
	m.faultsEscaped.Add(1)
}

// RecordCleanup は実行された後始末を記録する
func (m *Metrics) RecordCleanup() {
	m.cleanups.Add(1)
}

// RecordScenario はシナリオの実行時間を記録する
func (m *Metrics) RecordScenario(latency time.Duration, escaped bool) {
	m.scenarios.Add(1)
	if escaped {
		m.escapedRuns.Add(1)
	}
	m.totalLatencyNs.Add(uint64(latency.Nanoseconds()))

	m.mu.Lock()
	if len(m.latencies) < m.maxLatencySamples {
		m.latencies = append(m.latencies, latency)
	}
	m.mu.Unlock()
}

// Scenarios は実行したシナリオ数を返す
func (m *Metrics) Scenarios() uint64 {
	return m.scenarios.Load()
}

// FaultsRaised は発生した障害の数を返す
func (m *Metrics) FaultsRaised() uint64 {
	return m.faultsRaised.Load()
}

// FaultsHandled は処理された障害の数を返す
func (m *Metrics) FaultsHandled() uint64 {
	return m.faultsHandled.Load()
}

// FaultsEscaped は漏れた障害の数を返す
func (m *Metrics) FaultsEscaped() uint64 {
	return m.faultsEscaped.Load()
}

// Cleanups は実行された後始末の数を返す
func (m *Metrics) Cleanups() uint64 {
	return m.cleanups.Load()
}

// ByKind は種類ごとの発生数のコピーを返す
func (m *Metrics) ByKind() map[fault.Kind]uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[fault.Kind]uint64, len(m.byKind))
	for k, v := range m.byKind {
		out[k] = v
	}
	return out
}

// AverageLatency はシナリオの平均実行時間を返す
func (m *Metrics) AverageLatency() time.Duration {
	total := m.scenarios.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.totalLatencyNs.Load() / total)
}

// P99Latency はP99実行時間を返す（サンプルベース）
func (m *Metrics) P99Latency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	idx := int(float64(len(sorted)) * 0.99)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// EscapeRate は障害が漏れたシナリオの割合を返す（0.0〜1.0）
func (m *Metrics) EscapeRate() float64 {
	total := m.scenarios.Load()
	if total == 0 {
		return 0
	}
	return float64(m.escapedRuns.Load()) / float64(total)
}

// Snapshot はメトリクスのスナップショット
type Snapshot struct {
	Scenarios      uint64            `json:"scenarios"`
	FaultsRaised   uint64            `json:"faults_raised"`
	FaultsHandled  uint64            `json:"faults_handled"`
	FaultsEscaped  uint64            `json:"faults_escaped"`
	Cleanups       uint64            `json:"cleanups"`
	ByKind         map[string]uint64 `json:"by_kind"`
	AverageLatency time.Duration     `json:"average_latency"`
	P99Latency     time.Duration     `json:"p99_latency"`
	EscapeRate     float64           `json:"escape_rate"`
	Elapsed        time.Duration     `json:"elapsed"`
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() Snapshot {
	byKind := make(map[string]uint64)
	for k, v := range m.ByKind() {
		byKind[k.String()] = v
	}

	return Snapshot{
		Scenarios:      m.Scenarios(),
		FaultsRaised:   m.FaultsRaised(),
		FaultsHandled:  m.FaultsHandled(),
		FaultsEscaped:  m.FaultsEscaped(),
		Cleanups:       m.Cleanups(),
		ByKind:         byKind,
		AverageLatency: m.AverageLatency(),
		P99Latency:     m.P99Latency(),
		EscapeRate:     m.EscapeRate(),
		Elapsed:        time.Since(m.startTime),
	}
}
