package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"faultdemo/internal/events"
	"faultdemo/internal/logger"
	"faultdemo/internal/metrics"
	"faultdemo/internal/scenario"

	"golang.org/x/net/websocket"
)

//go:embed static/*
var staticFiles embed.FS

// Server はAPIサーバー
type Server struct {
	addr     string
	eventBus *events.Bus

	mu          sync.RWMutex
	running     bool
	lastPreset  string
	lastMetrics *metrics.Snapshot
	wsClients   map[*websocket.Conn]bool

	server *http.Server
}

// NewServer は新しいAPIサーバーを作成する
func NewServer(addr string) *Server {
	return &Server{
		addr:      addr,
		eventBus:  events.NewBus(),
		wsClients: make(map[*websocket.Conn]bool),
	}
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/scenarios", s.handleScenarios)
	mux.HandleFunc("/api/presets", s.handlePresets)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/run", s.handleRun)

	// WebSocket
	mux.Handle("/ws", websocket.Handler(s.handleWebSocket))

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to get static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	return mux, nil
}

// Start はサーバーを開始する
func (s *Server) Start(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// バックグラウンドでイベント配信
	go s.broadcastLoop(ctx)

	logger.Info("", "API Server starting on http://%s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StatusResponse はステータスレスポンス
type StatusResponse struct {
	Running    bool   `json:"running"`
	LastPreset string `json:"last_preset,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	resp := StatusResponse{
		Running:    s.running,
		LastPreset: s.lastPreset,
	}
	s.mu.RUnlock()

	s.writeJSON(w, resp)
}

// ScenarioInfo はシナリオ情報
type ScenarioInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var list []ScenarioInfo
	for _, sc := range scenario.Catalog() {
		list = append(list, ScenarioInfo{Name: sc.Name, Title: sc.Title})
	}

	s.writeJSON(w, list)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, scenario.Presets())
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	snap := s.lastMetrics
	s.mu.RUnlock()

	if snap == nil {
		s.writeJSON(w, metrics.Snapshot{ByKind: map[string]uint64{}})
		return
	}
	s.writeJSON(w, snap)
}

// RunRequest は実行リクエスト
type RunRequest struct {
	Preset    string   `json:"preset"`
	Scenarios []string `json:"scenarios,omitempty"`
	Args      []string `json:"args,omitempty"`
}

// OutcomeInfo はシナリオごとの結果
type OutcomeInfo struct {
	Name       string  `json:"name"`
	Escaped    bool    `json:"escaped"`
	Fault      string  `json:"fault,omitempty"`
	DurationMs float64 `json:"duration_ms"`
}

// RunResponse は実行結果レスポンス
type RunResponse struct {
	Preset     string           `json:"preset"`
	Transcript string           `json:"transcript"`
	Outcomes   []OutcomeInfo    `json:"outcomes"`
	Metrics    metrics.Snapshot `json:"metrics"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	config := scenario.DefaultConfig()
	if req.Preset != "" {
		preset, ok := scenario.GetPreset(req.Preset)
		if !ok {
			http.Error(w, fmt.Sprintf("Unknown preset: %s", req.Preset), http.StatusBadRequest)
			return
		}
		config = preset
	}
	if len(req.Scenarios) > 0 {
		config.Name = "custom"
		config.Scenarios = req.Scenarios
	}
	config.Args = req.Args

	if _, err := config.Resolve(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		http.Error(w, "Run already in progress", http.StatusConflict)
		return
	}
	s.running = true
	s.mu.Unlock()

	engine := scenario.New(config, nil)
	engine.SetEventBus(s.eventBus)
	result, err := engine.Run(r.Context())

	s.mu.Lock()
	s.running = false
	if result != nil {
		s.lastPreset = config.Name
		s.lastMetrics = &result.Metrics
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("", "Run failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := RunResponse{
		Preset:     result.PresetName,
		Transcript: result.Transcript,
		Metrics:    result.Metrics,
	}
	for _, o := range result.Outcomes {
		resp.Outcomes = append(resp.Outcomes, OutcomeInfo{
			Name:       o.Name,
			Escaped:    o.Escaped,
			Fault:      o.Fault,
			DurationMs: float64(o.Duration.Microseconds()) / 1000,
		})
	}

	s.writeJSON(w, resp)
}

// WebSocket handling
func (s *Server) handleWebSocket(ws *websocket.Conn) {
	s.mu.Lock()
	s.wsClients[ws] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.wsClients, ws)
		s.mu.Unlock()
		_ = ws.Close()
	}()

	// Keep connection alive
	for {
		var msg string
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			break
		}
	}
}

func (s *Server) broadcast(data any) {
	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.wsClients))
	for ws := range s.wsClients {
		clients = append(clients, ws)
	}
	s.mu.RUnlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}

	for _, ws := range clients {
		_ = websocket.Message.Send(ws, string(jsonData))
	}
}

// broadcastLoop はイベントバスのイベントをWebSocketクライアントへ流す
func (s *Server) broadcastLoop(ctx context.Context) {
	ch := s.eventBus.Subscribe()
	defer s.eventBus.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.broadcast(ev)
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("", "Failed to encode JSON: %v", err)
	}
}
