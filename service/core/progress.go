package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"

	m "wpicorr/data/models"
)

type Stage string

const (
	StageBatchStarted  Stage = "batch_started"
	StageStockStarted  Stage = "stock_started"
	StagePrices        Stage = "prices"
	StageCorrelation   Stage = "correlation"
	StageForecast      Stage = "forecast"
	StageNews          Stage = "news"
	StageRisk          Stage = "risk"
	StageStockDone     Stage = "stock_done"
	StageBatchFinished Stage = "batch_finished"
)

type ProgressEvent struct {
	RunID   string         `json:"runId"`
	Stock   string         `json:"stock,omitempty"`
	Index   int            `json:"index"`
	Total   int            `json:"total"`
	Stage   Stage          `json:"stage"`
	Message string         `json:"message,omitempty"`
	Risk    *m.RiskProfile `json:"risk,omitempty"`
	Issues  []string       `json:"issues,omitempty"`
}

// ProgressReporter gets told about every stage of a batch, it must not block for long
type ProgressReporter interface {
	Report(ev ProgressEvent)
}

type LogReporter struct {
	logger arbor.ILogger
}

func NewLogReporter(logger arbor.ILogger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (lr *LogReporter) Report(ev ProgressEvent) {
	e := lr.logger.Info().
		Str("run_id", ev.RunID).
		Str("stage", string(ev.Stage)).
		Int("index", ev.Index).
		Int("total", ev.Total)
	if ev.Stock != "" {
		e = e.Str("stock", ev.Stock)
	}
	if ev.Risk != nil {
		e = e.Str("volatility", nullFloatString(ev.Risk.Volatility.Valid, ev.Risk.Volatility.Float64)).
			Str("beta", nullFloatString(ev.Risk.Beta.Valid, ev.Risk.Beta.Float64)).
			Str("roi", nullFloatString(ev.Risk.ReturnOnInvestment.Valid, ev.Risk.ReturnOnInvestment.Float64)).
			Str("debt_to_equity", nullFloatString(ev.Risk.DebtToEquityRatio.Valid, ev.Risk.DebtToEquityRatio.Float64)).
			Str("category", ev.Risk.Category.String)
	}
	if len(ev.Issues) > 0 {
		e = e.Int("issues", len(ev.Issues))
	}
	msg := ev.Message
	if msg == "" {
		msg = "analysis progress"
	}
	e.Msg(msg)
}

func nullFloatString(valid bool, v float64) string {
	if !valid {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // served from the same host as the form
	},
}

type wsMessage struct {
	Type    string        `json:"type"`
	Payload ProgressEvent `json:"payload"`
}

// ProgressHub pushes progress events to every connected websocket client
type ProgressHub struct {
	logger      arbor.ILogger
	clients     map[*websocket.Conn]bool
	clientMutex map[*websocket.Conn]*sync.Mutex
	mu          sync.RWMutex
}

func NewProgressHub(logger arbor.ILogger) *ProgressHub {
	return &ProgressHub{
		logger:      logger,
		clients:     make(map[*websocket.Conn]bool),
		clientMutex: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *ProgressHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade websocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = &sync.Mutex{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Int("clients", count).Msg("progress client connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		remaining := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Int("clients", remaining).Msg("progress client disconnected")
	}()

	// nothing is expected from the client, reading only notices the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("websocket error")
			}
			break
		}
	}
}

func (h *ProgressHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *ProgressHub) Report(ev ProgressEvent) {
	data, err := json.Marshal(wsMessage{Type: "progress", Payload: ev})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal progress message")
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
		mutexes = append(mutexes, h.clientMutex[conn])
	}
	h.mu.RUnlock()

	for i, conn := range clients {
		mutex := mutexes[i]
		mutex.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutex.Unlock()

		if err != nil {
			h.logger.Warn().Err(err).Msg("failed to send progress to client")
		}
	}
}

// FanOut reports to each reporter in order
type FanOut []ProgressReporter

func (f FanOut) Report(ev ProgressEvent) {
	for _, r := range f {
		r.Report(ev)
	}
}
