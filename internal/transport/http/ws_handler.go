package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"

	"nsepulse/internal/config"
	"nsepulse/internal/websocket"
)

// WebSocketHandler upgrades connections and hands them to the hub. Connected
// clients can query snapshots by date and receive batch completion events.
type WebSocketHandler struct {
	hub      *websocket.Hub
	service  AnalysisServiceInterface
	upgrader gorilla.Upgrader
	cfg      config.WebSocketConfig
	logger   *slog.Logger
}

// NewWebSocketHandler creates the websocket handler.
func NewWebSocketHandler(hub *websocket.Hub, service AnalysisServiceInterface, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &WebSocketHandler{
		hub:     hub,
		service: service,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "ws_handler")),
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return allowed["*"] || allowed[origin]
			},
		},
	}
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote", r.RemoteAddr),
		)
		return
	}

	client := websocket.NewClient(h.hub, conn, h.querySnapshot, h.cfg.WriteWait, h.cfg.PongWait, h.logger)
	go client.Serve()
}

// querySnapshot resolves a client's date query into a snapshot payload.
func (h *WebSocketHandler) querySnapshot(ctx context.Context, dateStr string) (interface{}, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, err
	}
	return h.service.Snapshot(ctx, date)
}
