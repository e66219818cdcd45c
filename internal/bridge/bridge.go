// Package bridge exposes monitors, windows and one-shot moves over a local
// WebSocket endpoint so browser extensions and stream-deck style tooling can
// drive placements.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"displaywarp/internal/locator"
	"displaywarp/internal/monitor"
	"displaywarp/internal/winapi"
)

// Mover performs a one-shot move of an existing window to a monitor index.
// The orchestrator's MoveWindow fits directly.
type Mover func(h winapi.HWND, monitorIndex int) error

// command is the tagged wire format accepted on the socket.
type command struct {
	Type       string `json:"type"`
	HWND       uint64 `json:"hwnd,omitempty"`
	MonitorIdx int    `json:"monitor_idx,omitempty"`
}

type monitorsResponse struct {
	Type     string           `json:"type"`
	Monitors []winapi.Monitor `json:"monitors"`
}

type windowsResponse struct {
	Type    string              `json:"type"`
	Windows []winapi.WindowInfo `json:"windows"`
}

type textResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Server answers WebSocket clients on /ws. Each connection is handled on its
// own goroutine; moves run in the background so a slow placement never
// blocks the socket.
type Server struct {
	addr     string
	logger   *slog.Logger
	monitors monitor.Lister
	windows  locator.WindowLister
	move     Mover
	upgrader websocket.Upgrader
}

// NewServer builds the bridge. The origin check is deliberately open; the
// listener binds loopback only and the protocol carries no secrets.
func NewServer(addr string, logger *slog.Logger, monitors monitor.Lister, windows locator.WindowLister, move Mover) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:     addr,
		logger:   logger,
		monitors: monitors,
		windows:  windows,
		move:     move,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes, exposed separately for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("bridge listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errc:
		return fmt.Errorf("bridge: %w", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("bridge: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		resp := s.dispatch(data)
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(data []byte) any {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return textResponse{Type: "error", Message: fmt.Sprintf("Invalid command: %v", err)}
	}

	switch cmd.Type {
	case "get_monitors":
		monitors, err := s.monitors()
		if err != nil {
			return textResponse{Type: "error", Message: err.Error()}
		}
		return monitorsResponse{Type: "monitors", Monitors: monitors}

	case "get_windows":
		windows, err := locator.ListWindows(s.windows)
		if err != nil {
			return textResponse{Type: "error", Message: err.Error()}
		}
		return windowsResponse{Type: "windows", Windows: windows}

	case "move_window":
		monitors, err := s.monitors()
		if err != nil {
			return textResponse{Type: "error", Message: err.Error()}
		}
		idx := cmd.MonitorIdx
		if idx < 0 || idx >= len(monitors) {
			return textResponse{Type: "error", Message: fmt.Sprintf("Monitor index %d not found", idx)}
		}
		h := winapi.HWND(cmd.HWND)
		go func() {
			if err := s.move(h, idx); err != nil {
				s.logger.Warn("bridge: move failed", "hwnd", uint64(h), "error", err)
			}
		}()
		return textResponse{
			Type:    "ack",
			Message: fmt.Sprintf("Move initiated for HWND %d to Monitor %d", cmd.HWND, idx),
		}

	default:
		return textResponse{Type: "error", Message: fmt.Sprintf("Invalid command: %q", cmd.Type)}
	}
}
