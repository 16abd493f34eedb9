package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guidoenr/vibeshader/internal/engine"
	"github.com/guidoenr/vibeshader/internal/palette"
	"github.com/guidoenr/vibeshader/internal/params"
)

// Controller is the part of the runtime the web boundary drives.
type Controller interface {
	Engine() *engine.Engine
	SetAnimating(on bool)
	Animating() bool
	FPS() float64
}

// Config configures a Server.
type Config struct {
	Log *log.Logger
	// Interval between websocket status pushes.
	Interval time.Duration
}

// Server exposes status and configuration over HTTP and streams status
// snapshots to websocket clients.
type Server struct {
	ctl      Controller
	log      *log.Logger
	interval time.Duration
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	mu      sync.Mutex
	clients map[*websocketClient]struct{}
	closed  bool
}

type websocketClient struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// StatusResponse is returned by /api/status and pushed on /ws.
type StatusResponse struct {
	Animating bool          `json:"animating"`
	FPS       float64       `json:"fps"`
	Engine    engine.Status `json:"engine"`
}

// UpdateRequest is a partial update; nil fields are left alone.
type UpdateRequest struct {
	Contrast      *float64          `json:"contrast,omitempty"`
	SpinAmount    *float64          `json:"spinAmount,omitempty"`
	Intensity     *float64          `json:"intensity,omitempty"`
	Parallax      *float64          `json:"parallax,omitempty"`
	TimeSpeed     *float64          `json:"timeSpeed,omitempty"`
	SpinSpeed     *float64          `json:"spinSpeed,omitempty"`
	Theme         *string           `json:"theme,omitempty"`
	MainColor     *int              `json:"mainColor,omitempty"`
	AccentColor   *int              `json:"accentColor,omitempty"`
	Bindings      map[string]string `json:"bindings,omitempty"`
	ResetBindings bool              `json:"resetBindings,omitempty"`
	Animating     *bool             `json:"animating,omitempty"`
}

// NewServer builds a server for ctl.
func NewServer(ctl Controller, cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = log.New(io.Discard, "", 0)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 500 * time.Millisecond
	}
	s := &Server{
		ctl:      ctl,
		log:      cfg.Log,
		interval: cfg.Interval,
		clients:  make(map[*websocketClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/update", s.handleUpdate)
	s.mux.HandleFunc("/api/themes", s.handleThemes)
	s.mux.HandleFunc("/api/channels", s.handleChannels)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves on addr and pushes status until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 5 * time.Second}
	go s.Broadcast(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Printf("[web] control server on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) status() StatusResponse {
	return StatusResponse{
		Animating: s.ctl.Animating(),
		FPS:       s.ctl.FPS(),
		Engine:    s.ctl.Engine().Snapshot(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode update: %v", err), http.StatusBadRequest)
		return
	}
	if err := s.apply(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.status())
}

// apply validates every binding before writing anything, so a bad request
// leaves the engine untouched.
func (s *Server) apply(req UpdateRequest) error {
	type route struct {
		effect  params.Effect
		channel params.Channel
	}
	routes := make([]route, 0, len(req.Bindings))
	for name, ch := range req.Bindings {
		effect, err := params.ParseEffect(name)
		if err != nil {
			return err
		}
		channel, err := params.ParseChannel(ch)
		if err != nil {
			return err
		}
		routes = append(routes, route{effect, channel})
	}

	e := s.ctl.Engine()
	p := e.Params()
	setIf := func(v *float64, set func(float64)) {
		if v != nil {
			set(*v)
		}
	}
	setIf(req.Contrast, p.SetContrast)
	setIf(req.SpinAmount, p.SetSpinAmount)
	setIf(req.Intensity, p.SetIntensity)
	setIf(req.Parallax, p.SetParallax)
	setIf(req.TimeSpeed, p.SetTimeSpeed)
	setIf(req.SpinSpeed, p.SetSpinSpeed)
	if req.Theme != nil {
		e.SetTheme(*req.Theme)
	}
	if req.MainColor != nil {
		e.SetMainColor(*req.MainColor)
	}
	if req.AccentColor != nil {
		e.SetAccentColor(*req.AccentColor)
	}
	if req.ResetBindings {
		e.ResetBindings()
	}
	for _, rt := range routes {
		e.SetBinding(rt.effect, rt.channel)
	}
	if req.Animating != nil {
		s.ctl.SetAnimating(*req.Animating)
	}
	return nil
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, palette.ThemeNames())
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	effects := make([]string, 0, len(params.Effects()))
	for _, e := range params.Effects() {
		effects = append(effects, e.String())
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"channels": params.ChannelNames(),
		"effects":  effects,
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.isClosed() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("[web] websocket upgrade error: %v", err)
		return
	}
	client := &websocketClient{
		conn:   conn,
		send:   make(chan []byte, 16),
		server: s,
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	go client.writePump()
	go client.readPump()
}

// Broadcast pushes a status snapshot to every websocket client each
// interval until ctx is done.
func (s *Server) Broadcast(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.closeClients()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			data, err := json.Marshal(s.status())
			if err != nil {
				s.log.Printf("[web] encode status: %v", err)
				continue
			}
			s.publish(data)
		}
	}
}

func (s *Server) publish(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		select {
		case client.send <- data:
		default:
			// slow client
			close(client.send)
			delete(s.clients, client)
		}
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// closeClients disconnects every client and refuses new ones.
func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for client := range s.clients {
		close(client.send)
		delete(s.clients, client)
	}
}

func (s *Server) drop(c *websocketClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		close(c.send)
		delete(s.clients, c)
	}
}

func (c *websocketClient) readPump() {
	defer func() {
		c.server.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *websocketClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
