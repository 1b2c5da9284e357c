// Package server exposes chat sessions over WebSocket for external UIs.
// Each connection owns one session; requests on a connection are handled
// in order, so a client sees its own sends and replies sequenced.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/autocube/cubo/pkg/chat"
)

// Request is a client-to-server frame.
type Request struct {
	// Type is "send", "options", or "history".
	Type string `json:"type"`

	// Text is the message body for "send" requests.
	Text string `json:"text,omitempty"`
}

// Response is a server-to-client frame.
type Response struct {
	// Type is "reply", "options", "history", or "error".
	Type string `json:"type"`

	// Session is the session id, set on every frame.
	Session string `json:"session"`

	// Turn carries the assistant's reply for "reply" frames.
	Turn *chat.Turn `json:"turn,omitempty"`

	// Turns carries the conversation for "history" frames.
	Turns []chat.Turn `json:"turns,omitempty"`

	// Options carries candidate replies for "options" frames.
	Options []string `json:"options,omitempty"`

	// Error and OutOfCredits describe a failed request.
	Error        string `json:"error,omitempty"`
	OutOfCredits bool   `json:"out_of_credits,omitempty"`
}

// SessionFactory creates the session backing a new connection.
type SessionFactory func() (*chat.Session, error)

// Options configures a Server.
type Options struct {
	// Addr is the listen address for ListenAndServe.
	Addr string

	// NewSession creates a session per connection. Required.
	NewSession SessionFactory

	// Logger is optional. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Server serves the WebSocket chat endpoint at /chat.
type Server struct {
	addr       string
	newSession SessionFactory
	logger     *slog.Logger
	upgrader   websocket.Upgrader

	httpServer *http.Server
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.NewSession == nil {
		return nil, errors.New("server: Options.NewSession is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:       opts.Addr,
		newSession: opts.NewSession,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	return s, nil
}

// Handler returns the HTTP handler serving the chat endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	return mux
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}
	errc := make(chan error, 1)
	go func() { errc <- s.httpServer.ListenAndServe() }()
	s.logger.Info("server: listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("server: upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	session, err := s.newSession()
	if err != nil {
		s.logger.Error("server: session create failed", "err", err)
		conn.WriteJSON(Response{Type: "error", Error: "session unavailable"})
		return
	}
	logger := s.logger.With("session", session.ID(), "remote", conn.RemoteAddr().String())
	logger.Info("server: connected")
	defer logger.Info("server: disconnected")

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("server: read failed", "err", err)
			}
			return
		}
		resp := s.handleRequest(r.Context(), session, req)
		if err := conn.WriteJSON(resp); err != nil {
			logger.Warn("server: write failed", "err", err)
			return
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, session *chat.Session, req Request) Response {
	resp := Response{Session: session.ID()}
	switch req.Type {
	case "send":
		reply, err := session.SendMessage(ctx, req.Text)
		if err != nil {
			return errorResponse(session, err)
		}
		resp.Type = "reply"
		resp.Turn = &chat.Turn{Role: chat.RoleAssistant, Content: reply}
	case "options":
		options, err := session.GenerateReplyOptions(ctx)
		if err != nil {
			return errorResponse(session, err)
		}
		resp.Type = "options"
		resp.Options = options
	case "history":
		resp.Type = "history"
		resp.Turns = session.History()
	default:
		resp.Type = "error"
		resp.Error = fmt.Sprintf("unknown request type %q", req.Type)
	}
	return resp
}

func errorResponse(session *chat.Session, err error) Response {
	resp := Response{
		Type:    "error",
		Session: session.ID(),
		Error:   err.Error(),
	}
	var terr *chat.TransportError
	if errors.As(err, &terr) {
		resp.OutOfCredits = terr.OutOfCredits()
	}
	return resp
}
