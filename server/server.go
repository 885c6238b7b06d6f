// Package server exposes games over a websocket so a GUI can drive them. One
// connection gets one session; the protocol is JSON text messages in both
// directions.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// The GUI is served from a file:// origin, so origin checks would only ever
// reject it.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server runs the websocket game service.
type Server struct {
	srv *http.Server
}

func New(addr string) *Server {
	s := &Server{}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/", s.serveConn)
	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

// Handler exposes the routes for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe blocks until Shutdown is called or the listener fails.
func (s *Server) ListenAndServe() error {
	log.Info().Str("ws-address", s.srv.Addr).Msg("listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight handlers up
// to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) serveConn(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sess := NewSession()
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("session-started")
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("session-closed")
			return
		}
		var req Request
		if err := sonic.Unmarshal(raw, &req); err != nil {
			log.Warn().Err(err).Bytes("raw", raw).Msg("undecodable message")
			continue
		}
		for _, reply := range sess.Handle(req) {
			out, err := sonic.Marshal(reply)
			if err != nil {
				log.Error().Err(err).Msg("reply encoding failed")
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				log.Debug().Err(err).Msg("session-closed")
				return
			}
		}
	}
}
