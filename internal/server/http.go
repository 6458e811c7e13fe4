package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/internal/engine"
	"github.com/plomlompom/plomrogue-sub000/internal/network"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Instance *engine.Instance
	Hub      *network.Broadcaster
	Port     string

	sessions atomic.Uint64
}

func New(instance *engine.Instance, hub *network.Broadcaster, port string) *Server {
	return &Server{
		Instance: instance,
		Hub:      hub,
		Port:     port,
	}
}

// Handler собирает все роуты сервера
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))

	debugHandler := NewDebugHandler(s.Instance)
	debugHandler.RegisterRoutes(mux)

	return mux
}

// Run запускает HTTP сервер и останавливает его при отмене ctx
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Hex world server running on :%s", s.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket: /ws?thing=<id>
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseThingID(r.URL.Query().Get("thing"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session := fmt.Sprintf("session_%d", s.sessions.Add(1))
	if err := s.Instance.Claim(id, session); err != nil {
		status := http.StatusConflict
		if errors.Is(err, engine.ErrUnknownThing) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Instance.Release(id, session)
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s, conn, id, session)
	logger.Log.WithFields(logrus.Fields{
		"thing_id": id,
		"session":  session,
	}).Info("Client connected")

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

// handleHealth отвечает статусом и числом подключенных клиентов
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"clients": s.Hub.SubscriberCount(),
	})
}
