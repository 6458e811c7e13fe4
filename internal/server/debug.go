package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Instance *engine.Instance
}

func NewDebugHandler(inst *engine.Instance) *DebugHandler {
	return &DebugHandler{Instance: inst}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/queue", h.handleTurnQueue)
	mux.HandleFunc("/debug/view", h.handleView)
}

// /debug/queue - просмотр очереди ходов.
// TurnQueue - это куча, порядок в слайсе не совпадает с порядком ходов, но для дебага сойдет.
func (h *DebugHandler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Instance.DebugQueue())
}

// /debug/view?thing=<id> - снимок мира глазами любой сущности, без подписки
func (h *DebugHandler) handleView(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseThingID(r.URL.Query().Get("thing"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view, err := h.Instance.View(id)
	if errors.Is(err, engine.ErrUnknownThing) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, view)
}

func writeJSON(w http.ResponseWriter, data any) {
	// Нужно для локального debug-клиента
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, пустая очередь), возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
