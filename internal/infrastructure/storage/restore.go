package storage

import (
	"context"
	"errors"
	"os"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// RestoreMemories возвращает живым сущностям мира память, сохраненную прошлым запуском.
// Сначала ищется запись в SQLite, для людей без записи - их файл состояния мира.
// Память от карты другой длины пропускается. Любой из источников может быть nil.
//
// Вызывать до NewInstance: местность должна быть построена с тем же зерном, что и в прошлый раз.
func RestoreMemories(ctx context.Context, store *MemoryStore, states *WorldStateService, w *domain.GameWorld) (int, error) {
	restoreLogger := logger.Log.WithField("component", "memory_restore")

	restored := 0
	for _, t := range w.Things {
		if !t.IsAlive() {
			continue
		}
		mem, err := storedMemory(ctx, store, states, t, w.MapLength())
		if err != nil {
			return restored, err
		}
		if mem == nil {
			continue
		}
		if mem.Map == nil || mem.Map.Length != w.MapLength() {
			restoreLogger.WithField("thing_id", t.ID).Warn("Stored memory belongs to another map, skipped")
			continue
		}
		t.Memory = mem
		restored++
	}

	restoreLogger.WithFields(logrus.Fields{
		"restored": restored,
		"things":   len(w.Things),
	}).Info("Memory maps restored")
	return restored, nil
}

// storedMemory ищет память одной сущности. nil без ошибки - памяти нет нигде.
func storedMemory(ctx context.Context, store *MemoryStore, states *WorldStateService, t *domain.Thing, length int) (*domain.MemoryComponent, error) {
	if store != nil {
		mem, _, err := store.LoadMemory(ctx, t.ID)
		if err == nil {
			return mem, nil
		}
		if !errors.Is(err, ErrNoMemory) {
			return nil, err
		}
	}

	if states == nil || t.Type != domain.ThingHuman {
		return nil, nil
	}
	ws, err := states.Load(states.Path(t.ID), length)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, nil
	case errors.Is(err, ErrBadWorldState):
		logger.Log.WithError(err).WithField("thing_id", t.ID).Warn("World state file unreadable, skipped")
		return nil, nil
	case err != nil:
		return nil, err
	}
	if ws.ThingID != t.ID {
		return nil, nil
	}
	return ws.Memory, nil
}
