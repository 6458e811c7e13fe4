package engine

import (
	"container/heap"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
)

// TurnManager manages the priority queue of thing turns.
type TurnManager struct {
	queue   TurnQueue
	itemMap map[domain.ThingID]*TurnItem
	seq     uint64
}

func NewTurnManager() *TurnManager {
	return &TurnManager{
		queue:   make(TurnQueue, 0),
		itemMap: make(map[domain.ThingID]*TurnItem),
	}
}

func (tm *TurnManager) nextSeq() uint64 {
	tm.seq++
	return tm.seq
}

// AddThing registers a living thing in the turn system.
func (tm *TurnManager) AddThing(t *domain.Thing) {
	if t.AI == nil || !t.IsAlive() {
		return
	}
	if _, ok := tm.itemMap[t.ID]; ok {
		return
	}

	item := &TurnItem{
		Value:    t,
		Priority: t.AI.NextActionTick,
		Seq:      tm.nextSeq(),
	}

	heap.Push(&tm.queue, item)
	tm.itemMap[t.ID] = item

	logger.Log.WithField("thing_id", t.ID).Debug("Thing added to TurnManager")
}

// UpdatePriority moves a thing to the back of its new tick (after they acted).
func (tm *TurnManager) UpdatePriority(id domain.ThingID, newTick int) {
	if item, ok := tm.itemMap[id]; ok {
		tm.queue.Update(item, newTick, tm.nextSeq())
	}
}

// PeekNext returns the thing whose turn is next, without removing them.
func (tm *TurnManager) PeekNext() *TurnItem {
	if tm.queue.Len() == 0 {
		return nil
	}
	return tm.queue[0]
}

// RemoveThing removes a thing from the turn system (e.g. death).
func (tm *TurnManager) RemoveThing(id domain.ThingID) {
	if item, ok := tm.itemMap[id]; ok {
		heap.Remove(&tm.queue, item.Index)
		delete(tm.itemMap, id)
	}
}

func (tm *TurnManager) Contains(id domain.ThingID) bool {
	_, ok := tm.itemMap[id]
	return ok
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// DebugDump возвращает снимок очереди для отладки
func (tm *TurnManager) DebugDump() []map[string]any {
	// Пустой слайс, а не nil: в JSON будет "[]", а не "null"
	result := make([]map[string]any, 0, len(tm.queue))

	for _, item := range tm.queue {
		result = append(result, map[string]any{
			"id":       item.Value.ID,
			"type":     item.Value.Type,
			"priority": item.Priority,
			"index":    item.Index,
		})
	}
	return result
}
