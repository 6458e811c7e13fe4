package network

import (
	"sync"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/api"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
)

// Broadcaster занимается только рассылкой снимков подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// ThingID -> личный канал
	subscribers map[domain.ThingID]chan api.ViewUpdate
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[domain.ThingID]chan api.ViewUpdate),
	}
}

// Register создает личный канал для сущности.
// Прежний подписчик той же сущности отключается: его канал закрывается.
func (b *Broadcaster) Register(id domain.ThingID) chan api.ViewUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.ViewUpdate, 100)
	b.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика, но только если ch - его текущий канал.
func (b *Broadcaster) Unregister(id domain.ThingID, ch chan api.ViewUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cur, ok := b.subscribers[id]; ok && cur == ch {
		close(cur)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет снимок конкретной сущности (Unicast).
// Медленный клиент теряет снимки, а не тормозит игровой цикл.
func (b *Broadcaster) SendTo(id domain.ThingID, msg api.ViewUpdate) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[id]; ok {
		select {
		case ch <- msg:
		default:
			logger.Log.WithField("thing_id", id).Debug("Hub: channel full, update dropped")
		}
	}
}

// HasSubscriber проверяет, смотрит ли кто-то на сущность
func (b *Broadcaster) HasSubscriber(id domain.ThingID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
