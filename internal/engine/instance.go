package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/internal/systems"
	"github.com/plomlompom/plomrogue-sub000/pkg/api"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownThing = errors.New("unknown thing")
	ErrNotPlayer    = errors.New("thing is not controlled by a client")
	ErrDeadThing    = errors.New("thing is dead")

	ErrAlreadyClaimed = errors.New("thing is already controlled by another client")
)

// Publisher - получатель снимков мира (обычно network.Broadcaster).
type Publisher interface {
	HasSubscriber(id domain.ThingID) bool
	SendTo(id domain.ThingID, msg api.ViewUpdate)
}

// Instance представляет собой один запущенный уровень: мир, очередь ходов и команды игроков.
// Все изменения состояния идут под mu: цикл Run и горутины клиентов работают параллельно.
type Instance struct {
	mu sync.Mutex

	World       *domain.GameWorld
	TurnManager *TurnManager
	Nav         systems.NavOptions
	Hub         Publisher

	CurrentTick int
	Logs        []api.LogEntry // Локальные логи уровня

	pending map[domain.ThingID]domain.InternalCommand // Команды игроков, ждущие их хода
	wake    chan struct{}
	logSeq  uint64
}

// NewInstance регистрирует всех живых в очереди ходов и считает им поле зрения.
func NewInstance(world *domain.GameWorld, nav systems.NavOptions, hub Publisher) (*Instance, error) {
	i := &Instance{
		World:       world,
		TurnManager: NewTurnManager(),
		Nav:         nav,
		Hub:         hub,
		CurrentTick: world.Tick,
		pending:     make(map[domain.ThingID]domain.InternalCommand),
		wake:        make(chan struct{}, 1),
	}
	for _, t := range world.Things {
		if !t.IsAlive() {
			continue
		}
		if t.AI == nil {
			t.AI = &domain.AIComponent{NextActionTick: world.Tick}
		}
		if err := systems.UpdateVision(world, t); err != nil {
			return nil, fmt.Errorf("initial vision for %s: %w", t.ID, err)
		}
		i.TurnManager.AddThing(t)
	}
	return i, nil
}

// Run делает ходы, пока не отменят ctx. NPC ходят не чаще раза в interval,
// ход игрока начинается сразу после Submit.
func (i *Instance) Run(ctx context.Context, interval time.Duration) error {
	logger.Log.WithField("things", len(i.World.Things)).Info("Instance loop started")
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Instance loop stopped")
			return nil
		case <-ticker.C:
		case <-i.wake:
		}

		if _, err := i.Step(); err != nil {
			logger.Log.WithError(err).Error("Turn aborted")
		}
	}
}

// Step обрабатывает ход одной сущности.
// false - ходить некому или активный игрок еще не прислал команду.
func (i *Instance) Step() (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	// 1. Кто ходит?
	item := i.TurnManager.PeekNext()
	if item == nil {
		return false, nil
	}
	actor := item.Value
	i.CurrentTick = actor.AI.NextActionTick
	i.World.Tick = i.CurrentTick

	// 2. Мертвые покидают очередь
	if !actor.IsAlive() {
		i.TurnManager.RemoveThing(actor.ID)
		delete(i.pending, actor.ID)
		return true, nil
	}

	// 3. Команда: от клиента или от AI
	var cmd domain.InternalCommand
	if actor.IsPlayer() {
		c, ok := i.pending[actor.ID]
		if !ok {
			return false, nil
		}
		delete(i.pending, actor.ID)
		cmd = c
	} else {
		cmd = i.npcCommand(actor)
	}

	// 4. Исполнение. Время актора идет и при ошибке, иначе очередь застрянет на нем
	err := i.execute(actor, cmd)
	i.TurnManager.UpdatePriority(actor.ID, actor.AI.NextActionTick)

	// 5. Рассылка
	i.publishAll()
	return true, err
}

// Submit ставит команду клиента в очередь. Исполнится в ход этой сущности.
// Повторная команда до хода заменяет предыдущую.
func (i *Instance) Submit(cmd domain.InternalCommand) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	actor := i.World.GetThing(cmd.Actor)
	switch {
	case actor == nil:
		return fmt.Errorf("%w: %s", ErrUnknownThing, cmd.Actor)
	case !actor.IsAlive():
		return fmt.Errorf("%w: %s", ErrDeadThing, cmd.Actor)
	case !actor.IsPlayer():
		return fmt.Errorf("%w: %s", ErrNotPlayer, cmd.Actor)
	}
	if cmd.Action != domain.ActionMove && cmd.Action != domain.ActionWait {
		return fmt.Errorf("unsupported action %s", cmd.Action)
	}
	i.pending[cmd.Actor] = cmd

	select {
	case i.wake <- struct{}{}:
	default:
	}
	return nil
}

// Claim отдает сущность под управление клиента session.
func (i *Instance) Claim(id domain.ThingID, session string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	t := i.World.GetThing(id)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrUnknownThing, id)
	}
	if !t.IsAlive() {
		return fmt.Errorf("%w: %s", ErrDeadThing, id)
	}
	if t.ControllerID != "" && t.ControllerID != session {
		return fmt.Errorf("%w: %s", ErrAlreadyClaimed, id)
	}
	t.ControllerID = session
	logger.Log.WithFields(logrus.Fields{"thing_id": id, "session": session}).Info("Thing claimed by client")
	return nil
}

// Release возвращает сущность AI (клиент отключился).
// Если сущность уже перехватила другая сессия, ничего не меняется.
func (i *Instance) Release(id domain.ThingID, session string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	t := i.World.GetThing(id)
	if t == nil || t.ControllerID != session {
		return
	}
	t.ControllerID = ""
	delete(i.pending, id)
	logger.Log.WithFields(logrus.Fields{"thing_id": id, "session": session}).Info("Thing released to AI")
}

// View строит снимок для одной сущности.
func (i *Instance) View(id domain.ThingID) (api.ViewUpdate, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	t := i.World.GetThing(id)
	if t == nil {
		return api.ViewUpdate{}, fmt.Errorf("%w: %s", ErrUnknownThing, id)
	}
	return i.buildView(t), nil
}

// DebugQueue - снимок очереди ходов.
func (i *Instance) DebugQueue() []map[string]any {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.TurnManager.DebugDump()
}

// Snapshot вызывает fn под блокировкой инстанса (для сохранения мира).
func (i *Instance) Snapshot(fn func(w *domain.GameWorld) error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return fn(i.World)
}

// execute выполняет команду в контексте уровня
func (i *Instance) execute(actor *domain.Thing, cmd domain.InternalCommand) error {
	switch cmd.Action {
	case domain.ActionMove:
		return i.move(actor, cmd.Dir)
	default:
		actor.AI.Wait(domain.TimeCostWait)
		return nil
	}
}

// move - шаг, удар по живому в целевой клетке или упор в стену.
func (i *Instance) move(actor *domain.Thing, dir domain.Direction) error {
	actor.AI.Wait(domain.TimeCostMove)

	res := systems.CalculateMove(actor, dir, i.World)
	switch {
	case res.HasMoved:
		actor.Pos = res.NewPos
		return systems.UpdateVision(i.World, actor)

	case res.BlockedBy != nil:
		i.attack(actor, res.BlockedBy)

	default:
		logger.Log.WithFields(logrus.Fields{
			"thing_id": actor.ID,
			"dir":      dir,
		}).Debug("Move blocked by terrain")
	}
	return nil
}

func (i *Instance) attack(attacker, target *domain.Thing) {
	died := target.TakeDamage(domain.MeleeDamage)
	i.AddLog(fmt.Sprintf("%s %s hits %s %s", attacker.Type, attacker.ID, target.Type, target.ID), "COMBAT")
	if died {
		i.TurnManager.RemoveThing(target.ID)
		delete(i.pending, target.ID)
		i.AddLog(fmt.Sprintf("%s dies", target.ID), "COMBAT")
	}
}

// publishAll рассылает снимки тем, на кого подписаны клиенты.
func (i *Instance) publishAll() {
	if i.Hub == nil {
		return
	}
	for _, t := range i.World.Things {
		if i.Hub.HasSubscriber(t.ID) {
			i.Hub.SendTo(t.ID, i.buildView(t))
		}
	}
}
