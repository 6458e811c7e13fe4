package agent

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/internal/systems"
	"github.com/plomlompom/plomrogue-sub000/pkg/api"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Bot - внешний клиент без интерфейса. Подключается к /ws так же, как игрок,
// получает снимки и в свой ход отправляет команду.
//
// Бот знает только то, что прислал сервер: карту памяти и видимых сущностей.
// Незнакомые клетки для него непроходимы.
type Bot struct {
	ThingID domain.ThingID
	Conn    *websocket.Conn
	log     *logrus.Entry
}

// Dial подключается к серверу (http://host:port или ws://host:port) от имени сущности id.
func Dial(ctx context.Context, serverURL string, id domain.ThingID) (*Bot, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("bad server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"thing": {strconv.FormatUint(uint64(id), 10)}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}

	return &Bot{
		ThingID: id,
		Conn:    conn,
		log:     logger.Log.WithFields(logrus.Fields{"component": "bot", "thing_id": id}),
	}, nil
}

// Run слушает снимки, пока сервер не закроет соединение или не отменят ctx.
// При выходе соединение закрыто.
func (b *Bot) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-runCtx.Done()
		b.Conn.Close()
	}()

	for {
		var view api.ViewUpdate
		if err := b.Conn.ReadJSON(&view); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read update: %w", err)
		}

		// Реагируем только тогда, когда сервер сообщает: "Твой ход"
		if view.ActiveThingID == "" || view.ActiveThingID != view.MyThingID {
			continue
		}

		cmd := Decide(view)
		b.log.WithFields(logrus.Fields{"action": cmd.Action, "dir": cmd.Dir, "tick": view.Tick}).Debug("Bot decided")
		if err := b.Conn.WriteJSON(cmd); err != nil {
			return fmt.Errorf("send command: %w", err)
		}
	}
}

// Decide - мозг бота: тот же поиск пути, что и у NPC на сервере, но по локальной картине мира.
func Decide(view api.ViewUpdate) api.ClientCommand {
	wait := api.ClientCommand{Action: domain.ActionWait.String()}

	// 1. Воссоздание локальной картины мира
	local, me, err := buildLocalWorld(view)
	if err != nil {
		logger.Log.WithError(err).Warn("Bot cannot rebuild world. Waiting.")
		return wait
	}

	// 2. Мертвые не ходят
	if me == nil || !me.IsAlive() {
		return wait
	}

	// 3. Вызов системы навигации
	dir, ok := systems.ChooseDirection(local, me, systems.NavOptions{})
	if !ok {
		return wait
	}
	return api.ClientCommand{Action: domain.ActionMove.String(), Dir: string(dir.Key())}
}

// buildLocalWorld строит мир из карты памяти. Незнакомые клетки становятся скалами.
func buildLocalWorld(view api.ViewUpdate) (*domain.GameWorld, *domain.Thing, error) {
	if len(view.Map) != view.Grid.Length {
		return nil, nil, fmt.Errorf("map has %d rows, grid length %d", len(view.Map), view.Grid.Length)
	}
	rows := make([]string, len(view.Map))
	for y, row := range view.Map {
		rows[y] = strings.ReplaceAll(row, string(domain.MemUnknown), string(domain.TerrainRock))
	}
	local, err := domain.NewGameWorld(rows)
	if err != nil {
		return nil, nil, err
	}

	var me *domain.Thing
	for _, tv := range view.Things {
		t, err := thingFromView(tv)
		if err != nil {
			return nil, nil, err
		}
		if err := local.AddThing(t); err != nil {
			return nil, nil, err
		}
		if tv.ID == view.MyThingID {
			me = t
		}
	}
	if me == nil {
		return nil, nil, errors.New("self not found in update")
	}
	return local, me, nil
}

func thingFromView(tv api.ThingView) (*domain.Thing, error) {
	id, err := domain.ParseThingID(tv.ID)
	if err != nil {
		return nil, err
	}
	if tv.Pos.X < 0 || tv.Pos.X >= domain.MaxMapLength || tv.Pos.Y < 0 || tv.Pos.Y >= domain.MaxMapLength {
		return nil, fmt.Errorf("%w: thing %s at (%d,%d)", domain.ErrOutOfBounds, tv.ID, tv.Pos.Y, tv.Pos.X)
	}
	return &domain.Thing{
		ID:         id,
		Type:       domain.ParseThingType(tv.Type),
		Pos:        domain.HexPosition{Y: uint8(tv.Pos.Y), X: uint8(tv.Pos.X)},
		Lifepoints: uint8(tv.Lifepoints),
	}, nil
}
