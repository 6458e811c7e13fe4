package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/internal/engine"
	"github.com/plomlompom/plomrogue-sub000/internal/network"
	"github.com/plomlompom/plomrogue-sub000/internal/systems"
	"github.com/plomlompom/plomrogue-sub000/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	inst   *engine.Instance
	hub    *network.Broadcaster
	srv    *httptest.Server
	hero   *domain.Thing
	monkey *domain.Thing
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w, err := domain.NewOpenWorld(5)
	require.NoError(t, err)

	hero := &domain.Thing{ID: domain.PackThingID(domain.ThingHuman, 1), Type: domain.ThingHuman, Lifepoints: 5, Pos: domain.HexPosition{Y: 2, X: 2}}
	monkey := &domain.Thing{ID: domain.PackThingID(domain.ThingMonkey, 2), Type: domain.ThingMonkey, Lifepoints: 2, Pos: domain.HexPosition{Y: 4, X: 4}}
	require.NoError(t, w.AddThing(hero))
	require.NoError(t, w.AddThing(monkey))

	hub := network.NewBroadcaster()
	inst, err := engine.NewInstance(w, systems.NavOptions{}, hub)
	require.NoError(t, err)

	srv := httptest.NewServer(New(inst, hub, "0").Handler())
	t.Cleanup(srv.Close)

	return &fixture{inst: inst, hub: hub, srv: srv, hero: hero, monkey: monkey}
}

func (f *fixture) wsURL(id domain.ThingID) string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws?thing=" + strconv.FormatUint(uint64(id), 10)
}

func readView(t *testing.T, conn *websocket.Conn) api.ViewUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var view api.ViewUpdate
	require.NoError(t, conn.ReadJSON(&view))
	return view
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	health := func() map[string]any {
		resp, err := http.Get(f.srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	body := health()
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(0), body["clients"])

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(f.hero.ID), nil)
	require.NoError(t, err)
	defer conn.Close()
	readView(t, conn)
	assert.Equal(t, float64(1), health()["clients"])
}

func TestWS_MoveRoundTrip(t *testing.T) {
	f := newFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(f.hero.ID), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Первый снимок приходит сразу после подключения
	first := readView(t, conn)
	assert.Equal(t, strconv.FormatUint(uint64(f.hero.ID), 10), first.MyThingID)
	assert.Equal(t, 5, first.Grid.Length)
	require.Eventually(t, func() bool { return f.hub.HasSubscriber(f.hero.ID) }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: "MOVE", Dir: "d"}))

	// Команда доходит до инстанса асинхронно
	require.Eventually(t, func() bool {
		stepped, err := f.inst.Step()
		return err == nil && stepped
	}, time.Second, 10*time.Millisecond)

	view := readView(t, conn)
	var me *api.ThingView
	for n := range view.Things {
		if view.Things[n].ID == view.MyThingID {
			me = &view.Things[n]
		}
	}
	require.NotNil(t, me)
	assert.Equal(t, api.PosView{Y: 2, X: 3}, me.Pos)
}

func TestWS_DisconnectReleasesThing(t *testing.T) {
	f := newFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(f.hero.ID), nil)
	require.NoError(t, err)
	readView(t, conn)
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		var released bool
		_ = f.inst.Snapshot(func(*domain.GameWorld) error {
			released = !f.hero.IsPlayer()
			return nil
		})
		return released && !f.hub.HasSubscriber(f.hero.ID)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWS_InitResendsView(t *testing.T) {
	f := newFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(f.hero.ID), nil)
	require.NoError(t, err)
	defer conn.Close()
	first := readView(t, conn)

	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: "INIT"}))
	again := readView(t, conn)
	assert.Equal(t, first.Tick, again.Tick)
	assert.Equal(t, first.Map, again.Map)

	// Повторный снимок не занимает ход: инстанс все еще ждет команду игрока
	stepped, err := f.inst.Step()
	require.NoError(t, err)
	assert.False(t, stepped)
}

func TestWS_SecondConnectionRejected(t *testing.T) {
	f := newFixture(t)

	first, _, err := websocket.DefaultDialer.Dial(f.wsURL(f.hero.ID), nil)
	require.NoError(t, err)
	defer first.Close()
	readView(t, first)

	second, resp, err := websocket.DefaultDialer.Dial(f.wsURL(f.hero.ID), nil)
	if second != nil {
		second.Close()
	}
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Первое подключение продолжает работать
	require.NoError(t, first.WriteJSON(api.ClientCommand{Action: "WAIT"}))
	require.Eventually(t, func() bool {
		stepped, err := f.inst.Step()
		return err == nil && stepped
	}, time.Second, 10*time.Millisecond)
	view := readView(t, first)
	assert.Equal(t, view.MyThingID, strconv.FormatUint(uint64(f.hero.ID), 10))
}

func TestWS_BadRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"not a number", "?thing=abc", http.StatusBadRequest},
		{"unknown thing", "?thing=" + strconv.FormatUint(uint64(domain.PackThingID(domain.ThingBear, 9)), 10), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(f.srv.URL + "/ws" + tt.query)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestToInternal(t *testing.T) {
	id := domain.PackThingID(domain.ThingHuman, 1)

	tests := []struct {
		name    string
		cmd     api.ClientCommand
		want    domain.InternalCommand
		wantErr bool
	}{
		{"move by key", api.ClientCommand{Action: "MOVE", Dir: "d"}, domain.InternalCommand{Action: domain.ActionMove, Actor: id, Dir: domain.DirEast}, false},
		{"wait", api.ClientCommand{Action: "wait"}, domain.InternalCommand{Action: domain.ActionWait, Actor: id}, false},
		{"resync", api.ClientCommand{Action: "INIT"}, domain.InternalCommand{Action: domain.ActionInit, Actor: id}, false},
		{"move without dir", api.ClientCommand{Action: "MOVE"}, domain.InternalCommand{}, true},
		{"bad dir", api.ClientCommand{Action: "MOVE", Dir: "q"}, domain.InternalCommand{}, true},
		{"unknown action", api.ClientCommand{Action: "JUMP"}, domain.InternalCommand{}, true},
		{"empty", api.ClientCommand{}, domain.InternalCommand{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toInternal(id, tt.cmd)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDebugRoutes(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.srv.URL + "/debug/queue")
	require.NoError(t, err)
	var queue []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&queue))
	resp.Body.Close()
	assert.Len(t, queue, 2)

	resp, err = http.Get(f.srv.URL + "/debug/view?thing=" + strconv.FormatUint(uint64(f.monkey.ID), 10))
	require.NoError(t, err)
	var view api.ViewUpdate
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	resp.Body.Close()
	assert.Len(t, view.Map, 5)
}
