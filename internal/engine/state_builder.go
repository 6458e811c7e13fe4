package engine

import (
	"strconv"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/api"
)

// buildView создает персональный "снимок" мира для сущности-наблюдателя.
// Вызывается под i.mu.
func (i *Instance) buildView(observer *domain.Thing) api.ViewUpdate {
	length := i.World.MapLength()
	view := api.ViewUpdate{
		Type:      "UPDATE",
		Tick:      i.CurrentTick,
		MyThingID: idString(observer.ID),
		Grid:      api.GridMeta{Length: length},
		Things:    []api.ThingView{},
	}
	if next := i.TurnManager.PeekNext(); next != nil {
		view.ActiveThingID = idString(next.Value.ID)
	}

	// 1. Карта памяти. Пока памяти нет - карта пустая.
	view.Map = make([]string, length)
	blank := make([]byte, length)
	for x := range blank {
		blank[x] = domain.MemUnknown
	}
	for y := 0; y < length; y++ {
		if observer.Memory != nil && observer.Memory.Map != nil {
			view.Map[y] = string(observer.Memory.Map.Cells[y*length : (y+1)*length])
		} else {
			view.Map[y] = string(blank)
		}
	}

	// 2. Поле зрения
	if observer.Fov != nil {
		view.Visible = make([]string, length)
		row := make([]byte, length)
		for y := 0; y < length; y++ {
			for x := 0; x < length; x++ {
				row[x] = ' '
				if observer.Fov.Cells[y*length+x] == domain.Visible {
					row[x] = '.'
				}
			}
			view.Visible[y] = string(row)
		}
	}

	// 3. Видимые сущности. Себя видим всегда, даже мертвым.
	for _, t := range i.World.Things {
		if t != observer && !observer.CanSee(t.Pos) {
			continue
		}
		view.Things = append(view.Things, api.ThingView{
			ID:         idString(t.ID),
			Type:       t.Type.String(),
			Symbol:     string(t.Type.Symbol()),
			Pos:        posView(t.Pos),
			Lifepoints: int(t.Lifepoints),
		})
	}

	// 4. Память о предметах
	if observer.Memory != nil {
		for _, tm := range observer.Memory.Things {
			view.Remembered = append(view.Remembered, api.RememberedView{
				Type:   tm.Type.String(),
				Symbol: string(tm.Type.Symbol()),
				Pos:    posView(tm.Pos),
				Age:    tm.Age,
			})
		}
	}

	view.Logs = append([]api.LogEntry(nil), i.Logs...)
	return view
}

func posView(p domain.HexPosition) api.PosView {
	return api.PosView{X: int(p.X), Y: int(p.Y)}
}

// idString - ID в том виде, в каком его принимает ?thing= и JSON.
func idString(id domain.ThingID) string {
	return strconv.FormatUint(uint64(id), 10)
}
