package domain

import "errors"

// ErrWrapSessionDirty - WrapState переиспользуется без Reset после предыдущей сессии.
var ErrWrapSessionDirty = errors.New("wrap session reused without reset")

// WrapState считает, сколько раз последовательность шагов перешла край карты
// в виртуальную соседнюю копию. Принадлежит вызывающему, одна сессия = один обход.
//
// Пока счетчики не нулевые, позиция не считается легальной: заворот нужен только
// для непрерывности обхода, а не для того, чтобы что-то размещать вне карты.
type WrapState struct {
	WestEast   int8 `json:"westEast"`
	NorthSouth int8 `json:"northSouth"`

	dirty bool // С момента последнего Reset были шаги
}

// Reset обнуляет счетчики и закрывает сессию.
func (w *WrapState) Reset() {
	w.WestEast = 0
	w.NorthSouth = 0
	w.dirty = false
}

// Begin открывает новую сессию. Если состояние уже использовали и не сбросили -
// это ошибка вызывающего кода.
func (w *WrapState) Begin() error {
	if w.dirty || !w.IsZero() {
		return ErrWrapSessionDirty
	}
	return nil
}

// IsZero - true, если позиция сейчас на "настоящей" карте.
func (w *WrapState) IsZero() bool {
	return w.WestEast == 0 && w.NorthSouth == 0
}

// StepWrapped делает шаг и учитывает переход через границы uint8.
// DirNone работает как сброс: позиция не меняется, счетчики обнуляются.
// legal = счетчики нулевые и позиция внутри карты длины mapLength.
func (w *WrapState) StepWrapped(dir Direction, p HexPosition, mapLength int) (HexPosition, bool) {
	if dir == DirNone {
		w.Reset()
		return p, false
	}
	w.dirty = true

	next := Step(dir, p)

	if dir.IsEastward() && next.X < p.X {
		w.WestEast++
	} else if dir.IsWestward() && next.X > p.X {
		w.WestEast--
	}
	if dir.IsNorthward() && next.Y > p.Y {
		w.NorthSouth--
	} else if dir.IsSouthward() && next.Y < p.Y {
		w.NorthSouth++
	}

	legal := w.IsZero() && int(next.X) < mapLength && int(next.Y) < mapLength
	return next, legal
}

// EndSweep вызывается обходом при выходе: счетчики обнуляются,
// но сессия остается "грязной" до явного Reset.
func (w *WrapState) EndSweep() {
	w.WestEast = 0
	w.NorthSouth = 0
}
