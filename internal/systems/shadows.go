package systems

// Circle - полный оборот в целочисленных единицах угла.
// Делится на 12*r без потери точности для всех поддерживаемых радиусов.
const Circle uint32 = 3600000

// ShadowInterval - закрытый от наблюдателя сектор [Right, Left], Left >= Right.
// Углы растут против часовой стрелки, 0 - восток.
type ShadowInterval struct {
	Left  uint32 `json:"left"`
	Right uint32 `json:"right"`
}

// touches - интервалы пересекаются или соприкасаются с допуском в 1 единицу.
func (s ShadowInterval) touches(o ShadowInterval) bool {
	return s.Right <= o.Left+1 && o.Right <= s.Left+1
}

// absorb расширяет s до объединения с o, если они соприкасаются.
func (s *ShadowInterval) absorb(o ShadowInterval) bool {
	if !s.touches(o) {
		return false
	}
	if o.Left > s.Left {
		s.Left = o.Left
	}
	if o.Right < s.Right {
		s.Right = o.Right
	}
	return true
}

// covers - o целиком внутри s.
func (s ShadowInterval) covers(o ShadowInterval) bool {
	return s.Left >= o.Left && s.Right <= o.Right
}

// ShadowSet - все тени одного обхода. Инвариант: после каждой вставки
// никакие два интервала не пересекаются и не соприкасаются.
type ShadowSet struct {
	intervals []ShadowInterval
}

// Len - количество интервалов.
func (s *ShadowSet) Len() int {
	return len(s.intervals)
}

// Intervals возвращает копию интервалов (для тестов и отладки).
func (s *ShadowSet) Intervals() []ShadowInterval {
	res := make([]ShadowInterval, len(s.intervals))
	copy(res, s.intervals)
	return res
}

// Insert добавляет тень от left до right. Если сектор проходит через 0
// (right > left), он делится на две половины: [left, 0] и [Circle, right].
func (s *ShadowSet) Insert(left, right uint32) {
	if right > left {
		s.insertLinear(ShadowInterval{Left: left, Right: 0})
		s.insertLinear(ShadowInterval{Left: Circle, Right: right})
		return
	}
	s.insertLinear(ShadowInterval{Left: left, Right: right})
}

func (s *ShadowSet) insertLinear(iv ShadowInterval) {
	merged := false
	for i := range s.intervals {
		if s.intervals[i].absorb(iv) {
			merged = true
		}
	}
	if !merged {
		s.intervals = append(s.intervals, iv)
		return
	}
	s.fold()
}

// fold сливает попарно все соприкасающиеся интервалы, пока есть что сливать.
// Порядок оставшихся интервалов сохраняется.
func (s *ShadowSet) fold() {
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(s.intervals); i++ {
			for j := i + 1; j < len(s.intervals); {
				if s.intervals[i].absorb(s.intervals[j]) {
					s.intervals = append(s.intervals[:j], s.intervals[j+1:]...)
					changed = true
					continue
				}
				j++
			}
		}
	}
}

// Covers - сектор от left до right целиком в тени.
// Сектор через 0 закрыт, только если закрыты обе его половины.
func (s *ShadowSet) Covers(left, right uint32) bool {
	if right > left {
		return s.coversLinear(ShadowInterval{Left: left, Right: 0}) &&
			s.coversLinear(ShadowInterval{Left: Circle, Right: right})
	}
	return s.coversLinear(ShadowInterval{Left: left, Right: right})
}

func (s *ShadowSet) coversLinear(iv ShadowInterval) bool {
	for _, sh := range s.intervals {
		if sh.covers(iv) {
			return true
		}
	}
	return false
}

// StrictlyInside - угол лежит строго внутри какой-то тени (границы не считаются).
func (s *ShadowSet) StrictlyInside(angle uint32) bool {
	for _, sh := range s.intervals {
		if angle < sh.Left && angle > sh.Right {
			return true
		}
	}
	return false
}

// Overlapping ищет нарушение инварианта. Возвращает первую найденную пару.
func (s *ShadowSet) Overlapping() (ShadowInterval, ShadowInterval, bool) {
	for i := 0; i < len(s.intervals); i++ {
		for j := i + 1; j < len(s.intervals); j++ {
			if s.intervals[i].touches(s.intervals[j]) {
				return s.intervals[i], s.intervals[j], true
			}
		}
	}
	return ShadowInterval{}, ShadowInterval{}, false
}
