package domain

import "strings"

// ThingType - вид сущности на карте. Определяет символ и стартовые жизни.
type ThingType uint8

const (
	ThingUnknown ThingType = iota
	ThingHuman             // Игрок
	ThingMonkey
	ThingBear
	ThingCorpse
	ThingStone
	ThingMushroom
)

type thingTypeInfo struct {
	Name       string
	Symbol     byte
	Lifepoints uint8 // 0 - неодушевленный предмет
}

var thingTypes = map[ThingType]thingTypeInfo{
	ThingHuman:    {"HUMAN", '@', 5},
	ThingMonkey:   {"MONKEY", 'm', 2},
	ThingBear:     {"BEAR", 'B', 6},
	ThingCorpse:   {"CORPSE", '%', 0},
	ThingStone:    {"STONE", 'o', 0},
	ThingMushroom: {"MUSHROOM", '"', 0},
}

// String возвращает строковое представление (для логов и дебага)
func (t ThingType) String() string {
	if info, ok := thingTypes[t]; ok {
		return info.Name
	}
	return "UNKNOWN"
}

// Symbol - символ для карты клиента.
func (t ThingType) Symbol() byte {
	if info, ok := thingTypes[t]; ok {
		return info.Symbol
	}
	return '?'
}

// StartLifepoints - жизни только что созданной сущности.
func (t ThingType) StartLifepoints() uint8 {
	return thingTypes[t].Lifepoints
}

// ParseThingType конвертирует строку в Enum (нужно для загрузки конфигов)
func ParseThingType(s string) ThingType {
	upper := strings.ToUpper(s)
	for t, info := range thingTypes {
		if info.Name == upper {
			return t
		}
	}
	return ThingUnknown
}

// ThingTypeBySymbol - обратный поиск по символу (чтение файла состояния мира).
func ThingTypeBySymbol(sym byte) ThingType {
	for t, info := range thingTypes {
		if info.Symbol == sym {
			return t
		}
	}
	return ThingUnknown
}
