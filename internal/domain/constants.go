package domain

// Стоимость действий в тиках (Time Units)
const (
	TimeCostMove = 100
	TimeCostWait = 50
)

// Урон от удара при попытке шагнуть в занятую клетку
const MeleeDamage uint8 = 1
