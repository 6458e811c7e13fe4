package domain

// InternalCommand - команда для движка, уже разобранная из текста клиента.
type InternalCommand struct {
	Action ActionType
	Actor  ThingID
	Dir    Direction // Только для ActionMove
}
