package engine

import (
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/internal/systems"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// npcCommand превращает решение AI во внутреннюю команду.
// Шаг в клетку с живой сущностью исполнится как удар.
func (i *Instance) npcCommand(npc *domain.Thing) domain.InternalCommand {
	action, dir := systems.ComputeNPCAction(i.World, npc, i.Nav)

	logger.Log.WithFields(logrus.Fields{
		"component": "ai_turn",
		"thing_id":  npc.ID,
		"action":    action,
		"dir":       dir,
		"tick":      i.CurrentTick,
	}).Debug("NPC decided")

	return domain.InternalCommand{Action: action, Actor: npc.ID, Dir: dir}
}
