package handlers

import (
	"fmt"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/services"
	"github.com/google/uuid"
)

// awardXP credits the ledger and announces a level up. It never fails the
// action that earned the XP.
func awardXP(userID uuid.UUID, amount int) services.XPResult {
	res := services.AwardXP(database.DB, userID, amount)
	if !res.LeveledUp {
		return res
	}

	LogActivity(userID, models.ActivityLevelUp, nil, 0, map[string]interface{}{
		"oldLevel": res.OldLevel,
		"newLevel": res.NewLevel,
	})
	CreateNotification(userID, models.NotificationLevelUp,
		"Level up!",
		fmt.Sprintf("You reached level %d", res.NewLevel),
		map[string]interface{}{"level": res.NewLevel},
	)
	WS.Send(userID, WSEvent{Type: EventLevelUp, Data: res})

	return res
}
