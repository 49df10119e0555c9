package services

import (
	"context"
	"fmt"
	"time"

	"github.com/PDAC95/japp/models"

	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitAlert persists a nutrition alert and fans it out to websocket and
// push channels. Safe to call anywhere; a no-op before initialization.
func EmitAlert(userID uint, typ, message string) {
	if _alert.db == nil {
		return
	}
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
	if _alert.ps != nil {
		_alert.ps.PushToUser(userID, "Nutrition Alert", message, map[string]string{
			"type": typ, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}

// EmitSummaryUpdate recomputes the day's summary and pushes it to the
// user's live connections, so dashboards refresh as meals change.
// Skipped entirely when nobody is connected.
func EmitSummaryUpdate(ctx context.Context, userID uint, date time.Time) {
	if _alert.db == nil || _alert.rt == nil || !_alert.rt.HasClients(userID) {
		return
	}
	summary, err := NewDailySummaryService(_alert.db).GetDailySummary(ctx, userID, date, true)
	if err != nil {
		return
	}
	_alert.rt.Broadcast(userID, map[string]any{
		"kind":    "summary.updated",
		"summary": summary,
	})
}

// EmitBalanceAlerts inspects a freshly computed balance and flags a day
// that ran meaningfully over the calorie goal.
func EmitBalanceAlerts(userID uint, balance *CalorieBalance) {
	if balance == nil || balance.Goal <= 0 {
		return
	}
	if balance.Deficit < 0 && balance.DeficitPercent <= -15 {
		EmitAlert(userID, "warning", fmt.Sprintf(
			"You are %.0f calories over your %.0f goal today.",
			-balance.Deficit, balance.Goal))
	}
}

func ListAlerts(db *gorm.DB, userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	var alerts []models.Alert
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
