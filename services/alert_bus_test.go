package services

import (
	"context"
	"testing"
	"time"
)

func TestEmitBeforeInitIsNoOp(t *testing.T) {
	// Emitters must be safe to call before InitAlertDeps wires the bus.
	EmitAlert(1, "warning", "unwired")
	EmitSummaryUpdate(context.Background(), 1, time.Now())
	EmitBalanceAlerts(1, &CalorieBalance{Goal: 2000, Deficit: -400, DeficitPercent: -20})
}
