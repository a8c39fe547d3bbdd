package convert

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/OCAP2/autodrive/internal/model"
	"github.com/OCAP2/autodrive/pkg/core"
)

// PlanAttemptToCore converts a stored plan attempt back to a core.PlanEvent.
func PlanAttemptToCore(p model.PlanAttempt) (core.PlanEvent, error) {
	out := core.PlanEvent{
		SessionID:     p.SessionID,
		Time:          p.Time,
		Turn:          p.Turn,
		SpeedTPS:      p.SpeedTPS,
		NodesExplored: p.NodesExplored,
		Duration:      time.Duration(p.DurationMicros) * time.Microsecond,
		Success:       p.Success,
	}
	if err := json.Unmarshal(p.Region, &out.Region); err != nil {
		return core.PlanEvent{}, fmt.Errorf("plan %d region: %w", p.ID, err)
	}
	if err := json.Unmarshal(p.Path, &out.Path); err != nil {
		return core.PlanEvent{}, fmt.Errorf("plan %d path: %w", p.ID, err)
	}
	return out, nil
}

// OutcomeToCore converts a stored outcome back to a core.OutcomeEvent.
func OutcomeToCore(o model.Outcome) core.OutcomeEvent {
	return core.OutcomeEvent{
		SessionID: o.SessionID,
		Time:      o.Time,
		Turn:      o.Turn,
		Outcome:   o.Outcome,
		Failure:   o.Failure,
		Message:   o.Message,
		Braked:    o.Braked,
	}
}
