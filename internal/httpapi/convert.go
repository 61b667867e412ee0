package httpapi

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/types"
)

// statusToProto encodes a status response as a google.protobuf.Struct using
// the same field names as the JSON form.
func statusToProto(r types.StatusResponse) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"ok":             r.OK,
		"device_id":      r.DeviceID,
		"running":        r.Running,
		"state":          r.State,
		"relay_active":   r.RelayActive,
		"buzzer_active":  r.BuzzerActive,
		"distance_cm":    r.DistanceCM,
		"entered_digits": r.EnteredDigits,
		"attempt_id":     r.AttemptID,
		"last_outcome":   r.LastOutcome,
		"granted_count":  r.GrantedCount,
		"denied_count":   r.DeniedCount,
		"server_time":    r.ServerTime,
	})
}
