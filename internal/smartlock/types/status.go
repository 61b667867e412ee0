package types

// Snapshot is a point-in-time copy of the controller's observable state.
// It never carries the entered digits.
type Snapshot struct {
	State         State
	RelayActive   bool
	BuzzerActive  bool
	LastDistance  int64
	EnteredDigits int
	AttemptID     string
	LastOutcome   Outcome
	GrantedCount  uint64
	DeniedCount   uint64
}

type StatusResponse struct {
	OK            bool   `json:"ok"`
	DeviceID      string `json:"device_id"`
	Running       bool   `json:"running"`
	State         string `json:"state"`
	RelayActive   bool   `json:"relay_active"`
	BuzzerActive  bool   `json:"buzzer_active"`
	DistanceCM    int64  `json:"distance_cm"`
	EnteredDigits int    `json:"entered_digits"`
	AttemptID     string `json:"attempt_id,omitempty"`
	LastOutcome   string `json:"last_outcome,omitempty"`
	GrantedCount  uint64 `json:"granted_count"`
	DeniedCount   uint64 `json:"denied_count"`
	ServerTime    string `json:"server_time"`
}
