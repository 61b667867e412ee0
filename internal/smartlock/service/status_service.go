package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/types"
)

var ErrInvalidDeviceID = errors.New("device_id is required")

// SnapshotSource is anything that publishes controller snapshots.
type SnapshotSource interface {
	Snapshot() types.Snapshot
}

// RunReporter reports whether the control loop is alive.
type RunReporter interface {
	Running() bool
}

// StatusService turns the controller's latest snapshot into the status
// response served over HTTP.
type StatusService struct {
	deviceID string
	source   SnapshotSource
	runner   RunReporter
}

// NewStatusService returns a service reporting for deviceID. runner may be nil,
// in which case the loop is always reported as running.
func NewStatusService(deviceID string, src SnapshotSource, runner RunReporter) (*StatusService, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, ErrInvalidDeviceID
	}
	return &StatusService{deviceID: deviceID, source: src, runner: runner}, nil
}

// Status returns the current status. It fails only when ctx is already done.
func (s *StatusService) Status(ctx context.Context) (types.StatusResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.StatusResponse{}, err
	}

	snap := s.source.Snapshot()
	running := s.Running()

	return types.StatusResponse{
		OK:            running,
		DeviceID:      s.deviceID,
		Running:       running,
		State:         snap.State.String(),
		RelayActive:   snap.RelayActive,
		BuzzerActive:  snap.BuzzerActive,
		DistanceCM:    snap.LastDistance,
		EnteredDigits: snap.EnteredDigits,
		AttemptID:     snap.AttemptID,
		LastOutcome:   string(snap.LastOutcome),
		GrantedCount:  snap.GrantedCount,
		DeniedCount:   snap.DeniedCount,
		ServerTime:    time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// Running reports whether the control loop is alive. A service built
// without a runner reports true.
func (s *StatusService) Running() bool {
	if s.runner == nil {
		return true
	}
	return s.runner.Running()
}
