package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/service"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/types"
)

type fixedSource struct{ snap types.Snapshot }

func (f fixedSource) Snapshot() types.Snapshot { return f.snap }

type fixedRunning bool

func (f fixedRunning) Running() bool { return bool(f) }

func TestStatusService_ReportsSnapshot(t *testing.T) {
	src := fixedSource{types.Snapshot{
		State:         types.StateCapturing,
		LastDistance:  4,
		EnteredDigits: 3,
		AttemptID:     "a-1",
		LastOutcome:   types.OutcomeDenied,
		DeniedCount:   2,
	}}
	svc, err := service.NewStatusService(" door-001 ", src, fixedRunning(true))
	require.NoError(t, err)

	resp, err := svc.Status(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.True(t, resp.Running)
	assert.Equal(t, "door-001", resp.DeviceID)
	assert.Equal(t, "capturing", resp.State)
	assert.Equal(t, int64(4), resp.DistanceCM)
	assert.Equal(t, 3, resp.EnteredDigits)
	assert.Equal(t, "a-1", resp.AttemptID)
	assert.Equal(t, "wrong_password", resp.LastOutcome)
	assert.Equal(t, uint64(2), resp.DeniedCount)

	_, err = time.Parse(time.RFC3339Nano, resp.ServerTime)
	assert.NoError(t, err)
}

func TestStatusService_StoppedRunnerIsNotOK(t *testing.T) {
	svc, err := service.NewStatusService("door-001", fixedSource{}, fixedRunning(false))
	require.NoError(t, err)

	resp, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "booting", resp.State)
}

func TestStatusService_Validation(t *testing.T) {
	_, err := service.NewStatusService("  ", fixedSource{}, nil)
	assert.ErrorIs(t, err, service.ErrInvalidDeviceID)

	svc, err := service.NewStatusService("door-001", fixedSource{}, nil)
	require.NoError(t, err)
	assert.True(t, svc.Running())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Status(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
