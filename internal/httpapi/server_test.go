package httpapi_test

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/httpapi"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device/memory"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/service"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/types"
)

type stubRunner bool

func (s stubRunner) Running() bool { return bool(s) }

// newTestServer wires a controller on an in-memory board, steps it into
// capture with two digits entered, and serves its status.
func newTestServer(t *testing.T, running bool) *httptest.Server {
	t.Helper()

	board := memory.NewBoard(5)
	cred, err := service.NewCredential("1234")
	require.NoError(t, err)
	ctrl, err := service.NewController(board.Peripherals(), service.Settings{
		Credential: cred,
		Threshold:  10,
		UnlockHold: 5 * time.Second,
		AlarmHold:  2 * time.Second,
	}, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	now := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	board.Keypad.Press("12")
	for i := 0; i < 5; i++ {
		require.NoError(t, ctrl.Step(now))
	}

	svc, err := service.NewStatusService("door-001", ctrl, stubRunner(running))
	require.NoError(t, err)

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:        log.New(io.Discard, "", 0),
		Addr:          ":0",
		StatusService: svc,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestStatus_JSON(t *testing.T) {
	ts := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var st types.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))

	assert.True(t, st.OK)
	assert.Equal(t, "door-001", st.DeviceID)
	assert.Equal(t, "capturing", st.State)
	assert.Equal(t, 2, st.EnteredDigits)
	assert.Equal(t, int64(5), st.DistanceCM)
	assert.NotEmpty(t, st.AttemptID)
}

func TestStatus_Protobuf(t *testing.T) {
	ts := newTestServer(t, true)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/v1/status", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/x-protobuf")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-protobuf", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var st structpb.Struct
	require.NoError(t, proto.Unmarshal(body, &st))
	fields := st.GetFields()
	assert.Equal(t, "capturing", fields["state"].GetStringValue())
	assert.Equal(t, "door-001", fields["device_id"].GetStringValue())
	assert.Equal(t, float64(2), fields["entered_digits"].GetNumberValue())
	assert.True(t, fields["ok"].GetBoolValue())
}

func TestHealthz(t *testing.T) {
	up := newTestServer(t, true)
	resp, err := http.Get(up.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newTestServer(t, false)
	resp, err = http.Get(down.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStatus_WrongMethod(t *testing.T) {
	ts := newTestServer(t, true)

	resp, err := http.Post(ts.URL+"/v1/status", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
