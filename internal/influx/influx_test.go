package influx

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/autodrive/internal/config"
	"github.com/OCAP2/autodrive/pkg/core"
)

var at = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func lineOf(p *influxdb2_write.Point) string {
	return influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
}

func TestTurnPoint(t *testing.T) {
	p := TurnPoint(core.TurnEvent{
		SessionID: "s1",
		State: core.VehicleState{
			VehicleID: 7, Time: at, Turn: 12,
			Position: core.Tripoint{X: 3, Y: 4, Z: 1}, Face: 6, Velocity: 2, Cruise: 3,
		},
		Phase: "following", Check: "ok", TargetSpeed: 3, SteerDelta: -1, PathLeft: 9,
	})
	line := lineOf(p)
	assert.True(t, strings.HasPrefix(line, "turn,check=ok,phase=following,sessionId=s1,vehicleId=7 "), line)
	assert.Contains(t, line, "steerDelta=-1i")
	assert.Contains(t, line, "rebuilt=false")
	assert.True(t, strings.HasSuffix(line, " 1767323045000000000"), line)
}

func TestPlanPoint(t *testing.T) {
	p := PlanPoint(core.PlanEvent{
		SessionID: "s1", Time: at, Turn: 1, SpeedTPS: 3, NodesExplored: 120,
		Duration: 1500 * time.Microsecond, Success: true,
		Path: []core.Tripoint{{X: 1}, {X: 2}},
	})
	line := lineOf(p)
	assert.True(t, strings.HasPrefix(line, "plan,sessionId=s1,success=true "), line)
	assert.Contains(t, line, "durationMicros=1500i")
	assert.Contains(t, line, "pathLength=2i")
}

func TestOutcomePoint(t *testing.T) {
	line := lineOf(OutcomePoint(core.OutcomeEvent{
		SessionID: "s1", Time: at, Turn: 40, Outcome: "aborted", Failure: "close_obstacle", Braked: true,
	}))
	assert.Contains(t, line, "failure=close_obstacle")
	assert.Contains(t, line, "braked=true")
}

func TestParseMetric(t *testing.T) {
	bucket, p, err := ParseMetric([]string{
		"autodrive_turns", "fps", "tag::host::sim1",
		"field::float::fps::49.5", "field::int::frames::12", "field::bool::paused::false",
	})
	require.NoError(t, err)
	assert.Equal(t, "autodrive_turns", bucket)
	line := lineOf(p)
	assert.True(t, strings.HasPrefix(line, "fps,host=sim1 "), line)
	assert.Contains(t, line, "fps=49.5")
	assert.Contains(t, line, "frames=12i")
}

func TestParseMetric_Errors(t *testing.T) {
	tests := map[string][]string{
		"too short":  {"b", "m"},
		"bad int":    {"b", "m", "field::int::x::abc"},
		"bad type":   {"b", "m", "field::complex::x::1"},
		"junk":       {"b", "m", "field::int::x"},
		"tags only":  {"b", "m", "tag::a::b"},
		"bad prefix": {"b", "m", "label::a::b"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseMetric(args)
			assert.ErrorIs(t, err, ErrMetricFormat)
		})
	}
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")
	assert.ErrorIs(t, m.Connect(context.Background(), config.InfluxConfig{}), ErrDisabled)
	assert.Error(t, m.WritePoint(BucketTurns, influxdb2_write.NewPointWithMeasurement("x").AddField("v", 1)))
	assert.NoError(t, m.Close())
}

func TestConnect_FallsBackToBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "influx_backup.log.gz")
	m := NewManager(zerolog.Nop(), path)

	err := m.Connect(context.Background(), config.InfluxConfig{
		Enabled: true, Protocol: "http", Host: "127.0.0.1", Port: "1", Org: "autodrive",
	})
	require.NoError(t, err)
	assert.False(t, m.IsValid)

	require.NoError(t, m.WritePoint(BucketPlans, PlanPoint(core.PlanEvent{SessionID: "s9", Time: at, Success: false})))
	require.NoError(t, m.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "plan,sessionId=s9,success=false "), string(data))
}
