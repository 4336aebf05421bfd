package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/roarwatch/internal/bus"
)

type captureSender struct {
	titles []string
	fail   bool
}

func (c *captureSender) Send(ctx context.Context, title, message string) error {
	if c.fail {
		return fmt.Errorf("capture: down")
	}
	c.titles = append(c.titles, title)
	return nil
}

func (c *captureSender) Name() string { return "capture" }

func statusPayload(t *testing.T, event, errMsg string, cycles int64) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"event":  event,
		"error":  errMsg,
		"cycles": cycles,
	})
	require.NoError(t, err)
	return data
}

func TestAlerterFailureStreakAlertsOnce(t *testing.T) {
	sender := &captureSender{}
	a := NewAlerter(bus.New(), []Sender{sender}, testLogger())
	ctx := context.Background()

	failing := false
	require.NoError(t, a.handle(ctx, statusPayload(t, "cycle", "", 1), &failing))
	require.NoError(t, a.handle(ctx, statusPayload(t, "cycle", "timeout", 2), &failing))
	require.NoError(t, a.handle(ctx, statusPayload(t, "cycle", "timeout", 3), &failing))
	require.NoError(t, a.handle(ctx, statusPayload(t, "cycle", "", 4), &failing))

	assert.Equal(t, []string{"Poll Failing", "Poll Recovered"}, sender.titles,
		"a failure streak produces one alert pair, not one per cycle")
}

func TestAlerterStartStopEvents(t *testing.T) {
	sender := &captureSender{}
	a := NewAlerter(bus.New(), []Sender{sender}, testLogger())
	ctx := context.Background()

	failing := false
	require.NoError(t, a.handle(ctx, statusPayload(t, "started", "", 0), &failing))
	require.NoError(t, a.handle(ctx, statusPayload(t, "stopped", "", 0), &failing))

	assert.Equal(t, []string{"Monitoring Started", "Monitoring Stopped"}, sender.titles)
}

func TestAlerterIsolatesSenderFailures(t *testing.T) {
	broken := &captureSender{fail: true}
	healthy := &captureSender{}
	a := NewAlerter(bus.New(), []Sender{broken, healthy}, testLogger())

	err := a.dispatch(context.Background(), "Title", "Body")

	assert.Error(t, err, "the combined error reports the broken sender")
	assert.Equal(t, []string{"Title"}, healthy.titles, "one broken sender must not stop the rest")
}

func TestAlerterRejectsGarbagePayload(t *testing.T) {
	a := NewAlerter(bus.New(), nil, testLogger())
	failing := false

	err := a.handle(context.Background(), []byte("{not json"), &failing)

	assert.Error(t, err)
}
