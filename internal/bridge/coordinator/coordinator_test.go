package coordinator_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bnema/webbridge/internal/application/port"
	portmocks "github.com/bnema/webbridge/internal/application/port/mocks"
	"github.com/bnema/webbridge/internal/bridge/coordinator"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
	"github.com/bnema/webbridge/internal/mainloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

type counts struct {
	handled  int
	null     int
	defaults int
	errors   int
	last     *entity.PermissionResponse
}

func newPermissionCoordinator(ctx context.Context, c *counts, opts ...coordinator.Option) *coordinator.Coordinator[entity.PermissionResponse] {
	return coordinator.New(ctx, entity.MethodPermissionRequest,
		entity.ResponseDecoder[entity.PermissionResponse](entity.MethodPermissionRequest),
		coordinator.Callbacks[entity.PermissionResponse]{
			Handled: func(v *entity.PermissionResponse) bool {
				c.handled++
				c.last = v
				return v.Action == nil
			},
			Null: func() bool {
				c.null++
				return true
			},
			Default: func() { c.defaults++ },
			Error:   func(error) { c.errors++ },
		}, opts...)
}

func TestCoordinator_ExactlyOnce(t *testing.T) {
	terminals := map[string]func(c *coordinator.Coordinator[entity.PermissionResponse]){
		"value":           func(c *coordinator.Coordinator[entity.PermissionResponse]) { c.Success(json.RawMessage(`{"action":1}`)) },
		"not-implemented": func(c *coordinator.Coordinator[entity.PermissionResponse]) { c.NotImplemented() },
		"error":           func(c *coordinator.Coordinator[entity.PermissionResponse]) { c.Error("E", "boom", nil) },
		"default":         func(c *coordinator.Coordinator[entity.PermissionResponse]) { c.RunDefault() },
	}

	for firstName, first := range terminals {
		for secondName, second := range terminals {
			t.Run(firstName+"-then-"+secondName, func(t *testing.T) {
				var c counts
				coord := newPermissionCoordinator(testContext(), &c)

				first(coord)
				before := c
				second(coord)

				assert.True(t, coord.Answered())
				assert.Equal(t, before, c, "second terminal call must have no effect")
			})
		}
	}
}

func TestCoordinator_HandledValue(t *testing.T) {
	var c counts
	coord := newPermissionCoordinator(testContext(), &c)

	coord.Success(json.RawMessage(`{"resources":["CAMERA"],"action":1}`))

	assert.Equal(t, 1, c.handled)
	assert.Zero(t, c.defaults)
	require.NotNil(t, c.last)
	assert.Equal(t, entity.PermissionGrant, *c.last.Action)
}

func TestCoordinator_HandledCanRequestDefault(t *testing.T) {
	var c counts
	coord := newPermissionCoordinator(testContext(), &c)

	coord.Success(json.RawMessage(`{"resources":["CAMERA"]}`))

	assert.Equal(t, 1, c.handled)
	assert.Equal(t, 1, c.defaults)
}

func TestCoordinator_NullAnswer(t *testing.T) {
	var c counts
	coord := newPermissionCoordinator(testContext(), &c)

	coord.Success(json.RawMessage(`null`))

	assert.Zero(t, c.handled)
	assert.Equal(t, 1, c.null)
	assert.Equal(t, 1, c.defaults)
}

func TestCoordinator_NilNullRunsDefault(t *testing.T) {
	defaults := 0
	coord := coordinator.New(testContext(), entity.MethodCreateWindow,
		entity.ResponseDecoder[bool](entity.MethodCreateWindow),
		coordinator.Callbacks[bool]{Default: func() { defaults++ }})

	coord.Success(nil)

	assert.Equal(t, 1, defaults)
}

func TestCoordinator_DecodeErrorRunsDefault(t *testing.T) {
	var c counts
	var gotErr error
	coord := coordinator.New(testContext(), entity.MethodPermissionRequest,
		entity.ResponseDecoder[entity.PermissionResponse](entity.MethodPermissionRequest),
		coordinator.Callbacks[entity.PermissionResponse]{
			Handled: func(*entity.PermissionResponse) bool { c.handled++; return false },
			Default: func() { c.defaults++ },
			Error:   func(err error) { gotErr = err },
		})

	coord.Success(json.RawMessage(`{"action":"yes please"}`))

	assert.Zero(t, c.handled)
	assert.Equal(t, 1, c.defaults)
	var decodeErr *entity.DecodeError
	assert.ErrorAs(t, gotErr, &decodeErr)
}

func TestCoordinator_HostErrorRunsDefault(t *testing.T) {
	var c counts
	var gotErr error
	coord := coordinator.New(testContext(), entity.MethodPermissionRequest,
		entity.ResponseDecoder[entity.PermissionResponse](entity.MethodPermissionRequest),
		coordinator.Callbacks[entity.PermissionResponse]{
			Default: func() { c.defaults++ },
			Error:   func(err error) { gotErr = err },
		})

	coord.Error("CHANNEL_CLOSED", "host went away", map[string]any{"attempt": 1})

	assert.Equal(t, 1, c.defaults)
	var transportErr *entity.HostTransportError
	require.ErrorAs(t, gotErr, &transportErr)
	assert.Equal(t, "CHANNEL_CLOSED", transportErr.Code)
}

func TestCoordinator_OwnerGoneMakesAnswerNoop(t *testing.T) {
	var c counts
	alive := true
	coord := newPermissionCoordinator(testContext(), &c, coordinator.WithAlive(func() bool { return alive }))

	alive = false
	coord.Success(json.RawMessage(`{"action":1}`))
	coord.NotImplemented()

	assert.Equal(t, counts{}, c)
	assert.True(t, coord.Answered())
}

func TestCoordinator_SendWithoutHostRunsDefault(t *testing.T) {
	var c counts
	coord := newPermissionCoordinator(testContext(), &c)

	coordinator.Send[entity.PermissionResponse](testContext(), nil, entity.PermissionRequest{}, coord)

	assert.Equal(t, 1, c.defaults)
}

func TestCoordinator_SendInvokesHost(t *testing.T) {
	ctx := testContext()
	host := portmocks.NewMockHostChannel(t)
	var c counts
	coord := newPermissionCoordinator(ctx, &c)

	req := entity.PermissionRequest{Origin: "https://meet.example.com", Resources: []entity.PermissionResource{entity.PermissionResourceMicrophone}}
	host.EXPECT().InvokeMethod(mock.Anything, entity.MethodPermissionRequest, req, mock.Anything).
		Run(func(_ context.Context, _ entity.HostMethod, _ interface{}, result port.HostResult) {
			result.Success(json.RawMessage(`{"resources":["MICROPHONE"],"action":0}`))
		})

	coordinator.Send(ctx, host, req, coord)

	assert.Equal(t, 1, c.handled)
	assert.Zero(t, c.defaults)
}

func TestCoordinator_TimeoutForcesDefault(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	t.Cleanup(cancel)
	loop, err := mainloop.Start(ctx)
	require.NoError(t, err)

	var c counts
	coord := newPermissionCoordinator(ctx, &c, coordinator.WithTimeout(loop, 10*time.Millisecond))

	host := portmocks.NewMockHostChannel(t)
	host.EXPECT().InvokeMethod(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	require.NoError(t, loop.Do(ctx, func() { coordinator.Send(ctx, host, nil, coord) }))

	defaults := func() int {
		n := -1
		_ = loop.Do(ctx, func() { n = c.defaults })
		return n
	}
	require.Eventually(t, func() bool { return defaults() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, loop.Do(ctx, func() { coord.Success(json.RawMessage(`{"action":1}`)) }))
	assert.Zero(t, c.handled, "late answer must be dropped")
	assert.Equal(t, 1, c.defaults)
}

func TestCoordinator_RecordsOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := portmocks.NewMockOutcomeRecorder(ctrl)

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := start
	now := func() time.Time { return clock }

	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Do(func(_ context.Context, o entity.Outcome) {
		assert.Equal(t, entity.MethodPermissionRequest, o.Method)
		assert.Equal(t, entity.RendererID(7), o.RendererID)
		assert.Equal(t, entity.OutcomeHandled, o.Result)
		assert.Equal(t, 250*time.Millisecond, o.Latency)
	}).Times(1)

	var c counts
	coord := newPermissionCoordinator(testContext(), &c,
		coordinator.WithRecorder(recorder),
		coordinator.WithRenderer(7),
		coordinator.WithClock(now))

	clock = start.Add(250 * time.Millisecond)
	coord.Success(json.RawMessage(`{"action":1}`))
	coord.Success(json.RawMessage(`{"action":1}`))
}
