package entity_test

import (
	"errors"
	"testing"

	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageChannel_PortsAreDistinctAndIdle(t *testing.T) {
	ch := entity.NewMessageChannel("c1")

	require.NotSame(t, ch.Ports[0], ch.Ports[1])
	assert.Equal(t, 0, ch.Ports[0].Index)
	assert.Equal(t, 1, ch.Ports[1].Index)
	assert.Equal(t, entity.PortIdle, ch.Ports[0].State)
	assert.Equal(t, entity.PortIdle, ch.Ports[1].State)
	assert.Nil(t, ch.Port(2))
}

func TestMessagePort_CheckTransferable(t *testing.T) {
	tests := []struct {
		state    entity.PortState
		expected error
	}{
		{entity.PortIdle, nil},
		{entity.PortStarted, entity.ErrPortAlreadyStarted},
		{entity.PortClosed, entity.ErrPortAlreadyClosedOrTransferred},
		{entity.PortTransferred, entity.ErrPortAlreadyClosedOrTransferred},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			port := &entity.MessagePort{ChannelID: "c1", State: tt.state}
			err := port.CheckTransferable()
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expected)
			var stateErr *entity.PortStateError
			assert.True(t, errors.As(err, &stateErr))
		})
	}
}

func TestWebMessage_Dispose(t *testing.T) {
	msg := entity.NewWebMessage("hello", entity.PortRef{ChannelID: "c1", Index: 0})
	require.False(t, msg.Disposed())

	msg.Dispose()

	assert.True(t, msg.Disposed())
	assert.Nil(t, msg.Data)
	assert.Nil(t, msg.Ports)
}
