package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendQueuesWithoutBlocking(t *testing.T) {
	conn := NewConnection("user-1", nil)
	t.Cleanup(func() { conn.Close(0, "test done") })

	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, conn.Send([]byte("payload")))
	}
}

func TestSlowConsumerIsDropped(t *testing.T) {
	// No write loop running, so nothing drains the buffer.
	conn := NewConnection("user-1", nil)

	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, conn.Send([]byte("payload")))
	}

	err := conn.Send([]byte("one too many"))
	assert.ErrorIs(t, err, ErrConnectionClosed)

	// The drop is terminal, not transient.
	assert.ErrorIs(t, conn.Send([]byte("after drop")), ErrConnectionClosed)
}

func TestSendAfterCloseFails(t *testing.T) {
	conn := NewConnection("user-1", nil)
	conn.Close(0, "bye")

	assert.ErrorIs(t, conn.Send([]byte("late")), ErrConnectionClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	conn := NewConnection("user-1", nil)
	conn.Close(0, "first")
	conn.Close(0, "second")

	assert.ErrorIs(t, conn.Send([]byte("late")), ErrConnectionClosed)
}

func TestConnectionIDsAreUnique(t *testing.T) {
	a := NewConnection("user-1", nil)
	b := NewConnection("user-1", nil)
	t.Cleanup(func() {
		a.Close(0, "test done")
		b.Close(0, "test done")
	})

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.UserID, b.UserID)
}
