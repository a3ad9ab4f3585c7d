package display

import (
	"sync"
	"testing"

	"github.com/bwise1/whereintheworld/util/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	msgs []websockets.Message
}

func (r *recorder) Broadcast(msg websockets.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestDisplayStartsLoading(t *testing.T) {
	d := New(&recorder{})
	assert.Equal(t, LoadingLabel, d.Label())

	snap := d.Snapshot()
	assert.Equal(t, websockets.MsgTypeSnapshot, snap.Type)
	assert.Equal(t, LoadingLabel, snap.Label)
	assert.True(t, snap.Active)
}

func TestDisplayBroadcastsChanges(t *testing.T) {
	hub := &recorder{}
	d := New(hub)

	d.SetLabel("Hamburg, Germany")
	d.SetActive(false)

	require.Len(t, hub.msgs, 2)
	assert.Equal(t, websockets.MsgTypeLocationChanged, hub.msgs[0].Type)
	assert.Equal(t, "Hamburg, Germany", hub.msgs[0].Label)
	assert.True(t, hub.msgs[0].Active)

	assert.Equal(t, websockets.MsgTypeTrackingToggled, hub.msgs[1].Type)
	assert.Equal(t, "Hamburg, Germany", hub.msgs[1].Label)
	assert.False(t, hub.msgs[1].Active)

	assert.Equal(t, "Hamburg, Germany", d.Label())
	assert.False(t, d.Snapshot().Active)
}
