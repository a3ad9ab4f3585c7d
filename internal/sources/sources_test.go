package sources

import (
	"context"
	"testing"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushedCoordinateSource(t *testing.T) {
	src := NewPushedCoordinateSource()

	err := src.Push(model.Coordinate{Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.False(t, src.Started())

	src.Start()
	require.True(t, src.Started())
	require.NoError(t, src.Push(model.Coordinate{Latitude: 1, Longitude: 1}))
	require.NoError(t, src.Push(model.Coordinate{Latitude: 2, Longitude: 2}))

	got := <-src.Coordinates()
	assert.Equal(t, model.Coordinate{Latitude: 2, Longitude: 2}, got, "only the latest fix is kept")

	require.NoError(t, src.Push(model.Coordinate{Latitude: 3, Longitude: 3}))
	src.Stop()
	select {
	case c := <-src.Coordinates():
		t.Fatalf("stopped source still delivered %+v", c)
	default:
	}
}

func TestStaticWifiSource(t *testing.T) {
	ssid, ok := StaticWifiSource("corp-wifi").CurrentNetworkIdentifier(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "corp-wifi", ssid)

	_, ok = StaticWifiSource("").CurrentNetworkIdentifier(context.Background())
	assert.False(t, ok)
}

func TestCommandWifiSource(t *testing.T) {
	ctx := context.Background()

	ssid, ok := NewCommandWifiSource("echo corp-wifi").CurrentNetworkIdentifier(ctx)
	assert.True(t, ok)
	assert.Equal(t, "corp-wifi", ssid)

	_, ok = NewCommandWifiSource("echo").CurrentNetworkIdentifier(ctx)
	assert.False(t, ok, "empty output means no network")

	_, ok = NewCommandWifiSource("false").CurrentNetworkIdentifier(ctx)
	assert.False(t, ok)

	_, ok = NewCommandWifiSource("definitely-not-a-command-xyz").CurrentNetworkIdentifier(ctx)
	assert.False(t, ok)
}

func TestCommandWifiSourceDefault(t *testing.T) {
	src := NewCommandWifiSource("  ")
	assert.Equal(t, "iwgetid", src.name)
	assert.Equal(t, []string{"-r"}, src.args)
}
