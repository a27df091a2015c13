package clipboard

import (
	"testing"

	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClipboard() *Clipboard {
	return New(geo.NewMercator(geo.DefaultReferenceZoom))
}

func pair() []core.Cone {
	return []core.Cone{
		{ID: 1, Position: core.LatLng{Lat: 0, Lng: 0}, Angle: 0, Kind: core.Regular},
		{ID: 2, Position: core.LatLng{Lat: 0, Lng: 0.0001}, Angle: 45, Kind: core.Pointer},
	}
}

func TestCopy_EmptyKeepsContent(t *testing.T) {
	c := newClipboard()
	require.NoError(t, c.Copy(pair()))

	err := c.Copy(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, 2, c.Len())
}

func TestStartPaste_Empty(t *testing.T) {
	_, err := newClipboard().StartPaste(core.LatLng{Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, ErrEmptyClipboard)
}

func TestStartPaste_KeepsOffsets(t *testing.T) {
	c := newClipboard()
	require.NoError(t, c.Copy(pair()))

	previews, err := c.StartPaste(core.LatLng{Lat: 10, Lng: 10})
	require.NoError(t, err)
	require.Len(t, previews, 2)

	assert.Equal(t, core.LatLng{Lat: 10, Lng: 10}, previews[0].Position)
	assert.InDelta(t, 10, previews[1].Position.Lat, 1e-12)
	assert.InDelta(t, 10.0001, previews[1].Position.Lng, 1e-12)
	assert.Equal(t, core.Pointer, previews[1].Kind)
	assert.Equal(t, 45.0, previews[1].Angle)
	assert.True(t, c.Active())
}

func TestStartPaste_ReplacesPreviewAndResetsRotation(t *testing.T) {
	c := newClipboard()
	require.NoError(t, c.Copy(pair()))
	_, err := c.StartPaste(core.LatLng{Lat: 10, Lng: 10})
	require.NoError(t, err)
	_, err = c.UpdateRotation(90)
	require.NoError(t, err)

	previews, err := c.StartPaste(core.LatLng{Lat: 20, Lng: 20})
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Angle())
	assert.Equal(t, core.LatLng{Lat: 20, Lng: 20}, previews[0].Position)
	assert.Equal(t, 0.0, previews[0].Angle)
}

func TestUpdateRotation_PivotsOnFirstPreview(t *testing.T) {
	c := newClipboard()
	require.NoError(t, c.Copy(pair()))
	_, err := c.StartPaste(core.LatLng{Lat: 10, Lng: 10})
	require.NoError(t, err)

	previews, err := c.UpdateRotation(90)
	require.NoError(t, err)

	assert.Equal(t, core.LatLng{Lat: 10, Lng: 10}, previews[0].Position)
	assert.Equal(t, 90.0, previews[0].Angle)
	assert.Equal(t, 135.0, previews[1].Angle)

	// East of the pivot turns clockwise to south of it.
	assert.Less(t, previews[1].Position.Lat, 10.0)
	assert.InDelta(t, 10, previews[1].Position.Lng, 1e-9)
	assert.InDelta(t, geo.Distance(previews[0].Position, core.LatLng{Lat: 10, Lng: 10.0001}),
		geo.Distance(previews[0].Position, previews[1].Position), 0.01)
}

func TestUpdateRotation_SingleConeOnlyTurns(t *testing.T) {
	c := newClipboard()
	require.NoError(t, c.Copy(pair()[:1]))
	_, err := c.StartPaste(core.LatLng{Lat: 5, Lng: 5})
	require.NoError(t, err)

	previews, err := c.UpdateRotation(400)
	require.NoError(t, err)
	assert.Equal(t, core.LatLng{Lat: 5, Lng: 5}, previews[0].Position)
	assert.Equal(t, 40.0, previews[0].Angle)
}

func TestUpdateRotation_NotPasting(t *testing.T) {
	_, err := newClipboard().UpdateRotation(10)
	assert.ErrorIs(t, err, ErrNotPasting)
}

func TestConfirmPaste(t *testing.T) {
	c := newClipboard()
	require.NoError(t, c.Copy(pair()))
	_, err := c.StartPaste(core.LatLng{Lat: 10, Lng: 10})
	require.NoError(t, err)

	previews, ok := c.ConfirmPaste()
	require.True(t, ok)
	assert.Len(t, previews, 2)
	assert.False(t, c.Active())

	_, ok = c.ConfirmPaste()
	assert.False(t, ok)

	// Content survives for the next paste.
	again, err := c.StartPaste(core.LatLng{Lat: 11, Lng: 11})
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

func TestCancelPaste(t *testing.T) {
	c := newClipboard()
	require.NoError(t, c.Copy(pair()))
	assert.False(t, c.CancelPaste())

	_, err := c.StartPaste(core.LatLng{Lat: 10, Lng: 10})
	require.NoError(t, err)
	assert.True(t, c.CancelPaste())
	assert.False(t, c.Active())
	assert.Empty(t, c.Previews())
	assert.Equal(t, 2, c.Len())
}

func TestCopy_SnapshotIsIndependent(t *testing.T) {
	cones := pair()
	c := newClipboard()
	require.NoError(t, c.Copy(cones))

	cones[0].Position = core.LatLng{Lat: 50, Lng: 50}
	assert.Equal(t, core.LatLng{}, c.Entries()[0].Position)
}
