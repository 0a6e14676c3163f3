package colors

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForVisibility(t *testing.T) {
	require.Equal(t, Visible(), ForVisibility(true))
	require.Equal(t, Culled(), ForVisibility(false))
	require.NotEqual(t, Visible(), Culled())
	require.Equal(t, color.RGBA{255, 255, 255, 255}, Frustum())
}
