package tetracull

import (
	"context"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// testScene returns a row of boxes along the view axis of the default camera, half of them behind it.
func testScene(count int) []Shape {
	shapes := make([]Shape, count)
	for i := range shapes {
		z := float64(i - count/2)
		shapes[i] = NewAABB(mgl64.Vec3{0, 0, -z * 4}, mgl64.Vec3{1, 1, 1}).Shape()
	}
	return shapes
}

func newTestCuller(t testing.TB, mode CullMode) *Culler {
	culler := NewCuller(nil)
	culler.Mode = mode
	culler.Update(NewCamera(), testFrame(t))
	return culler
}

func TestCullerModes(t *testing.T) {
	bounds := []Shape{
		NewAABB(mgl64.Vec3{0, 0, -50}, mgl64.Vec3{1, 1, 1}).Shape(),     // in view
		NewAABB(mgl64.Vec3{0, 0, 50}, mgl64.Vec3{1, 1, 1}).Shape(),      // behind, but inside the camera sphere's reach
		NewAABB(mgl64.Vec3{0, 0, 500}, mgl64.Vec3{1, 1, 1}).Shape(),     // far behind
		NewSphere(mgl64.Vec3{0, 0, -120}, 1).Shape(),                    // past the far plane
		NewSphere(mgl64.Vec3{10, 0, -20}, 1).Shape(),                    // in view
		NewAABB(mgl64.Vec3{0, 0, -300}, mgl64.Vec3{10, 10, 10}).Shape(), // far beyond everything
	}

	tests := []struct {
		mode     CullMode
		expected []bool
		tests    int
	}{
		{
			mode:     CullModeFrustum,
			expected: []bool{true, false, false, false, true, false},
			tests:    6 * len(bounds),
		},
		{
			mode:     CullModeSphere,
			expected: []bool{true, true, false, true, true, false},
			tests:    len(bounds),
		},
		{
			mode:     CullModeNone,
			expected: []bool{true, true, true, true, true, true},
			tests:    0,
		},
	}

	for _, test := range tests {
		t.Run(test.mode.String(), func(t *testing.T) {
			culler := newTestCuller(t, test.mode)

			visible := make([]bool, len(bounds))
			stats, err := culler.Cull(bounds, visible)
			require.NoError(t, err)
			require.Equal(t, test.expected, visible)

			drawn := 0
			for i, b := range bounds {
				require.Equal(t, test.expected[i], culler.Visible(b))
				if test.expected[i] {
					drawn++
				}
			}

			require.Equal(t, Stats{
				Tested:            len(bounds),
				Drawn:             drawn,
				Culled:            len(bounds) - drawn,
				IntersectionTests: test.tests,
			}, stats)
		})
	}
}

func TestCullerErrors(t *testing.T) {
	bounds := testScene(4)

	t.Run("length mismatch", func(t *testing.T) {
		culler := newTestCuller(t, CullModeFrustum)

		_, err := culler.Cull(bounds, make([]bool, 3))
		require.Equal(t, ErrTypeInvalidInput, errors.Type(err))

		_, err = culler.CullParallel(context.Background(), bounds, make([]bool, 5), 2)
		require.Equal(t, ErrTypeInvalidInput, errors.Type(err))

		require.Zero(t, culler.DebugInfo.Frames)
	})

	t.Run("not updated", func(t *testing.T) {
		culler := NewCuller(nil)
		_, err := culler.Cull(bounds, make([]bool, len(bounds)))
		require.Equal(t, ErrTypeInvalidInput, errors.Type(err))

		culler.Mode = CullModeNone
		_, err = culler.Cull(bounds, make([]bool, len(bounds)))
		require.NoError(t, err)
	})

	t.Run("canceled", func(t *testing.T) {
		culler := newTestCuller(t, CullModeFrustum)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := culler.CullParallel(ctx, bounds, make([]bool, len(bounds)), 2)
		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, culler.DebugInfo.Frames)
	})
}

func TestCullParallelMatchesCull(t *testing.T) {
	bounds := testScene(5000)

	for _, mode := range []CullMode{CullModeFrustum, CullModeSphere, CullModeNone} {
		t.Run(mode.String(), func(t *testing.T) {
			culler := newTestCuller(t, mode)

			serial := make([]bool, len(bounds))
			serialStats, err := culler.Cull(bounds, serial)
			require.NoError(t, err)

			for _, workers := range []int{0, 1, 3, 8, 10000} {
				parallel := make([]bool, len(bounds))
				parallelStats, err := culler.CullParallel(context.Background(), bounds, parallel, workers)
				require.NoError(t, err)
				require.Equal(t, serial, parallel, "workers: %d", workers)
				require.Equal(t, serialStats, parallelStats, "workers: %d", workers)
			}
		})
	}
}

func TestCullerDebugInfo(t *testing.T) {
	culler := newTestCuller(t, CullModeFrustum)
	bounds := testScene(10)
	visible := make([]bool, len(bounds))

	var total Stats
	for i := 0; i < 4; i++ {
		stats, err := culler.Cull(bounds, visible)
		require.NoError(t, err)
		total = total.Add(stats)
	}

	info := culler.DebugInfo
	require.Equal(t, 4, info.Frames)
	require.Equal(t, total.Drawn, info.Drawn)
	require.Equal(t, total.Culled, info.Culled)
	require.Equal(t, 4*6*len(bounds), info.IntersectionTests)
	require.InDelta(t, float64(total.Drawn)/4, info.DrawsPerFrame(), 1e-9)
	require.InDelta(t, float64(6*len(bounds)), info.IntersectionsPerFrame(), 1e-9)

	culler.ResetDebugInfo()
	require.Equal(t, DebugInfo{}, culler.DebugInfo)
	require.Zero(t, culler.DebugInfo.DrawsPerFrame())
	require.Zero(t, culler.DebugInfo.AverageFrameTime())
}

func TestCullerMetrics(t *testing.T) {
	bounds := testScene(10)
	visible := make([]bool, len(bounds))

	for _, mode := range []CullMode{CullModeFrustum, CullModeSphere, CullModeNone} {
		t.Run(mode.String(), func(t *testing.T) {
			culler := newTestCuller(t, mode)

			tests := intersectionTests.WithLabelValues(mode.String())
			drawn := cullObjects.WithLabelValues(mode.String(), "drawn")
			culled := cullObjects.WithLabelValues(mode.String(), "culled")

			testsBefore := testutil.ToFloat64(tests)
			drawnBefore := testutil.ToFloat64(drawn)
			culledBefore := testutil.ToFloat64(culled)

			stats, err := culler.Cull(bounds, visible)
			require.NoError(t, err)

			require.Equal(t, float64(stats.IntersectionTests), testutil.ToFloat64(tests)-testsBefore)
			require.Equal(t, float64(stats.Drawn), testutil.ToFloat64(drawn)-drawnBefore)
			require.Equal(t, float64(stats.Culled), testutil.ToFloat64(culled)-culledBefore)
			require.Equal(t, float64(len(bounds)*mode.testsPerObject()), testutil.ToFloat64(tests)-testsBefore)
		})
	}
}

func TestCullerInvalidCamera(t *testing.T) {
	bounds := testScene(4)
	visible := make([]bool, len(bounds))

	culler := NewCuller(nil)
	culler.Update(Camera{ViewDir: mgl64.Vec3{0, 1, 0}, Up: mgl64.Vec3{0, 1, 0}}, testFrame(t))

	_, err := culler.Cull(bounds, visible)
	require.Error(t, err)
	require.Equal(t, ErrTypeInvalidInput, errors.Type(err))

	_, err = culler.CullParallel(context.Background(), bounds, visible, 2)
	require.Equal(t, ErrTypeInvalidInput, errors.Type(err))

	frame := testFrame(t)
	frame.FarLL[2] = 0.5
	culler.Update(NewCamera(), frame)
	_, err = culler.Cull(bounds, visible)
	require.Equal(t, ErrTypeInvalidProjection, errors.Type(err))

	culler.Mode = CullModeNone
	_, err = culler.Cull(bounds, visible)
	require.NoError(t, err)

	culler.Mode = CullModeFrustum
	culler.Update(NewCamera(), testFrame(t))
	_, err = culler.Cull(bounds, visible)
	require.NoError(t, err)
}

func TestParseCullMode(t *testing.T) {
	for _, mode := range []CullMode{CullModeFrustum, CullModeSphere, CullModeNone} {
		parsed, err := ParseCullMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}

	_, err := ParseCullMode("octree")
	require.Equal(t, ErrTypeInvalidInput, errors.Type(err))
}

func BenchmarkCull(b *testing.B) {
	bounds := testScene(10000)
	visible := make([]bool, len(bounds))

	for _, mode := range []CullMode{CullModeFrustum, CullModeSphere} {
		b.Run(mode.String(), func(b *testing.B) {
			culler := newTestCuller(b, mode)

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := culler.Cull(bounds, visible); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCullParallel(b *testing.B) {
	bounds := testScene(10000)
	visible := make([]bool, len(bounds))
	culler := newTestCuller(b, CullModeFrustum)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := culler.CullParallel(ctx, bounds, visible, 4); err != nil {
			b.Fatal(err)
		}
	}
}
