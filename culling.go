package tetracull

import (
	"context"
	"strings"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// CullMode selects how a Culler decides whether an object is visible.
type CullMode int

const (
	CullModeFrustum CullMode = iota // Test bounds against the camera's Frustum (precise; six plane tests per object)
	CullModeSphere                  // Test bounds against a Sphere around the camera's view volume (loose; one test per object)
	CullModeNone                    // Don't cull; everything is visible
)

func (mode CullMode) String() string {
	switch mode {
	case CullModeFrustum:
		return "frustum"
	case CullModeSphere:
		return "sphere"
	case CullModeNone:
		return "none"
	}
	return "unknown"
}

// ParseCullMode returns the CullMode named by the string given ("frustum", "sphere" or "none").
func ParseCullMode(name string) (CullMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "frustum":
		return CullModeFrustum, nil
	case "sphere":
		return CullModeSphere, nil
	case "none", "off":
		return CullModeNone, nil
	}
	return 0, errors.New("unknown cull mode").
		WithType(ErrTypeInvalidInput).
		WithTag("mode", name)
}

// testsPerObject is how many intersection tests one object costs in the given mode; a frustum test is six plane tests.
func (mode CullMode) testsPerObject() int {
	switch mode {
	case CullModeFrustum:
		return 6
	case CullModeSphere:
		return 1
	}
	return 0
}

// Stats holds the counts from one or more culling passes.
type Stats struct {
	Tested            int // Number of objects tested
	Drawn             int // Number of objects found visible
	Culled            int // Number of objects found not visible
	IntersectionTests int // Number of intersection tests run; a frustum test counts as six
}

// Add returns the sum of both Stats.
func (stats Stats) Add(other Stats) Stats {
	stats.Tested += other.Tested
	stats.Drawn += other.Drawn
	stats.Culled += other.Culled
	stats.IntersectionTests += other.IntersectionTests
	return stats
}

// DebugInfo accumulates culling statistics across frames. The values are reset when Culler.ResetDebugInfo() is called.
type DebugInfo struct {
	Frames            int           // Number of culling passes
	Drawn             int           // Number of objects found visible
	Culled            int           // Number of objects found not visible
	IntersectionTests int           // Number of intersection tests run
	FrameTime         time.Duration // Amount of time spent in culling passes
}

// DrawsPerFrame returns the average number of visible objects per culling pass.
func (info DebugInfo) DrawsPerFrame() float64 {
	if info.Frames == 0 {
		return 0
	}
	return float64(info.Drawn) / float64(info.Frames)
}

// IntersectionsPerFrame returns the average number of intersection tests per culling pass.
func (info DebugInfo) IntersectionsPerFrame() float64 {
	if info.Frames == 0 {
		return 0
	}
	return float64(info.IntersectionTests) / float64(info.Frames)
}

// AverageFrameTime returns the average time spent per culling pass.
func (info DebugInfo) AverageFrameTime() time.Duration {
	if info.Frames == 0 {
		return 0
	}
	return info.FrameTime / time.Duration(info.Frames)
}

// Culler decides which objects are visible to a camera. Call Update() once at the start of each frame with the current
// camera pose and projection, and then test the frame's bounding volumes with Visible(), Cull() or CullParallel().
//
// Update() must not run concurrently with any test; tests only read the Culler, so they can run concurrently with each
// other (CullParallel() does exactly that).
type Culler struct {
	Mode      CullMode
	Registry  *Registry
	DebugInfo DebugInfo

	frustum      Frustum
	cameraSphere Sphere
	cameraShape  Shape
	updated      bool
	updateErr    error
}

// NewCuller returns a new Culler in CullModeFrustum, using the given Registry for shape tests. If registry is nil, the
// DefaultRegistry() is used.
func NewCuller(registry *Registry) *Culler {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Culler{
		Mode:     CullModeFrustum,
		Registry: registry,
	}
}

// Update rebuilds the Culler's Frustum and camera Sphere from the camera pose and projection frame given.
// If the camera or frame is invalid, Cull() and CullParallel() return the validation error until the next Update()
// with a valid pose.
func (culler *Culler) Update(cam Camera, frame ProjectionFrame) {
	culler.updateErr = cam.Validate()
	if culler.updateErr == nil {
		culler.updateErr = frame.Validate()
	}
	culler.frustum.SetUp(cam, frame)
	culler.cameraSphere = NewCameraSphere(cam, frame)
	culler.cameraShape = culler.cameraSphere.Shape()
	culler.updated = true
}

// Frustum returns the Frustum built by the last call to Update().
func (culler *Culler) Frustum() Frustum {
	return culler.frustum
}

// CameraSphere returns the Sphere enclosing the camera's view volume, built by the last call to Update().
func (culler *Culler) CameraSphere() Sphere {
	return culler.cameraSphere
}

// Visible returns true if an object with the bounding volume given should be drawn. Before the first Update(),
// the results are meaningless; Cull() and CullParallel() report that case as an error.
func (culler *Culler) Visible(bounds Shape) bool {
	switch culler.Mode {
	case CullModeFrustum:
		return bounds.IntersectsFrustum(culler.frustum)
	case CullModeSphere:
		return culler.Registry.Intersects(culler.cameraShape, bounds)
	}
	return true
}

func (culler *Culler) checkPass(bounds []Shape, visible []bool) error {

	if len(bounds) != len(visible) {
		return errors.New("bounds and visibility slices differ in length").
			WithType(ErrTypeInvalidInput).
			WithTag("bounds", len(bounds)).
			WithTag("visible", len(visible))
	}

	if !culler.updated && culler.Mode != CullModeNone {
		return errors.New("culler used before its first update").
			WithType(ErrTypeInvalidInput).
			WithTag("mode", culler.Mode.String())
	}

	if culler.updateErr != nil && culler.Mode != CullModeNone {
		return errors.New("culler updated with an invalid camera").
			WithType(errors.Type(culler.updateErr)).
			WithTag("mode", culler.Mode.String()).
			Wrap(culler.updateErr)
	}

	return nil

}

func (culler *Culler) cullRange(bounds []Shape, visible []bool) Stats {

	stats := Stats{Tested: len(bounds)}

	for i, b := range bounds {
		if culler.Visible(b) {
			visible[i] = true
			stats.Drawn++
		} else {
			visible[i] = false
			stats.Culled++
		}
	}

	stats.IntersectionTests = stats.Tested * culler.Mode.testsPerObject()

	return stats

}

func (culler *Culler) finishPass(stats Stats, start time.Time) {
	culler.DebugInfo.Frames++
	culler.DebugInfo.Drawn += stats.Drawn
	culler.DebugInfo.Culled += stats.Culled
	culler.DebugInfo.IntersectionTests += stats.IntersectionTests
	culler.DebugInfo.FrameTime += time.Since(start)
	instrumentCullPass(culler.Mode, stats, start)
}

// Cull tests every bounding volume in bounds, storing whether each one is visible at the same index in visible.
// It returns an error of type ErrTypeInvalidInput if the slices differ in length or the Culler was never updated, and
// the validation error if the last Update() was given an invalid camera or frame.
func (culler *Culler) Cull(bounds []Shape, visible []bool) (Stats, error) {

	if err := culler.checkPass(bounds, visible); err != nil {
		return Stats{}, err
	}

	start := time.Now()

	stats := culler.cullRange(bounds, visible)

	culler.finishPass(stats, start)

	return stats, nil

}

// cancelCheckInterval is how many objects a CullParallel worker tests between context checks.
const cancelCheckInterval = 1024

// CullParallel does the same as Cull(), but splits the bounds across the number of workers given (at least one).
// The results are identical to Cull()'s. If the context is canceled, the pass stops early and returns the context's error.
func (culler *Culler) CullParallel(ctx context.Context, bounds []Shape, visible []bool, workers int) (Stats, error) {

	if err := culler.checkPass(bounds, visible); err != nil {
		return Stats{}, err
	}

	if workers < 1 {
		workers = 1
	}

	start := time.Now()

	chunkSize := (len(bounds) + workers - 1) / workers
	if chunkSize == 0 {
		chunkSize = 1
	}

	workerStats := make([]Stats, workers)

	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {

		lo := w * chunkSize
		if lo >= len(bounds) {
			break
		}
		hi := min(lo+chunkSize, len(bounds))

		g.Go(func() error {
			for i := lo; i < hi; i += cancelCheckInterval {
				if err := ctx.Err(); err != nil {
					return err
				}
				end := min(i+cancelCheckInterval, hi)
				workerStats[w] = workerStats[w].Add(culler.cullRange(bounds[i:end], visible[i:end]))
			}
			return nil
		})

	}

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, s := range workerStats {
		stats = stats.Add(s)
	}

	culler.finishPass(stats, start)

	return stats, nil

}

// ResetDebugInfo zeroes the Culler's accumulated DebugInfo.
func (culler *Culler) ResetDebugInfo() {
	culler.DebugInfo = DebugInfo{}
}
