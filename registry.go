package tetracull

import (
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// TestFunc is an intersection test between two Shapes. When registered for the Kinds (a, b), the Registry always calls
// it with a Shape of Kind a as its first argument and a Shape of Kind b as its second.
type TestFunc func(a, b Shape) bool

type registryEntry struct {
	test TestFunc
	swap bool
}

// Registry dispatches intersection tests on the Kinds of both Shapes given. Each unordered pair of Kinds maps to
// exactly one TestFunc; the Registry swaps the arguments as necessary, so Intersects(a, b) == Intersects(b, a).
//
// A Registry is immutable once built, and so is safe to use from multiple goroutines. The zero Registry has nothing
// registered and reports every query as a configuration error.
type Registry struct {
	tests [kindCount][kindCount]registryEntry
	built bool
}

// RegistryBuilder collects TestFuncs for building a Registry.
type RegistryBuilder struct {
	tests map[[2]Kind]registryEntry
	err   error
}

// NewRegistryBuilder returns a new, empty RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		tests: map[[2]Kind]registryEntry{},
	}
}

// Register adds the test for the pair of Kinds given. Registering the same unordered pair twice, an invalid Kind, or a
// nil test makes Build() fail.
func (builder *RegistryBuilder) Register(a, b Kind, test TestFunc) *RegistryBuilder {

	if builder.err != nil {
		return builder
	}

	if a == KindNone || a >= kindCount || b == KindNone || b >= kindCount {
		builder.err = errors.New("cannot register a test for an unknown shape kind").
			WithType(ErrTypeInvalidInput).
			WithTag("kind_a", a.String()).
			WithTag("kind_b", b.String())
		return builder
	}

	if test == nil {
		builder.err = errors.New("cannot register a nil intersection test").
			WithType(ErrTypeInvalidInput).
			WithTag("kind_a", a.String()).
			WithTag("kind_b", b.String())
		return builder
	}

	if _, exists := builder.tests[[2]Kind{a, b}]; exists {
		builder.err = errors.New("intersection test is already registered").
			WithType(ErrTypeDuplicatePair).
			WithTag("kind_a", a.String()).
			WithTag("kind_b", b.String())
		return builder
	}

	builder.tests[[2]Kind{a, b}] = registryEntry{test: test}
	if a != b {
		builder.tests[[2]Kind{b, a}] = registryEntry{test: test, swap: true}
	}

	return builder

}

// Build returns the Registry holding every test registered so far, or the first error encountered while registering.
func (builder *RegistryBuilder) Build() (*Registry, error) {

	if builder.err != nil {
		return nil, builder.err
	}

	registry := &Registry{built: true}

	for kinds, entry := range builder.tests {
		registry.tests[kinds[0]][kinds[1]] = entry
	}

	return registry, nil

}

// NewRegistry returns a Registry with the built-in tests for every pair of AABB, Sphere and Frustum.
func NewRegistry() *Registry {

	registry, err := NewRegistryBuilder().
		Register(KindAABB, KindAABB, func(a, b Shape) bool {
			return AABBIntersectsAABB(a.aabb, b.aabb)
		}).
		Register(KindSphere, KindAABB, func(a, b Shape) bool {
			return SphereIntersectsAABB(a.sphere, b.aabb)
		}).
		Register(KindFrustum, KindAABB, func(a, b Shape) bool {
			return FrustumIntersectsAABB(a.frustum, b.aabb)
		}).
		Register(KindSphere, KindSphere, func(a, b Shape) bool {
			return SphereIntersectsSphere(a.sphere, b.sphere)
		}).
		Register(KindFrustum, KindSphere, func(a, b Shape) bool {
			return FrustumIntersectsSphere(a.frustum, b.sphere)
		}).
		Register(KindFrustum, KindFrustum, func(a, b Shape) bool {
			return FrustumIntersectsFrustum(a.frustum, b.frustum)
		}).
		Build()

	if err != nil {
		panic(err)
	}

	return registry

}

var defaultRegistry = sync.OnceValue(NewRegistry)

// DefaultRegistry returns a process-wide Registry made with NewRegistry(). It's built on the first call, exactly once,
// no matter how many goroutines ask for it.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Registered returns true if a test is registered for the pair of Kinds given, in either order.
func (registry *Registry) Registered(a, b Kind) bool {
	if registry == nil || a >= kindCount || b >= kindCount {
		return false
	}
	return registry.tests[a][b].test != nil
}

// Test runs the intersection test registered for the Kinds of the two Shapes. It returns an error of type
// ErrTypeRegistryNotBuilt if the Registry wasn't made by a RegistryBuilder, and ErrTypeUnregisteredPair if no test is
// registered for the pair.
func (registry *Registry) Test(a, b Shape) (bool, error) {

	if registry == nil || !registry.built {
		return false, errors.New("intersection registry used before it was built").
			WithType(ErrTypeRegistryNotBuilt)
	}

	if a.kind >= kindCount || b.kind >= kindCount || registry.tests[a.kind][b.kind].test == nil {
		return false, errors.New("no intersection test registered for shape pair").
			WithType(ErrTypeUnregisteredPair).
			WithTag("kind_a", a.kind.String()).
			WithTag("kind_b", b.kind.String())
	}

	entry := registry.tests[a.kind][b.kind]

	if entry.swap {
		return entry.test(b, a), nil
	}

	return entry.test(a, b), nil

}

// Intersects returns true if the two Shapes intersect. Querying a pair the Registry has no test for is a programming
// error, so rather than quietly returning false, Intersects panics with the error Test() would return.
func (registry *Registry) Intersects(a, b Shape) bool {
	result, err := registry.Test(a, b)
	if err != nil {
		panic(err)
	}
	return result
}
