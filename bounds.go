package tetracull

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Error types reported by tetracull. Use errors.Type(err) or errors.IsType(err, ...) to check for them.
const (
	ErrTypeUnregisteredPair  = "unregistered_shape_pair"
	ErrTypeRegistryNotBuilt  = "registry_not_built"
	ErrTypeDuplicatePair     = "duplicate_shape_pair"
	ErrTypeInvalidShape      = "invalid_shape"
	ErrTypeInvalidProjection = "invalid_projection"
	ErrTypeInvalidInput      = "invalid_input"
	ErrTypeGLTF              = "gltf"
)

// Kind identifies which bounding volume a Shape holds.
type Kind uint8

const (
	KindNone Kind = iota // The zero Shape; never registered
	KindAABB
	KindSphere
	KindFrustum

	kindCount
)

func (kind Kind) String() string {
	switch kind {
	case KindAABB:
		return "aabb"
	case KindSphere:
		return "sphere"
	case KindFrustum:
		return "frustum"
	}
	return "none"
}

// Shape is a bounding volume of one of the closed set of Kinds. Shapes are plain values; storing them in a slice and
// passing them around copies the underlying box, sphere or frustum, so a caller can update its cached bounds
// while another copy is being tested.
//
// Create a Shape with AABB.Shape(), Sphere.Shape() or Frustum.Shape().
type Shape struct {
	kind    Kind
	aabb    AABB
	sphere  Sphere
	frustum Frustum
}

// Kind returns the Kind of the bounding volume held in the Shape.
func (shape Shape) Kind() Kind {
	return shape.kind
}

// AsAABB returns the AABB held in the Shape, and whether the Shape actually is an AABB.
func (shape Shape) AsAABB() (AABB, bool) {
	return shape.aabb, shape.kind == KindAABB
}

// AsSphere returns the Sphere held in the Shape, and whether the Shape actually is a Sphere.
func (shape Shape) AsSphere() (Sphere, bool) {
	return shape.sphere, shape.kind == KindSphere
}

// AsFrustum returns the Frustum held in the Shape, and whether the Shape actually is a Frustum.
func (shape Shape) AsFrustum() (Frustum, bool) {
	return shape.frustum, shape.kind == KindFrustum
}

// IntersectsFrustum returns true if the Shape may be visible through the Frustum. Like the other frustum tests this is
// conservative: a Shape close to a frustum's edges can be reported as intersecting without actually touching it.
// The zero Shape never intersects anything.
func (shape Shape) IntersectsFrustum(frustum Frustum) bool {
	switch shape.kind {
	case KindAABB:
		return FrustumIntersectsAABB(frustum, shape.aabb)
	case KindSphere:
		return FrustumIntersectsSphere(frustum, shape.sphere)
	case KindFrustum:
		return FrustumIntersectsFrustum(frustum, shape.frustum)
	}
	return false
}

// Validate returns an error of type ErrTypeInvalidShape if the Shape holds values the intersection tests can't make
// sense of (negative or NaN sizes, NaN positions). Shapes made with the New* constructors are always valid.
func (shape Shape) Validate() error {

	switch shape.kind {

	case KindAABB:
		if !finiteVec(shape.aabb.Center) {
			return errors.New("aabb center is not finite").
				WithType(ErrTypeInvalidShape).
				WithTag("center", shape.aabb.Center)
		}
		for axis, h := range shape.aabb.HalfExtent {
			if !(h >= 0) {
				return errors.New("aabb half extent is negative").
					WithType(ErrTypeInvalidShape).
					WithTag("axis", axis).
					WithTag("half_extent", h)
			}
		}

	case KindSphere:
		if !finiteVec(shape.sphere.Center) {
			return errors.New("sphere center is not finite").
				WithType(ErrTypeInvalidShape).
				WithTag("center", shape.sphere.Center)
		}
		if !(shape.sphere.Radius >= 0) {
			return errors.New("sphere radius is negative").
				WithType(ErrTypeInvalidShape).
				WithTag("radius", shape.sphere.Radius)
		}

	case KindFrustum:
		for i, plane := range shape.frustum.planes {
			if !finiteVec(plane.Normal) || math.IsNaN(plane.Distance) || math.IsInf(plane.Distance, 0) {
				return errors.New("frustum plane is not finite").
					WithType(ErrTypeInvalidShape).
					WithTag("plane", i)
			}
		}

	default:
		return errors.New("shape has no kind").WithType(ErrTypeInvalidShape)

	}

	return nil

}
