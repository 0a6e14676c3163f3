package tetracull

import (
	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents a 3D AABB (Axis-Aligned Bounding Box), a box of varying width, height, and depth that cannot rotate.
// It is stored as a center and half extents (the distance from the center to each face).
type AABB struct {
	Center     mgl64.Vec3
	HalfExtent mgl64.Vec3 // All components are >= 0 for AABBs made with NewAABB()
}

// NewAABB returns a new AABB. Negative (or NaN) half extent components are clamped to 0, which gives
// a flat box, or a point if all of them are 0.
func NewAABB(center, halfExtent mgl64.Vec3) AABB {
	box := AABB{Center: center}
	box.SetHalfExtent(halfExtent)
	return box
}

// NewAABBFromMinMax returns the AABB spanning the two corners given. The corners can be passed in any order.
func NewAABBFromMinMax(min, max mgl64.Vec3) AABB {
	center := min.Add(max).Mul(0.5)
	half := max.Sub(min).Mul(0.5)
	for i := range half {
		if half[i] < 0 {
			half[i] = -half[i]
		}
	}
	return NewAABB(center, half)
}

// Shape wraps the AABB in a Shape for use with a Registry.
func (box AABB) Shape() Shape {
	return Shape{kind: KindAABB, aabb: box}
}

// SetCenter moves the AABB; use this to update a cached bounding box when the object it represents moves.
func (box *AABB) SetCenter(center mgl64.Vec3) {
	box.Center = center
}

// SetHalfExtent resizes the AABB, clamping negative components to 0.
func (box *AABB) SetHalfExtent(halfExtent mgl64.Vec3) {
	box.HalfExtent = mgl64.Vec3{
		nonNegative(halfExtent[0]),
		nonNegative(halfExtent[1]),
		nonNegative(halfExtent[2]),
	}
}

// Min returns the corner of the AABB with the smallest coordinates.
func (box AABB) Min() mgl64.Vec3 {
	return box.Center.Sub(box.HalfExtent)
}

// Max returns the corner of the AABB with the largest coordinates.
func (box AABB) Max() mgl64.Vec3 {
	return box.Center.Add(box.HalfExtent)
}

// Size returns the full width, height, and depth of the AABB.
func (box AABB) Size() mgl64.Vec3 {
	return box.HalfExtent.Mul(2)
}

// ClosestPoint returns the closest point, to the point given, on the inside or surface of the AABB.
func (box AABB) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	min := box.Min()
	max := box.Max()
	for i := range point {
		point[i] = clamp(point[i], min[i], max[i])
	}
	return point
}

// SupportPoint returns the corner of the AABB that lies furthest along the given direction.
func (box AABB) SupportPoint(dir mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		box.Center[0] + box.HalfExtent[0]*sign(dir[0]),
		box.Center[1] + box.HalfExtent[1]*sign(dir[1]),
		box.Center[2] + box.HalfExtent[2]*sign(dir[2]),
	}
}

// PointInside returns whether the given point is inside of (or on the surface of) the AABB.
func (box AABB) PointInside(point mgl64.Vec3) bool {
	min := box.Min()
	max := box.Max()
	return point[0] >= min[0] && point[0] <= max[0] &&
		point[1] >= min[1] && point[1] <= max[1] &&
		point[2] >= min[2] && point[2] <= max[2]
}

// IntersectsFrustum returns true if the AABB may be visible through the Frustum (see FrustumIntersectsAABB).
func (box AABB) IntersectsFrustum(frustum Frustum) bool {
	return FrustumIntersectsAABB(frustum, box)
}
