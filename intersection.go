package tetracull

// The functions below are the pairwise bounding volume tests. They're pure, symmetric in meaning, and touching
// counts as intersecting. A Registry dispatches to them when the Kinds of both Shapes aren't known up front.

// SphereIntersectsSphere returns true if the distance between the centers of the two Spheres is at most the sum of their radii.
func SphereIntersectsSphere(a, b Sphere) bool {
	r := a.Radius + b.Radius
	return a.Center.Sub(b.Center).LenSqr() <= r*r
}

// SphereIntersectsAABB returns true if the Sphere touches or overlaps the AABB; that is, if the squared distance from the
// Sphere's center to the closest point in the box is at most the squared radius.
func SphereIntersectsAABB(sphere Sphere, box AABB) bool {

	min := box.Min()
	max := box.Max()

	distSquared := 0.0

	for i, c := range sphere.Center {
		if c < min[i] {
			d := min[i] - c
			distSquared += d * d
		} else if c > max[i] {
			d := c - max[i]
			distSquared += d * d
		}
	}

	return distSquared <= sphere.Radius*sphere.Radius

}

// AABBIntersectsAABB returns true if the two boxes overlap on all three axes.
func AABBIntersectsAABB(a, b AABB) bool {

	for i := 0; i < 3; i++ {

		d := a.Center[i] - b.Center[i]
		if d < 0 {
			d = -d
		}

		if d > a.HalfExtent[i]+b.HalfExtent[i] {
			return false
		}

	}

	return true

}

// FrustumIntersectsAABB returns true unless the AABB is fully behind one of the Frustum's planes. For each plane, the box
// corner furthest along the plane's normal is tested; if even that corner is behind the plane, the box is rejected.
//
// This is a conservative test. A large box near a corner or edge of the Frustum can be partially in front of every
// plane while still missing the Frustum, and will be reported as intersecting. Objects that are reported as not
// intersecting are never visible.
func FrustumIntersectsAABB(frustum Frustum, box AABB) bool {
	for _, plane := range frustum.planes {
		if plane.SignedDistance(box.SupportPoint(plane.Normal)) < 0 {
			return false
		}
	}
	return true
}

// FrustumIntersectsSphere returns true unless the Sphere's center is further than its radius behind one of the
// Frustum's planes. It's conservative in the same way as FrustumIntersectsAABB.
func FrustumIntersectsSphere(frustum Frustum, sphere Sphere) bool {
	for _, plane := range frustum.planes {
		if plane.SignedDistance(sphere.Center) < -sphere.Radius {
			return false
		}
	}
	return true
}

// FrustumIntersectsFrustum returns true unless all corners of one Frustum lie behind a single plane of the other.
func FrustumIntersectsFrustum(a, b Frustum) bool {
	return !a.separates(b) && !b.separates(a)
}

// separates returns true if one of the Frustum's planes has all of the other Frustum's corners behind it.
func (frustum Frustum) separates(other Frustum) bool {

	for _, plane := range frustum.planes {

		behind := true

		for _, corner := range other.corners {
			if plane.SignedDistance(corner) >= 0 {
				behind = false
				break
			}
		}

		if behind {
			return true
		}

	}

	return false

}
