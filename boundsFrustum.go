package tetracull

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Plane represents an oriented plane: the points p for which Normal.Dot(p) == Distance. Points with a positive
// SignedDistance are on the side the Normal points towards.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// NewPlaneFromPoints returns the plane running through the three points given, with its normal following the
// winding a -> b -> c (counter-clockwise when looking at the front of the plane). Collinear points give the zero Plane,
// which has every point on its surface.
func NewPlaneFromPoints(a, b, c mgl64.Vec3) Plane {
	normal := b.Sub(a).Cross(c.Sub(a))
	if normal.LenSqr() == 0 {
		return Plane{}
	}
	normal = normal.Normalize()
	return Plane{Normal: normal, Distance: normal.Dot(a)}
}

// SignedDistance returns the distance from the plane to the point given; it's negative behind the plane.
// The distance is only in world units if the Normal is normalized.
func (plane Plane) SignedDistance(point mgl64.Vec3) float64 {
	return plane.Normal.Dot(point) - plane.Distance
}

// Flipped returns the same plane facing the other way.
func (plane Plane) Flipped() Plane {
	return Plane{Normal: plane.Normal.Mul(-1), Distance: -plane.Distance}
}

// facing returns the plane oriented so that the point given is on its positive side.
func (plane Plane) facing(inside mgl64.Vec3) Plane {
	if plane.SignedDistance(inside) < 0 {
		return plane.Flipped()
	}
	return plane
}

// Indices of the planes in a Frustum.
const (
	FrustumNear = iota
	FrustumFar
	FrustumLeft
	FrustumRight
	FrustumTop
	FrustumBottom
)

// Indices of the corners in a Frustum.
const (
	CornerNearTopLeft = iota
	CornerNearTopRight
	CornerNearBottomLeft
	CornerNearBottomRight
	CornerFarTopLeft
	CornerFarTopRight
	CornerFarBottomLeft
	CornerFarBottomRight
)

// Containment is the result of classifying a bounding volume against a Frustum.
type Containment int

const (
	Outside      Containment = iota // Fully behind at least one plane
	Intersecting                    // Straddling at least one plane and not outside any
	Inside                          // In front of all planes
)

func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case Intersecting:
		return "intersecting"
	}
	return "outside"
}

// Frustum represents the six-plane volume seen through a camera. All planes face inwards, so a point is inside the
// Frustum when its SignedDistance to every plane is >= 0.
//
// A Frustum is derived from the camera's pose and projection; rebuild it with SetUp() whenever either
// changes (every frame is fine, it's cheap).
type Frustum struct {
	planes  [6]Plane
	corners [8]mgl64.Vec3
}

// NewFrustum returns the Frustum seen by the camera through the projection frame given.
func NewFrustum(cam Camera, frame ProjectionFrame) Frustum {
	var frustum Frustum
	frustum.SetUp(cam, frame)
	return frustum
}

// SetUp rebuilds the Frustum from a camera pose and projection frame.
// The width and height of the near and far planes come from the spread between the frame's lower-left corner and its
// lower-right and upper-left corners, and are applied on both sides of the view axis.
func (frustum *Frustum) SetUp(cam Camera, frame ProjectionFrame) {

	up := cam.Up
	right := cam.Right()

	nw := frame.NearLR[0] - frame.NearLL[0]
	nh := frame.NearUL[1] - frame.NearLL[1]
	fw := frame.FarLR[0] - frame.FarLL[0]
	fh := frame.FarUL[1] - frame.FarLL[1]

	nc := cam.Position.Sub(cam.ViewDir.Mul(frame.NearLL[2]))
	fc := cam.Position.Sub(cam.ViewDir.Mul(frame.FarLL[2]))

	frustum.corners = [8]mgl64.Vec3{
		CornerNearTopLeft:     nc.Add(up.Mul(nh)).Sub(right.Mul(nw)),
		CornerNearTopRight:    nc.Add(up.Mul(nh)).Add(right.Mul(nw)),
		CornerNearBottomLeft:  nc.Sub(up.Mul(nh)).Sub(right.Mul(nw)),
		CornerNearBottomRight: nc.Sub(up.Mul(nh)).Add(right.Mul(nw)),
		CornerFarTopLeft:      fc.Add(up.Mul(fh)).Sub(right.Mul(fw)),
		CornerFarTopRight:     fc.Add(up.Mul(fh)).Add(right.Mul(fw)),
		CornerFarBottomLeft:   fc.Sub(up.Mul(fh)).Sub(right.Mul(fw)),
		CornerFarBottomRight:  fc.Sub(up.Mul(fh)).Add(right.Mul(fw)),
	}

	frustum.planesFromCorners()

}

// NewFrustumFromMatrix extracts the Frustum from a combined projection * view matrix (Gribb / Hartmann).
// The planes are normalized, so SignedDistance returns world units.
func NewFrustumFromMatrix(viewProjection mgl64.Mat4) Frustum {

	r0 := viewProjection.Row(0)
	r1 := viewProjection.Row(1)
	r2 := viewProjection.Row(2)
	r3 := viewProjection.Row(3)

	var frustum Frustum

	frustum.planes[FrustumLeft] = planeFromCoefficients(r3.Add(r0))
	frustum.planes[FrustumRight] = planeFromCoefficients(r3.Sub(r0))
	frustum.planes[FrustumBottom] = planeFromCoefficients(r3.Add(r1))
	frustum.planes[FrustumTop] = planeFromCoefficients(r3.Sub(r1))
	frustum.planes[FrustumNear] = planeFromCoefficients(r3.Add(r2))
	frustum.planes[FrustumFar] = planeFromCoefficients(r3.Sub(r2))

	inv := viewProjection.Inv()

	ndc := [8]mgl64.Vec3{
		CornerNearTopLeft:     {-1, 1, -1},
		CornerNearTopRight:    {1, 1, -1},
		CornerNearBottomLeft:  {-1, -1, -1},
		CornerNearBottomRight: {1, -1, -1},
		CornerFarTopLeft:      {-1, 1, 1},
		CornerFarTopRight:     {1, 1, 1},
		CornerFarBottomLeft:   {-1, -1, 1},
		CornerFarBottomRight:  {1, -1, 1},
	}

	for i, c := range ndc {
		v := inv.Mul4x1(c.Vec4(1))
		if v[3] != 0 {
			v = v.Mul(1 / v[3])
		}
		frustum.corners[i] = v.Vec3()
	}

	return frustum

}

// planeFromCoefficients turns a plane equation ax + by + cz + d >= 0 into a normalized Plane.
func planeFromCoefficients(coefficients mgl64.Vec4) Plane {
	normal := coefficients.Vec3()
	length := normal.Len()
	if length == 0 {
		return Plane{}
	}
	return Plane{Normal: normal.Mul(1 / length), Distance: -coefficients[3] / length}
}

func (frustum *Frustum) planesFromCorners() {

	c := frustum.corners

	var centroid mgl64.Vec3
	for _, corner := range c {
		centroid = centroid.Add(corner)
	}
	centroid = centroid.Mul(1.0 / 8)

	frustum.planes[FrustumNear] = NewPlaneFromPoints(c[CornerNearTopLeft], c[CornerNearTopRight], c[CornerNearBottomRight]).facing(centroid)
	frustum.planes[FrustumFar] = NewPlaneFromPoints(c[CornerFarTopRight], c[CornerFarTopLeft], c[CornerFarBottomLeft]).facing(centroid)
	frustum.planes[FrustumLeft] = NewPlaneFromPoints(c[CornerNearTopLeft], c[CornerNearBottomLeft], c[CornerFarBottomLeft]).facing(centroid)
	frustum.planes[FrustumRight] = NewPlaneFromPoints(c[CornerNearBottomRight], c[CornerNearTopRight], c[CornerFarBottomRight]).facing(centroid)
	frustum.planes[FrustumTop] = NewPlaneFromPoints(c[CornerNearTopRight], c[CornerNearTopLeft], c[CornerFarTopLeft]).facing(centroid)
	frustum.planes[FrustumBottom] = NewPlaneFromPoints(c[CornerNearBottomLeft], c[CornerNearBottomRight], c[CornerFarBottomRight]).facing(centroid)

}

// Shape wraps the Frustum in a Shape for use with a Registry.
func (frustum Frustum) Shape() Shape {
	return Shape{kind: KindFrustum, frustum: frustum}
}

// Planes returns a copy of the Frustum's planes, indexed by FrustumNear, FrustumFar, etc.
func (frustum Frustum) Planes() [6]Plane {
	return frustum.planes
}

// Plane returns the Frustum's plane at the index given (FrustumNear, FrustumFar, etc).
func (frustum Frustum) Plane(index int) Plane {
	return frustum.planes[index]
}

// Corners returns a copy of the Frustum's corners, indexed by CornerNearTopLeft, CornerNearTopRight, etc.
func (frustum Frustum) Corners() [8]mgl64.Vec3 {
	return frustum.corners
}

// ContainsPoint returns true if the point is inside (or on the surface of) the Frustum.
func (frustum Frustum) ContainsPoint(point mgl64.Vec3) bool {
	for _, plane := range frustum.planes {
		if plane.SignedDistance(point) < 0 {
			return false
		}
	}
	return true
}

// Equals returns true if the planes of both Frustums match within the tolerance given.
func (frustum Frustum) Equals(other Frustum, epsilon float64) bool {
	for i, plane := range frustum.planes {
		o := other.planes[i]
		if !plane.Normal.ApproxEqualThreshold(o.Normal, epsilon) || !mgl64.FloatEqualThreshold(plane.Distance, o.Distance, epsilon) {
			return false
		}
	}
	return true
}

// ClassifyAABB returns whether the AABB is fully outside the Frustum, straddles some of its planes, or is fully inside.
// Like FrustumIntersectsAABB, "outside" is only reported when the box is behind a single plane.
func (frustum Frustum) ClassifyAABB(box AABB) Containment {
	result := Inside
	for _, plane := range frustum.planes {
		if plane.SignedDistance(box.SupportPoint(plane.Normal)) < 0 {
			return Outside
		}
		if plane.SignedDistance(box.SupportPoint(plane.Normal.Mul(-1))) < 0 {
			result = Intersecting
		}
	}
	return result
}

// ClassifySphere returns whether the Sphere is fully outside the Frustum, straddles some of its planes, or is fully inside.
func (frustum Frustum) ClassifySphere(sphere Sphere) Containment {
	result := Inside
	for _, plane := range frustum.planes {
		dist := plane.SignedDistance(sphere.Center)
		if dist < -sphere.Radius {
			return Outside
		}
		if dist < sphere.Radius {
			result = Intersecting
		}
	}
	return result
}
