package tetracull

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Sphere represents a 3D bounding sphere.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64 // Radius is >= 0 for Spheres made with NewSphere()
}

// NewSphere returns a new Sphere. A negative (or NaN) radius is clamped to 0, which turns the Sphere into a point.
func NewSphere(center mgl64.Vec3, radius float64) Sphere {
	return Sphere{Center: center, Radius: nonNegative(radius)}
}

// NewCameraSphere returns a Sphere enclosing the camera's whole view volume. Testing against it is a single
// distance check, which is cheaper but much looser than testing against the Frustum itself.
// The center sits on the view axis halfway between the near and far planes, and the radius reaches the far plane's
// top corner, with the far plane's size taken the same way NewFrustum() takes it.
func NewCameraSphere(cam Camera, frame ProjectionFrame) Sphere {

	near := frame.Near()
	far := frame.Far()

	center := cam.Position.Add(cam.ViewDir.Mul(near + (far-near)*0.5))

	fw := frame.FarLR[0] - frame.FarLL[0]
	fh := frame.FarUL[1] - frame.FarLL[1]
	fc := cam.Position.Sub(cam.ViewDir.Mul(frame.FarLL[2]))

	farTopRight := fc.Add(cam.Up.Mul(fh)).Add(cam.Right().Mul(fw))

	return NewSphere(center, farTopRight.Sub(center).Len())

}

// Shape wraps the Sphere in a Shape for use with a Registry.
func (sphere Sphere) Shape() Shape {
	return Shape{kind: KindSphere, sphere: sphere}
}

// SetCenter moves the Sphere.
func (sphere *Sphere) SetCenter(center mgl64.Vec3) {
	sphere.Center = center
}

// SetRadius sets the Sphere's radius, clamping negative values to 0.
func (sphere *Sphere) SetRadius(radius float64) {
	sphere.Radius = nonNegative(radius)
}

// PointInside returns whether the given point is inside of (or on the surface of) the sphere or not.
func (sphere Sphere) PointInside(point mgl64.Vec3) bool {
	return sphere.Center.Sub(point).LenSqr() <= sphere.Radius*sphere.Radius
}

// IntersectsFrustum returns true if the Sphere may be visible through the Frustum (see FrustumIntersectsSphere).
func (sphere Sphere) IntersectsFrustum(frustum Frustum) bool {
	return FrustumIntersectsSphere(frustum, sphere)
}
