package tetracull

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera represents a camera pose (where you look from, and which way you're looking).
// ViewDir and Up are expected to be normalized and perpendicular to each other; the pose helpers below keep them that way.
type Camera struct {
	Position mgl64.Vec3
	ViewDir  mgl64.Vec3
	Up       mgl64.Vec3
}

// NewCamera returns a Camera at the origin looking down -Z, with +Y being up.
func NewCamera() Camera {
	return Camera{
		ViewDir: mgl64.Vec3{0, 0, -1},
		Up:      mgl64.Vec3{0, 1, 0},
	}
}

// Right returns the Camera's right vector.
func (cam Camera) Right() mgl64.Vec3 {
	return cam.Up.Cross(cam.ViewDir).Normalize().Mul(-1)
}

// Validate returns an error of type ErrTypeInvalidInput if the Camera's vectors aren't finite, or if ViewDir and Up
// are zero or parallel, in which case there's no right vector to build a Frustum with.
func (cam Camera) Validate() error {
	if !finiteVec(cam.Position) || !finiteVec(cam.ViewDir) || !finiteVec(cam.Up) {
		return errors.New("camera vectors must be finite").
			WithType(ErrTypeInvalidInput).
			WithTag("position", cam.Position).
			WithTag("view_dir", cam.ViewDir).
			WithTag("up", cam.Up)
	}

	if cam.Up.Cross(cam.ViewDir).Len() < 1e-9 {
		return errors.New("camera view direction and up vector are zero or parallel").
			WithType(ErrTypeInvalidInput).
			WithTag("view_dir", cam.ViewDir).
			WithTag("up", cam.Up)
	}

	return nil
}

// MoveForward moves the Camera along its view direction by the distance given (negative values move backwards).
func (cam *Camera) MoveForward(distance float64) {
	cam.Position = cam.Position.Add(cam.ViewDir.Mul(distance))
}

// MoveRight moves the Camera along its right vector.
func (cam *Camera) MoveRight(distance float64) {
	cam.Position = cam.Position.Add(cam.Right().Mul(distance))
}

// MoveUp moves the Camera along its up vector.
func (cam *Camera) MoveUp(distance float64) {
	cam.Position = cam.Position.Add(cam.Up.Mul(distance))
}

// Rotate rotates the Camera's view direction and up vector around the given axis by the angle given (in radians).
func (cam *Camera) Rotate(angle float64, axis mgl64.Vec3) {
	if axis.LenSqr() == 0 {
		return
	}
	rot := mgl64.QuatRotate(angle, axis.Normalize())
	cam.ViewDir = rot.Rotate(cam.ViewDir).Normalize()
	cam.Up = rot.Rotate(cam.Up).Normalize()
}

// RotateX pitches the Camera around its own right vector by the angle given (in radians).
func (cam *Camera) RotateX(angle float64) {
	cam.Rotate(angle, cam.Right())
}

// ViewMatrix returns the Camera's view matrix.
func (cam Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(cam.Position, cam.Position.Add(cam.ViewDir), cam.Up)
}

// ProjectionFrame holds the corners of the near and far planes of a projection in camera space, with the camera
// looking down -Z (so the Z component of every corner is negative). LL, LR, UL and UR stand for lower-left,
// lower-right, upper-left and upper-right.
type ProjectionFrame struct {
	NearLL, NearLR, NearUL, NearUR mgl64.Vec3
	FarLL, FarLR, FarUL, FarUR     mgl64.Vec3
}

// NewPerspectiveFrame returns the ProjectionFrame of a perspective projection with the vertical field of view (in
// radians), aspect ratio (width / height), and near and far plane distances given.
// An error of type ErrTypeInvalidProjection is returned if the parameters can't describe a projection.
func NewPerspectiveFrame(fovY, aspect, near, far float64) (ProjectionFrame, error) {
	var frame ProjectionFrame
	err := frame.SetPerspective(fovY, aspect, near, far)
	return frame, err
}

// SetPerspective sets the ProjectionFrame's corners to those of the perspective projection described.
// The frame is left untouched if an error is returned.
func (frame *ProjectionFrame) SetPerspective(fovY, aspect, near, far float64) error {

	if !(fovY > 0 && fovY < math.Pi) {
		return errors.New("field of view out of range").
			WithType(ErrTypeInvalidProjection).
			WithTag("fov_y", fovY)
	}

	if !(aspect > 0) {
		return errors.New("aspect ratio must be positive").
			WithType(ErrTypeInvalidProjection).
			WithTag("aspect", aspect)
	}

	if !(near > 0) || !(far > near) {
		return errors.New("near and far planes must satisfy 0 < near < far").
			WithType(ErrTypeInvalidProjection).
			WithTag("near", near).
			WithTag("far", far)
	}

	tan := math.Tan(fovY / 2)

	nh := near * tan
	nw := nh * aspect
	fh := far * tan
	fw := fh * aspect

	frame.NearLL = mgl64.Vec3{-nw, -nh, -near}
	frame.NearLR = mgl64.Vec3{nw, -nh, -near}
	frame.NearUL = mgl64.Vec3{-nw, nh, -near}
	frame.NearUR = mgl64.Vec3{nw, nh, -near}

	frame.FarLL = mgl64.Vec3{-fw, -fh, -far}
	frame.FarLR = mgl64.Vec3{fw, -fh, -far}
	frame.FarUL = mgl64.Vec3{-fw, fh, -far}
	frame.FarUR = mgl64.Vec3{fw, fh, -far}

	return nil

}

// Validate returns an error of type ErrTypeInvalidProjection if the frame's near and far planes aren't in front of the
// camera in the right order.
func (frame ProjectionFrame) Validate() error {
	if near, far := frame.Near(), frame.Far(); !(near > 0) || !(far > near) {
		return errors.New("near and far planes must satisfy 0 < near < far").
			WithType(ErrTypeInvalidProjection).
			WithTag("near", near).
			WithTag("far", far)
	}
	return nil
}

// Near returns the distance from the camera to the near plane.
func (frame ProjectionFrame) Near() float64 {
	return -frame.NearLL[2]
}

// Far returns the distance from the camera to the far plane.
func (frame ProjectionFrame) Far() float64 {
	return -frame.FarLL[2]
}

// ProjectionMatrix returns the projection matrix matching the frame's near plane corners and far distance.
func (frame ProjectionFrame) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Frustum(frame.NearLL[0], frame.NearLR[0], frame.NearLL[1], frame.NearUL[1], frame.Near(), frame.Far())
}
