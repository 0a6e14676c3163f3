package tetracull

import (
	"bytes"
	"math"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
)

// GLTFBoundsOptions alters how bounds are read from a glTF scene.
type GLTFBoundsOptions struct {
	Spheres bool // If true, each mesh node gets the Sphere enclosing its box rather than the box itself
	// Scene is the index of the scene to read. Negative values (the default from DefaultGLTFBoundsOptions()) read the
	// document's default scene, or the first one if it names none.
	Scene int
}

// DefaultGLTFBoundsOptions returns GLTFBoundsOptions reading AABBs from the document's default scene.
func DefaultGLTFBoundsOptions() *GLTFBoundsOptions {
	return &GLTFBoundsOptions{
		Scene: -1,
	}
}

// GLTFBounds is the world-space bounding volume of a single mesh node.
type GLTFBounds struct {
	Name   string
	Node   int
	Bounds Shape
}

// LoadGLTFBounds loads a .gltf or .glb file from the filepath given and returns the bounds of every mesh node in its
// scene. Passing nil for opts uses DefaultGLTFBoundsOptions().
func LoadGLTFBounds(path string, opts *GLTFBoundsOptions) ([]GLTFBounds, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("reading gltf file failed").
			WithType(ErrTypeGLTF).
			WithTag("path", path).
			Wrap(err)
	}

	doc := gltf.NewDocument()
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, errors.New("decoding gltf file failed").
			WithType(ErrTypeGLTF).
			WithTag("path", path).
			Wrap(err)
	}

	return GLTFBoundsFromDocument(doc, opts)

}

// GLTFBoundsFromDocument returns the bounds of every mesh node in a scene of the glTF document given, in the order the
// scene graph is walked (depth first). A mesh's box comes from the min / max values of its POSITION accessors, which
// glTF requires exporters to write; the box is then moved into world space by the node's transform and its ancestors'.
// Rotated boxes are replaced by the AABB around them.
func GLTFBoundsFromDocument(doc *gltf.Document, opts *GLTFBoundsOptions) ([]GLTFBounds, error) {

	if opts == nil {
		opts = DefaultGLTFBoundsOptions()
	}

	roots, err := sceneRoots(doc, opts.Scene)
	if err != nil {
		return nil, err
	}

	bounds := []GLTFBounds{}

	var walk func(index int, parent mgl64.Mat4, depth int) error

	walk = func(index int, parent mgl64.Mat4, depth int) error {

		if index < 0 || index >= len(doc.Nodes) || depth > len(doc.Nodes) {
			return errors.New("gltf node index out of range").
				WithType(ErrTypeGLTF).
				WithTag("node", index)
		}

		node := doc.Nodes[index]
		transform := parent.Mul4(nodeTransform(node))

		if node.Mesh == nil {
			logs.WithTag("node", node.Name).
				WithTag("index", index).
				Debug("skipping gltf node without mesh")
		} else {

			box, err := meshBox(doc, *node.Mesh)
			if err != nil {
				return errors.New("reading gltf mesh bounds failed").
					WithType(ErrTypeGLTF).
					WithTag("node", node.Name).
					Wrap(err)
			}

			box = transformAABB(box, transform)

			shape := box.Shape()
			if opts.Spheres {
				shape = NewSphere(box.Center, box.HalfExtent.Len()).Shape()
			}

			bounds = append(bounds, GLTFBounds{
				Name:   node.Name,
				Node:   index,
				Bounds: shape,
			})

		}

		for _, child := range node.Children {
			if err := walk(child, transform, depth+1); err != nil {
				return err
			}
		}

		return nil

	}

	for _, root := range roots {
		if err := walk(root, mgl64.Ident4(), 0); err != nil {
			return nil, err
		}
	}

	return bounds, nil

}

func sceneRoots(doc *gltf.Document, scene int) ([]int, error) {

	if len(doc.Scenes) == 0 {
		// No scenes; every node is a root of its own.
		roots := []int{}
		isChild := make([]bool, len(doc.Nodes))
		for _, node := range doc.Nodes {
			for _, child := range node.Children {
				if child >= 0 && child < len(isChild) {
					isChild[child] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !isChild[i] {
				roots = append(roots, i)
			}
		}
		return roots, nil
	}

	if scene < 0 {
		scene = 0
		if doc.Scene != nil {
			scene = *doc.Scene
		}
	}

	if scene >= len(doc.Scenes) {
		return nil, errors.New("gltf scene index out of range").
			WithType(ErrTypeGLTF).
			WithTag("scene", scene).
			WithTag("scenes", len(doc.Scenes))
	}

	return doc.Scenes[scene].Nodes, nil

}

func nodeTransform(node *gltf.Node) mgl64.Mat4 {

	matrix := mgl64.Mat4(node.MatrixOrDefault())
	if matrix != mgl64.Ident4() {
		return matrix
	}

	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()

	rotation := mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}

	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))

}

// meshBox returns the local AABB of all of a mesh's primitives.
func meshBox(doc *gltf.Document, meshIndex int) (AABB, error) {

	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return AABB{}, errors.New("gltf mesh index out of range").
			WithType(ErrTypeGLTF).
			WithTag("mesh", meshIndex)
	}

	mesh := doc.Meshes[meshIndex]

	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	found := false

	for _, prim := range mesh.Primitives {

		accessorIndex, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
			return AABB{}, errors.New("gltf accessor index out of range").
				WithType(ErrTypeGLTF).
				WithTag("mesh", mesh.Name).
				WithTag("accessor", accessorIndex)
		}

		accessor := doc.Accessors[accessorIndex]

		if len(accessor.Min) < 3 || len(accessor.Max) < 3 {
			return AABB{}, errors.New("gltf position accessor has no min / max").
				WithType(ErrTypeGLTF).
				WithTag("mesh", mesh.Name).
				WithTag("accessor", accessorIndex)
		}

		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], accessor.Min[i])
			max[i] = math.Max(max[i], accessor.Max[i])
		}

		found = true

	}

	if !found {
		return AABB{}, errors.New("gltf mesh has no positions").
			WithType(ErrTypeGLTF).
			WithTag("mesh", mesh.Name)
	}

	return NewAABBFromMinMax(min, max), nil

}

// transformAABB returns the AABB around the box after transforming it by the matrix given.
func transformAABB(box AABB, transform mgl64.Mat4) AABB {

	center := mgl64.TransformCoordinate(box.Center, transform)

	// The half extent of the transformed box along each world axis is the sum of the absolute contributions of
	// each local axis.
	var half mgl64.Vec3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			half[row] += math.Abs(transform.At(row, col)) * box.HalfExtent[col]
		}
	}

	return NewAABB(center, half)

}
