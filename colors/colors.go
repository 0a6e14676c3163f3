package colors

// package colors contains the palette used to draw culling results by name (i.e. "Visible()", "Culled()", "Frustum()", etc).

import "image/color"

func rgba(r, g, b, a float64) color.RGBA {
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), uint8(a * 255)}
}

// Background is the color drawn behind everything else.
func Background() color.RGBA {
	return rgba(0.05, 0.05, 0.08, 1)
}

// Visible is the color of objects that passed the culling test.
func Visible() color.RGBA {
	return rgba(0.15, 0.8, 0.25, 1)
}

// Culled is the color of objects that failed the culling test.
func Culled() color.RGBA {
	return rgba(0.678, 0.172, 0.184, 1)
}

// ForVisibility returns Visible() or Culled() depending on the visibility given.
func ForVisibility(visible bool) color.RGBA {
	if visible {
		return Visible()
	}
	return Culled()
}

// Frustum is the color of the camera frustum outline.
func Frustum() color.RGBA {
	return rgba(1, 1, 1, 1)
}

// CameraSphere is the color of the sphere around the camera's view volume.
func CameraSphere() color.RGBA {
	return rgba(0, 0.5, 1, 1)
}

// Text is the color of debug text.
func Text() color.RGBA {
	return rgba(1, 1, 0, 1)
}
