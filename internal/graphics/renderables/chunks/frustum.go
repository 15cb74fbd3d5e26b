package chunks

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type plane struct {
	a, b, c, d float32
}

// extractFrustumPlanes builds six planes from the combined projection*view
// matrix in the order left, right, bottom, top, near, far.
func extractFrustumPlanes(clip mgl32.Mat4) [6]plane {
	// mgl32 is column major
	m00, m01, m02, m03 := clip[0], clip[4], clip[8], clip[12]
	m10, m11, m12, m13 := clip[1], clip[5], clip[9], clip[13]
	m20, m21, m22, m23 := clip[2], clip[6], clip[10], clip[14]
	m30, m31, m32, m33 := clip[3], clip[7], clip[11], clip[15]

	return [6]plane{
		normalizePlane(plane{m30 + m00, m31 + m01, m32 + m02, m33 + m03}),
		normalizePlane(plane{m30 - m00, m31 - m01, m32 - m02, m33 - m03}),
		normalizePlane(plane{m30 + m10, m31 + m11, m32 + m12, m33 + m13}),
		normalizePlane(plane{m30 - m10, m31 - m11, m32 - m12, m33 - m13}),
		normalizePlane(plane{m30 + m20, m31 + m21, m32 + m22, m33 + m23}),
		normalizePlane(plane{m30 - m20, m31 - m21, m32 - m22, m33 - m23}),
	}
}

func normalizePlane(p plane) plane {
	l := float32(math.Sqrt(float64(p.a*p.a + p.b*p.b + p.c*p.c)))
	if l == 0 {
		return p
	}
	return plane{p.a / l, p.b / l, p.c / l, p.d / l}
}

// sphereInFrustum reports whether a sphere touches the frustum. Chunk bounds
// are loose so a sphere test is enough.
func sphereInFrustum(center mgl32.Vec3, radius float32, planes [6]plane) bool {
	for _, p := range planes {
		if p.a*center[0]+p.b*center[1]+p.c*center[2]+p.d < -radius {
			return false
		}
	}
	return true
}
