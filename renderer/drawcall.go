package renderer

import (
	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
	"github.com/T-Dawg138/rg3d/scene"
)

// DrawCall is one mesh draw with its matrices resolved. The pass drivers
// consume the same flattened list, so culling and matrix math happen once
// per frame.
type DrawCall struct {
	Mesh  *scene.Mesh
	Tint  core.Color
	Model math.Mat4
	MVP   math.Mat4
}

// BuildDrawCalls flattens culled scene nodes into draw calls against the
// given view-projection.
func BuildDrawCalls(nodes []*scene.Node, vp math.Mat4) []DrawCall {
	calls := make([]DrawCall, 0, len(nodes))
	for _, node := range nodes {
		model := node.GetWorldMatrix()
		calls = append(calls, DrawCall{
			Mesh:  node.Mesh,
			Tint:  node.Tint,
			Model: model,
			MVP:   vp.Mul(model),
		})
	}
	return calls
}

// CastsShadow reports whether a light drives the shadow map. Only one
// directional light per frame renders shadows; point and spot lights do not.
func CastsShadow(l *scene.Light) bool {
	return l != nil && l.Type == scene.LightDirectional && l.CastShadows &&
		l.Direction.LengthSqr() > 0.0001
}
