// Package lightning provides real-time per-pixel 2D lighting with hard
// shadows cast by convex polygons.
//
// The root package holds the small value types shared by every subpackage:
// vectors, a 4x4 matrix, colors, vertices and the Pixmap pixel buffer.
// The interesting machinery lives in the subpackages:
//
//   - render: the pipeline state machine, render targets and the
//     software rasterizer device
//   - mesh: fixed-topology polygon meshes with per-edge queries
//   - shadow: shadow casters and silhouette extrusion
//   - light: the point light and its precomputed attenuation map
//   - postfx: the bloom post-process
//   - scene: the per-frame pass orchestrator
//
// By default lightning produces no log output; call SetLogger to enable
// structured logging via log/slog.
package lightning
