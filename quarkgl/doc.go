// Package quarkgl provides a minimal, predictable software 3D engine for orrery.
//
// QuarkGL is intended for presentation scenes: a handful of textured meshes
// grouped under transform nodes, a background image, and an optional
// equirectangular environment used for ambient light and reflections. It is
// not a game engine and does not provide a GPU abstraction.
//
// Pipeline (fixed):
//
//	Scene → Group/Mesh transforms → Projection → Culling → Rasterization → Blending → Frame output.
//
// The renderer is software-only and draws into a caller-provided Target.
// Rasterization can be split into horizontal bands processed by worker
// goroutines (see Renderer.SetWorkers); scene state itself is never mutated by
// the renderer and must only be changed from the goroutine that calls Render.
package quarkgl
