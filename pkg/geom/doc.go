// Package geom converts between floor-plan (world) coordinates and screen
// coordinates for an interactive editor.
//
// # Overview
//
// A floor plan is drawn in world units. The editor shows it through a
// viewport defined by a uniform scale and a pan offset in screen pixels:
//
//	screen = world*scale + offset
//	world  = (screen - offset) / scale
//
// [WorldToScreen] and [ScreenToWorld] implement these transforms and are
// exact inverses up to floating-point rounding.
//
// # Zooming
//
// [ZoomAt] zooms by a fixed factor of 1.1 per wheel event and keeps the
// world point under the pointer on the same screen pixel. The resulting
// scale is clamped to [MinScale, MaxScale].
//
// # Fitting
//
// [FitToBounds] picks the largest scale (never above 1.0) at which the
// bounding box of all tables fits a container. Empty plans fit at 1.0.
//
// # Viewport
//
// [Viewport] bundles scale, offset and container size with a two-state mode:
// it starts in [ModeAutoFit] and moves to [ModeUserControlled] on the first
// manual zoom or pan. Only auto-fit viewports are refitted when the
// container is resized.
//
// All functions are pure and total on finite input. Callers are expected to
// validate geometry before it reaches this package.
package geom
