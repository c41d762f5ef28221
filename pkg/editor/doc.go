// Package editor hosts an interactive floor-plan editing session.
//
// A [Session] ties together the layout model ([floor.Model]), the viewport
// ([Binder]), the draw-list cache ([render.Renderer]) and a layout store. It
// exposes the handlers a host surface forwards its events to: container
// resizes, pointer down/move/up and wheel steps, plus the editing commands
// and explicit save/load.
//
// # Viewport ownership
//
// The [Binder] starts in auto-fit mode: every container resize refits the
// plan. The first wheel zoom or background drag hands the viewport to the
// user, after which resizes only record the new container size.
// [Session.ResetView] returns to auto-fit.
//
// # Principals
//
// Every session is opened for a [Principal]: a [ClubOwner] may edit and
// save, a [Guest] may only load, pan and zoom. Edits by a guest fail with
// FORBIDDEN and leave the model untouched.
//
// A Session is driven from a single event loop and is not safe for
// concurrent use. [Session.Save] snapshots the tables before it performs
// I/O, so edits made while a save is in flight are not part of it.
package editor
