// Package floor holds the editable table layout of a venue floor plan.
//
// A [Model] is an ordered collection of [Table] placements in world
// coordinates. Order is draw order: later tables paint over earlier ones and
// win hit tests. Every successful mutation bumps [Model.Revision], which
// renderers use to decide whether a cached draw list is stale.
//
// # Editing
//
// The model applies the editing commands of the interactive editor:
//
//   - [Model.Add] validates geometry and assigns an id when none is given
//   - [Model.Move], [Model.Resize], [Model.Remove] and [Model.SetReserved]
//     address tables by id and are silent when the id is unknown
//   - [Model.Duplicate] copies a table 20 units down and to the right
//   - [Model.SetLocked] pins a table so that moves and resizes are ignored
//
// Rejected commands leave the model untouched, revision included.
//
// # History
//
// Each mutation records the previous arrangement so that [Model.Undo] and
// [Model.Redo] can step through the edit history. A new edit after an undo
// discards the redo branch. [Model.Replace], used when a stored layout is
// loaded, starts a fresh history.
//
// # Grid
//
// [WithGrid] enables snapping: moved tables land on the nearest grid line.
//
// A Model is not safe for concurrent use. The editor drives it from a single
// event loop.
package floor
