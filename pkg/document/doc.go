// Package document defines the persisted form of a floor-plan layout.
//
// A [Document] is what the stores write: the owner, a display name, the
// ordered tables and store-managed timestamps, stamped with
// [SchemaVersion]. The same field names are used for JSON files, HTTP
// payloads and MongoDB documents:
//
//	{
//	  "id": "6f1c...",
//	  "schemaVersion": 1,
//	  "ownerId": "club-42",
//	  "name": "16/10/2026",
//	  "tables": [{"id": "t1", "x": 50, "y": 50, "width": 100, "height": 100}],
//	  "createdAt": "2026-10-16T20:00:00Z",
//	  "updatedAt": "2026-10-16T20:00:00Z"
//	}
//
// # Validation
//
// Documents are validated when they cross the store boundary in either
// direction. A missing or unknown schema version, or any table with broken
// geometry, is reported as SCHEMA_MISMATCH. An invalid owner id or name
// supplied by a caller is INVALID_INPUT.
//
// # Drafts
//
// A [Draft] is the unsaved part of a layout, a name and tables. It is the
// body of the HTTP create call and the format of files imported by the CLI.
package document
