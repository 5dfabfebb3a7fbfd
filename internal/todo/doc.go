// Package todo holds the task list, its persisted snapshot, and the
// controller that ties a mutation to a save and a re-render.
//
// The snapshot is a JSON array stored under a single key:
//
//	[
//	  {"text": "Buy milk", "done": true},
//	  {"text": "Write report", "done": false}
//	]
//
// There is no version field and no migration. A task's identity is its
// position in the array.
//
// # Loading
//
// Load never fails. A missing key, unreadable storage, invalid JSON, or a
// value that is not an array all load as an empty list. With validation
// enabled (the default) each element must also be an object with a string
// "text" and a boolean "done"; anything else discards the whole snapshot.
// Extra fields are tolerated.
//
// # Saving
//
// Every successful mutation overwrites the key with the full list. Writes
// use 2-space indentation and a trailing newline. An empty list is written
// as [] rather than null.
//
// # Invalid input
//
// Adding empty or whitespace-only text and toggling or removing an index
// outside the list are silent no-ops. They are not errors.
package todo
