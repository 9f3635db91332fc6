// Package notebook defines the kitchen notebook: items grouped by storage
// location, wrapped in a versioned document that is persisted locally and
// synchronised with the server.
//
// Every read goes through Decode, which maps the historical persisted shapes
// (bare inventory objects, snake_case field names) onto the canonical
// Document. Writes always use Encode and the canonical field names.
package notebook
