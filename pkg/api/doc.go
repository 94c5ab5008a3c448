// Package api defines the domain value types of the rigsheet catalog
// (user profiles, vehicles, modifications) and the API error taxonomy
// shared by the transport and auth layers.
//
// Entities are plain values: construction is a struct literal, and
// updates go through the explicit Update* functions which enforce the
// merge rules of the HTTP PUT handlers (path ID wins, ownership and
// credentials are preserved when omitted).
package api
