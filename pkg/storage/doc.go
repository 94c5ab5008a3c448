// Package storage defines the persistence interfaces for the rigsheet
// catalog and the sentinel errors shared by the adapter implementations
// (memory, postgres). The ProfileStore half doubles as the credential
// store consumed by the auth layer: lookup-by-username and save are the
// only capabilities authentication depends on.
package storage
