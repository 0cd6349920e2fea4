// Package id generates time-sortable identifiers for journal records.
package id

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID string. ULIDs sort lexicographically by creation
// time, which keeps journal scans in insert order without a separate index.
func New() string {
	return ulid.Make().String()
}
