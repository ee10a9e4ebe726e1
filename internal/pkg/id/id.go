// Package id generates the identifiers used as DynamoDB keys across the
// portal's tables.
package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID. Creation-time ordering means unsorted table
// scans come back roughly chronological, which the list endpoints rely on.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
