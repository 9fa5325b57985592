// Package tenant defines the two business units sharing this application and
// the rules for resolving the active unit per request.
//
// Tenancy is a partition column, not a database-per-tenant split: both units
// live in the same store and every ledger, sale and expense row carries a
// tenant ID.
package tenant

import (
	"strings"
)

// ID identifies a business unit.
type ID string

const (
	// Red is the primary tenant. It is the default when a request carries no
	// tenant hint and the only identity allowed to read the consolidated
	// cross-tenant ledger view.
	Red ID = "red"

	// White is the second tenant, restricted to its own partition.
	White ID = "white"
)

// Default is the tenant assumed when resolution finds no hint.
const Default = Red

// All lists the known tenants. The two existing units are the full contract;
// there is no dynamic tenant registry.
var All = []ID{Red, White}

// Parse converts a raw string to a tenant ID, case-insensitively.
// The second return value reports whether the input named a known tenant.
func Parse(raw string) (ID, bool) {
	switch ID(strings.ToLower(strings.TrimSpace(raw))) {
	case Red:
		return Red, true
	case White:
		return White, true
	}
	return "", false
}

// IsValid reports whether t names a known tenant.
func (t ID) IsValid() bool {
	return t == Red || t == White
}

// IsPrivileged reports whether t may request the consolidated cross-tenant view.
func (t ID) IsPrivileged() bool {
	return t == Red
}

func (t ID) String() string {
	return string(t)
}
