package db

import (
	pkgerrors "github.com/izzah/storefront/pkg/errors"
)

const (
	pgUniqueViolation       = "23505"
	pgStringDataTruncation  = "22001"
	pgProgramLimitExceeded  = "54000"
	pgInsufficientResources = "53000"
)

// IsUniqueViolation reports whether err is a Postgres unique violation. When
// constraintName is provided the violated constraint must match as well.
func IsUniqueViolation(err error, constraintName string) bool {
	code, constraint, _, _ := pkgerrors.PostgresFields(err)
	if code != pgUniqueViolation {
		return false
	}
	return constraintName == "" || constraint == constraintName
}

// IsResourceExhausted reports whether the database refused a write because a
// row or value exceeded a storage limit.
func IsResourceExhausted(err error) bool {
	code, _, _, _ := pkgerrors.PostgresFields(err)
	switch code {
	case pgStringDataTruncation, pgProgramLimitExceeded, pgInsufficientResources:
		return true
	}
	return false
}
