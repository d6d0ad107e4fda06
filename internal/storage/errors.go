package storage

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrEmptyName is returned when an operation is given an empty name.
var ErrEmptyName = errors.New("name must not be empty")

// ConnectionError is returned when the database file cannot be opened.
// The CLI treats it as fatal.
type ConnectionError struct {
	Path string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to database %s: %v", e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// DuplicateNameError is returned when a write would store a name that
// already exists.
type DuplicateNameError struct {
	Name string
	Err  error
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name %q already exists", e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return e.Err }

// StorageError wraps any other database failure with the operation that
// produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsDuplicate reports whether err is (or wraps) a DuplicateNameError.
func IsDuplicate(err error) bool {
	var dup *DuplicateNameError
	return errors.As(err, &dup)
}

// isUniqueViolation reports whether err came from the UNIQUE constraint on
// names.name.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		if code&0xff == sqlite3.SQLITE_CONSTRAINT {
			return strings.Contains(se.Error(), "UNIQUE")
		}
		return false
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// wrapStorage tags err with op unless it already carries a classification.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		se  *StorageError
		dup *DuplicateNameError
		ce  *ConnectionError
	)
	if errors.As(err, &se) || errors.As(err, &dup) || errors.As(err, &ce) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
