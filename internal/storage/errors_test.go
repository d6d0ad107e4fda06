package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("disk I/O error"), false},
		{"message", errors.New("constraint failed: UNIQUE constraint failed: names.name (2067)"), true},
		{"wrapped message", fmt.Errorf("insert: %w", errors.New("UNIQUE constraint failed: names.name")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestWrapStorage(t *testing.T) {
	assert.NoError(t, wrapStorage("op", nil))

	base := errors.New("boom")
	wrapped := wrapStorage("adding name", base)
	var storageErr *StorageError
	assert.ErrorAs(t, wrapped, &storageErr)
	assert.Equal(t, "adding name", storageErr.Op)
	assert.ErrorIs(t, wrapped, base)
	assert.EqualError(t, wrapped, "adding name: boom")

	dup := &DuplicateNameError{Name: "Alice"}
	assert.Same(t, dup, wrapStorage("adding name", dup))

	conn := &ConnectionError{Path: "x.db", Err: base}
	assert.Same(t, conn, wrapStorage("adding name", conn))
}

func TestErrorMessages(t *testing.T) {
	assert.EqualError(t, &DuplicateNameError{Name: "Alice"}, `name "Alice" already exists`)
	assert.EqualError(t, &ConnectionError{Path: "x.db", Err: errors.New("nope")}, "connecting to database x.db: nope")
}
