package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/matsen/names/internal/storage"
	"go.uber.org/zap"
)

// TestErrorName is the record inserted (and rolled back) by --test-error.
const TestErrorName = "TestErrorName"

// errForcedRollback is raised inside the --test-error scope.
var errForcedRollback = errors.New("forced error for rollback test")

// nameRepository is the part of *storage.Names the dispatcher drives.
type nameRepository interface {
	Initialize(ctx context.Context) error
	Reset(ctx context.Context) error
	Add(ctx context.Context, name string) (storage.Record, error)
	Rename(ctx context.Context, oldName, newName string) (storage.RenameOutcome, error)
	Delete(ctx context.Context, name string) (bool, error)
	All(ctx context.Context) iter.Seq2[string, error]
	List(ctx context.Context) ([]string, error)
	InjectFault(ctx context.Context, name string, fault error) error
}

var _ nameRepository = (*storage.Names)(nil)

// dispatcher runs one action against the repository and prints the outcome.
type dispatcher struct {
	names  nameRepository
	out    io.Writer
	prompt *prompter
	logger *zap.Logger
	json   bool
}

// report prints err for the user and swallows it, except for connection
// failures which end the process.
func (d *dispatcher) report(err error) error {
	var connErr *storage.ConnectionError
	if errors.As(err, &connErr) {
		return err
	}

	d.logger.Debug("operation failed", zap.Error(err))
	if errors.Is(err, storage.ErrEmptyName) {
		outputHuman(d.out, "Invalid name: %v.", err)
		return nil
	}
	outputHuman(d.out, "Database error: %v", err)
	return nil
}

func (d *dispatcher) reset(ctx context.Context) error {
	ok, err := d.prompt.confirm("Really reset the database? All names will be deleted. (y/n): ")
	if err != nil {
		return d.report(err)
	}
	if !ok {
		outputHuman(d.out, "Database reset cancelled.")
		return nil
	}

	if err := d.names.Reset(ctx); err != nil {
		return d.report(err)
	}
	outputHuman(d.out, "Database has been reset.")
	return nil
}

// add inserts name, asking for a replacement each time it turns out to be
// a duplicate. An empty answer or end of input cancels.
func (d *dispatcher) add(ctx context.Context, name string) error {
	current := name
	for {
		_, err := d.names.Add(ctx, current)
		if err == nil {
			outputHuman(d.out, "'%s' has been saved to the database.", current)
			return nil
		}
		if !storage.IsDuplicate(err) {
			return d.report(err)
		}
		outputHuman(d.out, "'%s' already exists in the database.", current)

		answer, err := d.prompt.ask(fmt.Sprintf("'%s' already exists. Enter a different name (press Enter to cancel): ", current))
		if errors.Is(err, io.EOF) {
			outputHuman(d.out, "\nInput aborted.")
			return nil
		}
		if err != nil {
			return d.report(err)
		}
		if answer == "" {
			outputHuman(d.out, "Adding the name was cancelled.")
			return nil
		}
		current = answer
	}
}

func (d *dispatcher) rename(ctx context.Context, oldName, newName string) error {
	outcome, err := d.names.Rename(ctx, oldName, newName)
	if err != nil {
		if storage.IsDuplicate(err) {
			outputHuman(d.out, "'%s' already exists in the database.", newName)
			return nil
		}
		return d.report(err)
	}

	switch outcome {
	case storage.RenameSame:
		outputHuman(d.out, "The old and new names are identical.")
	case storage.Renamed:
		outputHuman(d.out, "Renamed '%s' to '%s'.", oldName, newName)
	case storage.RenameNotFound:
		outputHuman(d.out, "'%s' not found.", oldName)
	case storage.RenameNoRowsAffected:
		outputHuman(d.out, "Found '%s' but it was not changed (possible concurrent modification).", oldName)
	}
	return nil
}

func (d *dispatcher) remove(ctx context.Context, name string) error {
	deleted, err := d.names.Delete(ctx, name)
	if err != nil {
		return d.report(err)
	}
	if deleted {
		outputHuman(d.out, "Deleted '%s'.", name)
	} else {
		outputHuman(d.out, "'%s' not found.", name)
	}
	return nil
}

func (d *dispatcher) list(ctx context.Context) error {
	if d.json {
		names, err := d.names.List(ctx)
		if err != nil {
			return d.report(err)
		}
		return outputJSON(d.out, ListResponse{Names: names, Count: len(names)})
	}

	outputHuman(d.out, "\n--- Stored names ---")
	count := 0
	for name, err := range d.names.All(ctx) {
		if err != nil {
			return d.report(err)
		}
		count++
		outputHuman(d.out, "%d. %s", count, name)
	}
	if count == 0 {
		outputHuman(d.out, "No names stored.")
	}
	return nil
}

// testError inserts TestErrorName and fails inside the same scope so the
// rollback path runs end to end.
func (d *dispatcher) testError(ctx context.Context) error {
	outputHuman(d.out, "--- Rollback test start ---")
	outputHuman(d.out, "Inserting a temporary record (it will be rolled back).")

	err := d.names.InjectFault(ctx, TestErrorName, errForcedRollback)
	var connErr *storage.ConnectionError
	switch {
	case errors.Is(err, errForcedRollback):
		outputHuman(d.out, "Caught expected error: %v", err)
	case errors.As(err, &connErr):
		return err
	case err != nil:
		outputHuman(d.out, "Database error: %v", err)
	}

	outputHuman(d.out, "--- Rollback test end ---")
	return nil
}
