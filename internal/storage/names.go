package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const namesTable = "names"

const namesSchema = `
	CREATE TABLE IF NOT EXISTS names (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);
`

// Record is one stored name.
type Record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RenameOutcome describes what Rename did.
type RenameOutcome int

const (
	// Renamed means the record now carries the new name.
	Renamed RenameOutcome = iota
	// RenameSame means old and new were identical; the store was not touched.
	RenameSame
	// RenameNotFound means no record had the old name.
	RenameNotFound
	// RenameNoRowsAffected means the old name was found but the update
	// changed nothing, which points at a concurrent writer. The lookup and
	// update share one transaction, so a single process never produces it.
	RenameNoRowsAffected
)

func (o RenameOutcome) String() string {
	switch o {
	case Renamed:
		return "renamed"
	case RenameSame:
		return "same"
	case RenameNotFound:
		return "not_found"
	case RenameNoRowsAffected:
		return "no_rows_affected"
	default:
		return fmt.Sprintf("RenameOutcome(%d)", int(o))
	}
}

// Names is the repository for the names table.
type Names struct {
	store *Store
}

// NewNames returns a repository backed by store.
func NewNames(store *Store) *Names {
	return &Names{store: store}
}

// Initialize creates the names table if it does not exist. Existing rows
// are left alone.
func (n *Names) Initialize(ctx context.Context) error {
	err := n.store.Scope(ctx, func(q Querier) error {
		if _, err := q.ExecContext(ctx, namesSchema); err != nil {
			return &StorageError{Op: "creating names table", Err: err}
		}
		return nil
	})
	return wrapStorage("initializing database", err)
}

// Reset drops the names table and recreates it empty.
// Callers are expected to have confirmed with the user first.
func (n *Names) Reset(ctx context.Context) error {
	err := n.store.Scope(ctx, func(q Querier) error {
		if _, err := q.ExecContext(ctx, "DROP TABLE IF EXISTS "+namesTable); err != nil {
			return &StorageError{Op: "dropping names table", Err: err}
		}
		if _, err := q.ExecContext(ctx, namesSchema); err != nil {
			return &StorageError{Op: "creating names table", Err: err}
		}
		return nil
	})
	return wrapStorage("resetting database", err)
}

// Add inserts name. Duplicates are detected by the UNIQUE constraint and
// reported as *DuplicateNameError.
func (n *Names) Add(ctx context.Context, name string) (Record, error) {
	if name == "" {
		return Record{}, ErrEmptyName
	}

	var rec Record
	err := n.store.Scope(ctx, func(q Querier) error {
		query, args, err := psql.Insert(namesTable).Columns("name").Values(name).ToSql()
		if err != nil {
			return fmt.Errorf("building insert: %w", err)
		}

		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return &DuplicateNameError{Name: name, Err: err}
			}
			return &StorageError{Op: "inserting name", Err: err}
		}

		id, err := res.LastInsertId()
		if err != nil {
			return &StorageError{Op: "reading inserted id", Err: err}
		}
		rec = Record{ID: id, Name: name}
		return nil
	})
	if err != nil {
		return Record{}, wrapStorage("adding name", err)
	}
	return rec, nil
}

// Rename changes oldName to newName.
func (n *Names) Rename(ctx context.Context, oldName, newName string) (RenameOutcome, error) {
	if oldName == newName {
		return RenameSame, nil
	}
	if newName == "" {
		return RenameNotFound, ErrEmptyName
	}

	outcome := RenameNotFound
	err := n.store.Scope(ctx, func(q Querier) error {
		query, args, err := psql.Select("id").From(namesTable).Where(sq.Eq{"name": oldName}).Limit(1).ToSql()
		if err != nil {
			return fmt.Errorf("building lookup: %w", err)
		}

		var id int64
		err = q.QueryRowContext(ctx, query, args...).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return &StorageError{Op: "looking up name", Err: err}
		}

		query, args, err = psql.Update(namesTable).Set("name", newName).Where(sq.Eq{"name": oldName}).ToSql()
		if err != nil {
			return fmt.Errorf("building update: %w", err)
		}

		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return &DuplicateNameError{Name: newName, Err: err}
			}
			return &StorageError{Op: "updating name", Err: err}
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return &StorageError{Op: "reading affected rows", Err: err}
		}
		if affected > 0 {
			outcome = Renamed
		} else {
			outcome = RenameNoRowsAffected
		}
		return nil
	})
	if err != nil {
		return RenameNotFound, wrapStorage("renaming name", err)
	}
	return outcome, nil
}

// Delete removes name. It reports false, not an error, when no record
// matched.
func (n *Names) Delete(ctx context.Context, name string) (bool, error) {
	var deleted bool
	err := n.store.Scope(ctx, func(q Querier) error {
		query, args, err := psql.Delete(namesTable).Where(sq.Eq{"name": name}).ToSql()
		if err != nil {
			return fmt.Errorf("building delete: %w", err)
		}

		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return &StorageError{Op: "deleting name", Err: err}
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return &StorageError{Op: "reading affected rows", Err: err}
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, wrapStorage("deleting name", err)
	}
	return deleted, nil
}

// All returns the stored names in ascending order. Each range over the
// sequence opens a fresh scope, so it can be iterated again to observe
// the current contents. A failure is yielded once as the final element.
func (n *Names) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := n.store.Scope(ctx, func(q Querier) error {
			query, args, err := psql.Select("name").From(namesTable).OrderBy("name").ToSql()
			if err != nil {
				return fmt.Errorf("building select: %w", err)
			}

			rows, err := q.QueryContext(ctx, query, args...)
			if err != nil {
				return &StorageError{Op: "querying names", Err: err}
			}
			defer rows.Close()

			for rows.Next() {
				var name string
				if err := rows.Scan(&name); err != nil {
					return &StorageError{Op: "scanning name", Err: err}
				}
				if !yield(name, nil) {
					stopped = true
					return nil
				}
			}
			if err := rows.Err(); err != nil {
				return &StorageError{Op: "iterating names", Err: err}
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", wrapStorage("listing names", err))
		}
	}
}

// List collects All into a slice. An empty table yields an empty,
// non-nil slice.
func (n *Names) List(ctx context.Context) ([]string, error) {
	names := []string{}
	for name, err := range n.All(ctx) {
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Count returns the number of stored names.
func (n *Names) Count(ctx context.Context) (int, error) {
	var count int
	err := n.store.Scope(ctx, func(q Querier) error {
		query, args, err := psql.Select("COUNT(*)").From(namesTable).ToSql()
		if err != nil {
			return fmt.Errorf("building count: %w", err)
		}
		if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			return &StorageError{Op: "counting names", Err: err}
		}
		return nil
	})
	if err != nil {
		return 0, wrapStorage("counting names", err)
	}
	return count, nil
}

// InjectFault inserts name and then fails with fault inside the same
// scope, so the insert must be rolled back. It returns fault (or whatever
// error the insert itself produced).
func (n *Names) InjectFault(ctx context.Context, name string, fault error) error {
	return n.store.Scope(ctx, func(q Querier) error {
		query, args, err := psql.Insert(namesTable).Columns("name").Values(name).ToSql()
		if err != nil {
			return fmt.Errorf("building insert: %w", err)
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return &DuplicateNameError{Name: name, Err: err}
			}
			return &StorageError{Op: "inserting name", Err: err}
		}
		return fault
	})
}
