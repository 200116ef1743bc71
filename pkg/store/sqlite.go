package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/triet4p/itapia-sub001/pkg/errors"
	"github.com/triet4p/itapia-sub001/pkg/logging"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

// SQLiteStore persists rules in a SQLite database. Rules are stored in
// their structural entity form, so anything loaded back has been through
// full tree re-validation. Safe for concurrent use.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	initialized sync.Once
}

// NewSQLiteStore opens (or creates) the database at path. Use ":memory:"
// for an in-memory store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.StoreOperationFailed, "failed to open SQLite database"),
			errors.Fields{"path": path},
		)
	}

	store := &SQLiteStore{
		db:   db,
		path: path,
	}
	if err := store.ensureInitialized(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureInitialized() error {
	var initErr error
	s.initialized.Do(func() {
		// Enable WAL mode for better concurrency
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			initErr = errors.Wrap(err, errors.StoreOperationFailed, "failed to enable WAL mode")
			return
		}

		query := `
        CREATE TABLE IF NOT EXISTS rules (
            rule_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            status TEXT NOT NULL,
            purpose TEXT NOT NULL,
            entity TEXT NOT NULL,
            created_at INTEGER NOT NULL,
            updated_at INTEGER NOT NULL
        );

        CREATE INDEX IF NOT EXISTS idx_rules_status ON rules(status);
        CREATE INDEX IF NOT EXISTS idx_rules_purpose ON rules(purpose);
        `

		if _, err := s.db.Exec(query); err != nil {
			initErr = errors.Wrap(err, errors.StoreOperationFailed, "failed to initialize rules table")
			return
		}
	})
	return initErr
}

// Save upserts a rule. The stored row mirrors the entity's metadata columns
// so status and purpose can be filtered without decoding trees.
func (s *SQLiteStore) Save(ctx context.Context, rule *rules.Rule) error {
	if rule == nil {
		return errors.New(errors.InvalidInput, "cannot save a nil rule")
	}
	if err := s.ensureInitialized(); err != nil {
		return err
	}

	entity := rule.ToEntity()
	payload, err := json.Marshal(entity)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to marshal rule entity"),
			errors.Fields{"rule_id": rule.RuleID},
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.StoreOperationFailed, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logging.GetLogger().Error(ctx, "failed to rollback transaction: %v", err)
		}
	}()

	query := `
    INSERT INTO rules (rule_id, name, status, purpose, entity, created_at, updated_at)
    VALUES (?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(rule_id) DO UPDATE SET
        name = excluded.name,
        status = excluded.status,
        purpose = excluded.purpose,
        entity = excluded.entity,
        updated_at = excluded.updated_at;
    `
	if _, err := tx.ExecContext(ctx, query,
		entity.RuleID, entity.Name, entity.Status, entity.Purpose,
		string(payload), entity.CreatedAt, entity.UpdatedAt,
	); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.StoreOperationFailed, "failed to save rule"),
			errors.Fields{"rule_id": rule.RuleID},
		)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.StoreOperationFailed, "failed to commit transaction")
	}
	return nil
}

// Get loads one rule by identifier.
func (s *SQLiteStore) Get(ctx context.Context, ruleID string) (*rules.Rule, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT entity FROM rules WHERE rule_id = ?", ruleID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "rule not found"),
			errors.Fields{"rule_id": ruleID},
		)
	}
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.StoreOperationFailed, "failed to query rule"),
			errors.Fields{"rule_id": ruleID},
		)
	}

	return decodeRule(payload)
}

// ListByStatus loads every rule in the given lifecycle state, ordered by
// creation time.
func (s *SQLiteStore) ListByStatus(ctx context.Context, status rules.RuleStatus) ([]*rules.Rule, error) {
	return s.list(ctx,
		"SELECT entity FROM rules WHERE status = ? ORDER BY created_at, rule_id", string(status))
}

// ListByPurpose loads every rule whose root produces the given semantic
// type, ordered by creation time.
func (s *SQLiteStore) ListByPurpose(ctx context.Context, purpose rules.SemanticType) ([]*rules.Rule, error) {
	return s.list(ctx,
		"SELECT entity FROM rules WHERE purpose = ? ORDER BY created_at, rule_id", string(purpose))
}

// List loads every stored rule, ordered by creation time.
func (s *SQLiteStore) List(ctx context.Context) ([]*rules.Rule, error) {
	return s.list(ctx, "SELECT entity FROM rules ORDER BY created_at, rule_id")
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...interface{}) ([]*rules.Rule, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.StoreOperationFailed, "failed to query rules")
	}
	defer rows.Close()

	var out []*rules.Rule
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, errors.StoreOperationFailed, "failed to scan rule row")
		}
		rule, err := decodeRule(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.StoreOperationFailed, "failed to iterate rule rows")
	}
	return out, nil
}

// Delete removes a rule. Deleting an absent rule is a ResourceNotFound
// error so callers can tell a no-op from a cleanup.
func (s *SQLiteStore) Delete(ctx context.Context, ruleID string) error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE rule_id = ?", ruleID)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.StoreOperationFailed, "failed to delete rule"),
			errors.Fields{"rule_id": ruleID},
		)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.StoreOperationFailed, "failed to read delete result")
	}
	if affected == 0 {
		return errors.WithFields(
			errors.New(errors.ResourceNotFound, "rule not found"),
			errors.Fields{"rule_id": ruleID},
		)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, errors.StoreOperationFailed, "failed to close database")
	}
	return nil
}

func decodeRule(payload string) (*rules.Rule, error) {
	var entity rules.RuleEntity
	if err := json.Unmarshal([]byte(payload), &entity); err != nil {
		return nil, errors.Wrap(err, errors.StoreOperationFailed, "failed to decode stored rule entity")
	}
	return rules.FromEntity(entity)
}
