package sqlite

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/habitflow/internal/errors"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/validation"
)

// GetSetting returns the stored value for key, or def when it was never set
func (s *Store) GetSetting(ctx context.Context, key, def string) (string, error) {
	if err := validation.SettingKey(key); err != nil {
		return "", err
	}

	var value sql.NullString
	err := s.getOne(ctx, "get setting", &value, sq.Select("value").From("settings").Where(sq.Eq{"key": key}))
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	if !value.Valid {
		return def, nil
	}
	return value.String, nil
}

// SetSetting upserts key; the last write wins
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if err := validation.SettingKey(key); err != nil {
		return err
	}

	err := s.withTx(ctx, "set setting", func(tx *sqlx.Tx) error {
		_, err := execTx(ctx, tx, sq.Insert("settings").
			Columns("key", "value").
			Values(key, value).
			Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value"))
		return err
	})
	if err != nil {
		return err
	}

	logger.Debug("Saved setting", "key", key)
	return nil
}
