package migration

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// guardFactories maps a directive keyword to a constructor taking its arguments.
var guardFactories = map[string]struct {
	args int
	make func(args []string) Guard
}{
	"column-missing": {args: 2, make: func(a []string) Guard { return ColumnMissing(a[0], a[1]) }},
	"table-missing":  {args: 1, make: func(a []string) Guard { return TableMissing(a[0]) }},
}

// ColumnMissing reports true while table has no column named column.
func ColumnMissing(table, column string) Guard {
	return func(ctx context.Context, tx *sql.Tx) (bool, error) {
		var count int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&count)
		if err != nil {
			return false, fmt.Errorf("inspect %s.%s: %w", table, column, err)
		}
		return count == 0, nil
	}
}

// TableMissing reports true while no table named table exists.
func TableMissing(table string) Guard {
	return func(ctx context.Context, tx *sql.Tx) (bool, error) {
		var count int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
		if err != nil {
			return false, fmt.Errorf("inspect table %s: %w", table, err)
		}
		return count == 0, nil
	}
}

// parseGuards collects the guard directives of a migration file.
func parseGuards(content string) ([]Guard, error) {
	var guards []Guard
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		rest, ok := strings.CutPrefix(line, GuardDirective)
		if !ok {
			continue
		}

		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty guard directive")
		}
		factory, ok := guardFactories[fields[0]]
		if !ok {
			return nil, fmt.Errorf("unknown guard %q", fields[0])
		}
		if len(fields)-1 != factory.args {
			return nil, fmt.Errorf("guard %q takes %d argument(s), got %d", fields[0], factory.args, len(fields)-1)
		}
		guards = append(guards, factory.make(fields[1:]))
	}
	return guards, scanner.Err()
}

// guardsPass reports whether a migration should execute: always when it has
// no guards, otherwise when at least one guard still sees work to do.
func guardsPass(ctx context.Context, tx *sql.Tx, guards []Guard) (bool, error) {
	if len(guards) == 0 {
		return true, nil
	}
	for _, g := range guards {
		needed, err := g(ctx, tx)
		if err != nil {
			return false, err
		}
		if needed {
			return true, nil
		}
	}
	return false, nil
}
