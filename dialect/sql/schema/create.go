// Package schema applies a resolved schema to a database: the bootstrap
// path that creates every table in dependency order. It only ever issues
// forward CREATE statements; diffing a live database is out of scope.
package schema

import (
	"context"
	"fmt"

	"github.com/syssam/mosaic/compiler/resolve"
	"github.com/syssam/mosaic/dialect/sql"
)

// Create creates every table of the snapshot, in dependency order, inside
// one transaction. Statements are IF NOT EXISTS, so running Create against
// an already bootstrapped database is a no-op.
func Create(ctx context.Context, drv *sql.Driver, snap *resolve.Snapshot) error {
	tx, err := drv.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("schema: begin: %w", err)
	}
	for _, t := range snap.TablesInOrder() {
		stmts, err := sql.TableDDL(drv.Dialect(), t)
		if err != nil {
			tx.Rollback()
			return err
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("schema: create %s: %w", t.TableName, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("schema: commit: %w", err)
	}
	return nil
}
