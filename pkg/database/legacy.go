package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrateLegacyCodeWord upgrades databases created before the code word
// rename. Older deployments stored the value in a lottery_number column;
// this copies it into code_word and leaves the old column in place so a
// rollback still finds its data. Safe to run on every startup.
func MigrateLegacyCodeWord(ctx context.Context, pool *pgxpool.Pool) error {
	var hasLegacy bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'participants' AND column_name = 'lottery_number'
		)`).Scan(&hasLegacy)
	if err != nil {
		return fmt.Errorf("failed to inspect participants schema: %w", err)
	}
	if !hasLegacy {
		return nil
	}

	// The legacy schema predates the rename, so the table exists without
	// code_word and the CREATE TABLE IF NOT EXISTS migration skipped it.
	_, err = pool.Exec(ctx, `ALTER TABLE participants ADD COLUMN IF NOT EXISTS code_word TEXT`)
	if err != nil {
		return fmt.Errorf("failed to add code_word column: %w", err)
	}

	_, err = pool.Exec(ctx, `
		UPDATE participants
		SET code_word = lottery_number
		WHERE code_word IS NULL AND lottery_number IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("failed to backfill code_word from lottery_number: %w", err)
	}
	return nil
}
