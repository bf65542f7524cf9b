package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'MEMBER',
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		balance NUMERIC NOT NULL DEFAULT 0,
		credit_limit NUMERIC NOT NULL DEFAULT 0,
		trust_score REAL NOT NULL DEFAULT 0.5,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createTransactionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transactions (
		id TEXT PRIMARY KEY,
		from_user_id TEXT,
		to_user_id TEXT,
		amount NUMERIC NOT NULL,
		type TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		gift_card_id TEXT,
		created_at DATETIME
	);`)
}

func createTrustRatingTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE trust_ratings (
		id TEXT PRIMARY KEY,
		rater_id TEXT NOT NULL,
		rated_id TEXT NOT NULL,
		transaction_id TEXT,
		rating INTEGER NOT NULL,
		communication INTEGER,
		delivery INTEGER,
		quality INTEGER,
		comments TEXT,
		created_at DATETIME,
		UNIQUE(rater_id, rated_id, transaction_id)
	);`)
}

func createGiftCardTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE gift_cards (
		id TEXT PRIMARY KEY,
		issuer_id TEXT NOT NULL,
		invited_name TEXT NOT NULL,
		invited_email TEXT NOT NULL,
		units_amount NUMERIC NOT NULL,
		suggestions TEXT,
		token TEXT UNIQUE NOT NULL,
		status TEXT NOT NULL,
		template_ref TEXT,
		redeemed_by_id TEXT,
		redeemed_at DATETIME,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPromoTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE promo_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		gift_card_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME
	);`)
}

func createOutboxTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE outbox_events (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		sent_at DATETIME
	);`)
}

func createLedgerTables(t *testing.T, db *gorm.DB) {
	createUserTable(t, db)
	createWalletTable(t, db)
	createTransactionTable(t, db)
	createTrustRatingTable(t, db)
	createGiftCardTable(t, db)
	createPromoTokenTable(t, db)
	createOutboxTable(t, db)
}
