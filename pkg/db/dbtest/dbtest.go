// Package dbtest opens throwaway SQLite databases carrying the Pawprint schema.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/pawprint/pkg/db"
)

// Schema mirrors the goose migrations using SQLite column types.
var Schema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT,
		profile_picture_url TEXT NOT NULL,
		location TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_username_key UNIQUE (username)
	)`,
	`CREATE TABLE organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		postcode TEXT NOT NULL,
		country TEXT NOT NULL,
		url TEXT NOT NULL,
		image_url TEXT
	)`,
	`CREATE TABLE pets (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		species TEXT NOT NULL,
		breed TEXT NOT NULL,
		color TEXT NOT NULL,
		age TEXT NOT NULL,
		gender TEXT NOT NULL,
		size TEXT NOT NULL,
		status TEXT NOT NULL,
		description TEXT,
		image_url TEXT,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE bookmarks (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		pet_id INTEGER NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, pet_id)
	)`,
	`CREATE TABLE follows (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, organization_id)
	)`,
}

// Open returns a GORM handle on a private in-memory database with the schema applied.
// The pool is pinned to a single connection so the foreign key pragma sticks.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range Schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return conn
}

// Client wraps Open in the shared db.Client.
func Client(t testing.TB) *db.Client {
	t.Helper()
	return db.Wrap(Open(t))
}

// Count returns the row count for a table, failing the test on error.
func Count(t testing.TB, conn *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := conn.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
