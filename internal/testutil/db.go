// Package testutil provides sqlite-backed fixtures for repository and
// use case tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/coursekit/coursekit/internal/infrastructure/driver"
	"github.com/coursekit/coursekit/internal/infrastructure/uuid"
)

var schema = []string{
	`CREATE TABLE "user" (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		login_retry INTEGER NOT NULL DEFAULT 0,
		last_login INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE lesson (
		id TEXT PRIMARY KEY,
		"name" TEXT NOT NULL,
		video_url TEXT NOT NULL,
		duration INTEGER NOT NULL
	)`,
	`CREATE TABLE product (
		id TEXT PRIMARY KEY,
		"name" TEXT NOT NULL,
		owner_id TEXT NOT NULL REFERENCES "user"(id)
	)`,
	`CREATE TABLE product_lesson (
		product_id TEXT NOT NULL REFERENCES product(id),
		lesson_id TEXT NOT NULL REFERENCES lesson(id),
		PRIMARY KEY (product_id, lesson_id)
	)`,
	`CREATE TABLE product_access (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES "user"(id),
		product_id TEXT NOT NULL REFERENCES product(id),
		created_at INTEGER NOT NULL,
		UNIQUE (user_id, product_id)
	)`,
	`CREATE TABLE lesson_progress (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES "user"(id),
		lesson_id TEXT NOT NULL REFERENCES lesson(id),
		time_watched INTEGER NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		UNIQUE (user_id, lesson_id)
	)`,
}

var dbSeq int64

// NewTestDB create a fresh in-memory sqlite database with the full schema
// applied. Each call gets its own database so tests stay isolated even when
// run in parallel. The connection is closed on test cleanup.
func NewTestDB(t *testing.T) driver.ITransactionalDB {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	conn, err := driver.NewSQLiteConn(dsn, &driver.DBConfig{MaxConn: 1})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		conn.Close(ctx)
	})

	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
	}
	return conn
}

// NewIDGenerator nanoid generator with the default production length
func NewIDGenerator() *uuid.NanoIDGenerator {
	return uuid.NewNanoIDGenerator(24)
}
