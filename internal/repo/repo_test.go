package repo

import (
	"DreamInterpreter/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует отдельную in-memory SQLite (modernc.org/sqlite) для каждого теста
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := SQLiteDSN("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// stepClock подменяет часы репозитория: каждый вызов на секунду позже предыдущего
func stepClock(t *testing.T) {
	t.Helper()
	prev := nowUTC
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	nowUTC = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	t.Cleanup(func() { nowUTC = prev })
}

func TestSQLiteDSN(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "dreams.db", want: "file:dreams.db?_pragma=foreign_keys(1)"},
		{in: "file:x.db?cache=shared", want: "file:x.db?cache=shared&_pragma=foreign_keys(1)"},
		{in: "file:y?_pragma=foreign_keys(1)", want: "file:y?_pragma=foreign_keys(1)"},
	}
	for _, c := range cases {
		if got := SQLiteDSN(c.in); got != c.want {
			t.Fatalf("SQLiteDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsPostgresDSN(t *testing.T) {
	if !isPostgresDSN("postgres://u:p@localhost:5432/dreams") {
		t.Fatal("postgres url must be detected")
	}
	if !isPostgresDSN("host=localhost user=u dbname=dreams") {
		t.Fatal("key/value dsn must be detected")
	}
	if isPostgresDSN("dreams.db") {
		t.Fatal("sqlite path must not be detected as postgres")
	}
}

func TestInitDB_GormLogsGoThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := InitDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", zap.New(core))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	ctx := context.Background()
	logs.TakeAll() // миграции

	_, err = NewUserRepository(db).GetUserByUsername(ctx, "nobody")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if n := logs.Len(); n != 0 {
		t.Fatalf("record not found must not be logged, got %d entries", n)
	}

	if err := NewDreamRepository(db).Create(ctx, &model.Dream{UserID: 999, DreamDescription: "orphan"}); err == nil {
		t.Fatal("expected foreign key error")
	}
	if logs.FilterLoggerName("gorm").Len() == 0 {
		t.Fatal("query errors must be logged through zap")
	}
}
