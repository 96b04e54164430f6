package db

import (
	"testing"

	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

func TestPostgresDSN(t *testing.T) {
	cfg := Config{User: "u", Password: "p", Host: "h", Port: "5432", Name: "mathstep"}
	want := "postgres://u:p@h:5432/mathstep?sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Fatalf("dsn: got=%q want=%q", got, want)
	}
}

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", SQLitePath: "file::memory:"}, logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer Close(db)
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil || one != 1 {
		t.Fatalf("select 1: got=%d err=%v", one, err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "mysql"}, logger.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
