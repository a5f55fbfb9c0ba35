package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newBufferedLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: buf, Format: logger.FormatJSON})
}

func TestQueryLoggerReportsFailuresAndSlowQueries(t *testing.T) {
	buf := &bytes.Buffer{}
	ql := newQueryLogger(newBufferedLogger(buf), 10*time.Millisecond)
	stmt := func() (string, int64) { return "SELECT 1", 1 }

	ql.Trace(context.Background(), time.Now(), stmt, nil)
	if buf.Len() != 0 {
		t.Fatalf("fast successful query should not be logged: %s", buf.String())
	}

	ql.Trace(context.Background(), time.Now().Add(-time.Second), stmt, nil)
	if !strings.Contains(buf.String(), "slow query") {
		t.Fatalf("expected slow query entry: %s", buf.String())
	}

	buf.Reset()
	ql.Trace(context.Background(), time.Now(), stmt, errors.New("disk I/O error"))
	if !strings.Contains(buf.String(), "query failed") || !strings.Contains(buf.String(), "SELECT 1") {
		t.Fatalf("expected failed query entry: %s", buf.String())
	}
}

func TestQueryLoggerIgnoresNotFoundAndSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	ql := newQueryLogger(newBufferedLogger(buf), time.Millisecond)
	stmt := func() (string, int64) { return "SELECT * FROM catering_requests", 0 }

	ql.Trace(context.Background(), time.Now(), stmt, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("record not found should be quiet: %s", buf.String())
	}

	silent := ql.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now().Add(-time.Second), stmt, errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("silent mode should not log: %s", buf.String())
	}
}

func TestQueryLoggerWithoutLoggerDiscards(t *testing.T) {
	if newQueryLogger(nil, time.Second) != gormlogger.Discard {
		t.Fatal("expected discard logger when no service logger is set")
	}
}
