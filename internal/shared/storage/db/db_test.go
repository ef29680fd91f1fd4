package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// withMockDB routes Connect to a sqlmock database that expects one ping.
func withMockDB(t *testing.T, pingErr error) sqlmock.Sqlmock {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	mock.ExpectPing().WillReturnError(pingErr)

	var gotDSN string
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		if name != driverName {
			t.Errorf("expected driver %q, got %q", driverName, name)
		}
		gotDSN = dsn
		return mockDB, nil
	}
	t.Cleanup(func() {
		openDB = prev
		if gotDSN == "" {
			t.Errorf("openDB was never called")
		}
	})
	return mock
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	mock := withMockDB(t, nil)

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")
	t.Setenv("DB_APPLICATION_NAME", "brainplan-test")

	opts := OptionsFromEnv(DefaultServerOptions())
	db, err := Connect(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
	want := Options{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: 20 * time.Minute,
		ConnMaxIdleTime: 45 * time.Second,
		PingTimeout:     time.Second,
		ApplicationName: "brainplan-test",
	}
	if opts != want {
		t.Fatalf("expected %+v, got %+v", want, opts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected ping: %v", err)
	}
}

func TestConnectClosesOnPingFailure(t *testing.T) {
	mock := withMockDB(t, errors.New("connection refused"))
	mock.ExpectClose()

	if _, err := Connect(context.Background(), "postgres://db/brainplan", DefaultServerOptions()); err == nil {
		t.Fatal("expected ping failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected ping then close: %v", err)
	}
}

func TestOptionsFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("DB_PING_TIMEOUT", "soon")

	opts := OptionsFromEnv(DefaultMigrateOptions())
	if opts != DefaultMigrateOptions() {
		t.Fatalf("expected defaults, got %+v", opts)
	}
}

func TestWithApplicationName(t *testing.T) {
	cases := []struct {
		name, dsn, want string
	}{
		{"url", "postgres://u:p@db:5432/brainplan?sslmode=disable", "postgres://u:p@db:5432/brainplan?application_name=brainplan-api&sslmode=disable"},
		{"url keeps explicit name", "postgres://db/brainplan?application_name=custom", "postgres://db/brainplan?application_name=custom"},
		{"keyword value", "host=db dbname=brainplan", "host=db dbname=brainplan application_name=brainplan-api"},
		{"opaque", "ignored", "ignored"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := withApplicationName(tc.dsn, "brainplan-api")
			if err != nil {
				t.Fatalf("withApplicationName: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", DefaultServerOptions()); err == nil {
		t.Fatal("expected empty DATABASE_URL error")
	}
}

func TestConnectSurfacesOpenFailure(t *testing.T) {
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return nil, driver.ErrBadConn
	}
	defer func() {
		openDB = prev
	}()

	if _, err := Connect(context.Background(), "postgres://ignored", DefaultMigrateOptions()); err == nil {
		t.Fatal("expected open failure")
	}
}

func TestRunMigrationsNilDatabaseIsNoop(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
