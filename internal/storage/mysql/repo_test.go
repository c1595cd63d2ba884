package mysql_test

import (
	"testing"

	"github.com/go-sql-driver/mysql"

	mysqlrepo "nutricheck/internal/storage/mysql"
)

func TestDSN_ForcesParseTime(t *testing.T) {
	for _, raw := range []string{
		"root:pw@tcp(127.0.0.1:3306)/nutricheck",
		"root:pw@tcp(127.0.0.1:3306)/nutricheck?parseTime=false&charset=utf8mb4",
	} {
		dsn, err := mysqlrepo.DSN(raw)
		if err != nil {
			t.Fatalf("DSN(%q): %v", raw, err)
		}
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			t.Fatalf("reparse %q: %v", dsn, err)
		}
		if !cfg.ParseTime || cfg.DBName != "nutricheck" || cfg.Addr != "127.0.0.1:3306" {
			t.Fatalf("unexpected config from %q: %+v", raw, cfg)
		}
	}
}

func TestDSN_Invalid(t *testing.T) {
	if _, err := mysqlrepo.DSN("not a dsn"); err == nil {
		t.Fatal("expected an error")
	}
}
