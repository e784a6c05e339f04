package database

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is go-sqlite3 with LOWER replaced by a Unicode-aware
// version. The built-in one folds ASCII only.
const sqliteDriverName = "sqlite3_unicode"

var registerSQLiteDriver sync.Once

// SQLiteDialector opens dsn through the Unicode-folding driver.
func SQLiteDialector(dsn string) gorm.Dialector {
	registerSQLiteDriver.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})
	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}

// unicodeLower leaves NULL and non-text values untouched.
func unicodeLower(value any) any {
	if s, ok := value.(string); ok {
		return strings.ToLower(s)
	}
	return value
}
