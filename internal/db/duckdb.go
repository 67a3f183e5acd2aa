package db

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	shared     *sql.DB
	sharedOnce sync.Once
	sharedErr  error
)

// GetDB returns the process-wide in-memory DuckDB handle with the JSON
// extension loaded. Prompt scripts are read through it; nothing is persisted.
func GetDB() (*sql.DB, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = openInMemory("json")
	})
	return shared, sharedErr
}

func openInMemory(extensions ...string) (*sql.DB, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	// An in-memory database lives in its connection; a second one would be empty.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, ext := range extensions {
		if err := loadExtension(conn, ext); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return conn, nil
}

func loadExtension(conn *sql.DB, name string) error {
	if _, err := conn.Exec("INSTALL " + name); err != nil {
		return fmt.Errorf("failed to install %s extension: %w", name, err)
	}
	if _, err := conn.Exec("LOAD " + name); err != nil {
		return fmt.Errorf("failed to load %s extension: %w", name, err)
	}
	return nil
}
