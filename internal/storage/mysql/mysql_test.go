package mysql

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		// Тесты хранилища гоняются только против живой тестовой БД
		fmt.Println("TEST_DB_DSN не задан, тесты хранилища пропущены")
		os.Exit(0)
	}

	var err error
	testDB, err = sql.Open("mysql", dsn)
	if err != nil {
		panic(fmt.Errorf("не удалось подключиться к тестовой БД: %w", err))
	}
	defer testDB.Close()

	if err := testDB.Ping(); err != nil {
		panic(fmt.Errorf("ping failed: %w", err))
	}

	code := m.Run()

	os.Exit(code)
}
