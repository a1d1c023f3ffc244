package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLMigrationsFiltersAndOrders(t *testing.T) {
	names := []string{
		"0002_add_traces.sql",
		"README.md",
		"0001_init.sql",
		"notes.txt",
		"0010_indexes.sql",
	}

	assert.Equal(t,
		[]string{"0001_init.sql", "0002_add_traces.sql", "0010_indexes.sql"},
		sqlMigrations(names),
	)
}

func TestSQLMigrationsEmptyInput(t *testing.T) {
	assert.Empty(t, sqlMigrations(nil))
	assert.Empty(t, sqlMigrations([]string{"README.md"}))
}
