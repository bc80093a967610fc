// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dvfmap/internal/platform/database/schema"
)

/*
TestColumnsMatchMigrations keeps the descriptors in step with the SQL files.
*/
func TestColumnsMatchMigrations(t *testing.T) {
	tests := []struct {
		file    string
		table   string
		columns []string
	}{
		{"000001_users.up.sql", schema.Users.Table, schema.Users.Columns()},
		{"000002_dvf.up.sql", schema.DVF.Table, schema.DVF.Columns()},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			raw, err := os.ReadFile("../../../../data/migrations/" + tt.file)
			require.NoError(t, err)
			ddl := string(raw)

			assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+tt.table+" (")
			for _, column := range tt.columns {
				assert.True(t, strings.Contains(ddl, "\n    "+column+" "), "column %s missing from %s", column, tt.file)
			}
		})
	}
}
