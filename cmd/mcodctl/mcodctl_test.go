package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURLWithMigrationsTable(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := databaseURLWithMigrationsTable()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://mcod@localhost/mcod")
	u, err := databaseURLWithMigrationsTable()
	require.NoError(t, err)
	assert.Equal(t, "postgres://mcod@localhost/mcod?x-migrations-table=go_schema_migrations", u)

	t.Setenv("DATABASE_URL", "postgres://mcod@localhost/mcod?sslmode=disable")
	u, err = databaseURLWithMigrationsTable()
	require.NoError(t, err)
	assert.Equal(t, "postgres://mcod@localhost/mcod?sslmode=disable&x-migrations-table=go_schema_migrations", u)
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		role     string
		password string
		wantErr  string
	}{
		{name: "bad email", email: "nope", role: "user", password: "Tajne-Haslo-123", wantErr: "invalid email"},
		{name: "bad role", email: "a@example.com", role: "root", password: "Tajne-Haslo-123", wantErr: "unknown role"},
		{name: "no password", email: "a@example.com", role: "admin", wantErr: "MCOD_USER_PASSWORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := createUser(tt.email, "", tt.role, tt.password)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"server"},
		{"db", "migrate"},
		{"db", "down"},
		{"db", "status"},
		{"configuration", "show"},
		{"configuration", "apply"},
		{"user", "create"},
		{"harvester", "run"},
		{"harvester", "sources", "apply"},
		{"harvester", "sources", "watch"},
		{"resources", "check-links"},
		{"watchers", "refresh"},
		{"wait"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
