package database

import (
	"testing"

	"clinic-scheduler/config"
	"clinic-scheduler/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: "5432", User: "clinic", Password: "s3cret", Name: "scheduling"}

	assert.Equal(t,
		"host=db user=clinic password=s3cret dbname=scheduling port=5432 sslmode=disable TimeZone=UTC",
		DSN(cfg, ""))

	cfg.SSLMode = "require"
	assert.Contains(t, DSN(cfg, "America/Bogota"), "sslmode=require TimeZone=America/Bogota")
}

func TestURL(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: "5432", User: "clinic", Password: "p@ss", Name: "scheduling"}
	assert.Equal(t, "postgres://clinic:p%40ss@db:5432/scheduling?sslmode=disable", URL(cfg))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := migrationNames("up")
	require.NoError(t, err)
	downs, err := migrationNames("down")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func migrationNames(direction string) ([]string, error) {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	suffix := "." + direction + ".sql"
	for _, e := range entries {
		name := e.Name()
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			names = append(names, name[:len(name)-len(suffix)])
		}
	}
	return names, nil
}
