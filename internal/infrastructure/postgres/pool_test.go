package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/pkg/config"
)

func TestPoolConfigFor_TamañoYCodec(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{
		Host: "127.0.0.1", Port: 5432, User: "ops", Password: "x", DBName: "warehouse_ops",
		SSLMode: "disable", MaxConns: 8, MinConns: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, "127.0.0.1", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect)
}

func TestDSNWithIPv4_ConservaIPLiteral(t *testing.T) {
	dsn := "postgres://ops:x@10.0.0.5:6543/db?sslmode=require"
	assert.Equal(t, dsn, dsnWithIPv4(dsn))
	assert.Equal(t, "host=db user=ops", dsnWithIPv4("host=db user=ops"))
}
