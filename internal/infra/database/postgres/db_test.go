package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(Config{Host: "db", Port: "5432", User: "app", Password: "pw", SSLMode: SSLRequire}, nil)
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=stockverse sslmode=require", dsn)
}

func TestBuildDSNFallsBackOnInvalidSSLMode(t *testing.T) {
	dsn := BuildDSN(Config{Host: "db", Port: "5432", DBName: "x", SSLMode: "maybe"}, nil)
	assert.Contains(t, dsn, "dbname=x")
	assert.Contains(t, dsn, "sslmode=disable")
}
