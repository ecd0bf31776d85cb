package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigString(t *testing.T) {
	testcases := []struct {
		name     string
		conf     Config
		expected string
	}{
		{
			name:     "defaults",
			conf:     Config{},
			expected: "host=127.0.0.1 dbname=postgres port=5432 sslmode=prefer",
		},
		{
			name:     "credentials",
			conf:     Config{Host: "db", Port: "6543", DBName: "auctionhouse", SSLMode: "disable", User: "admin", Password: "secret"},
			expected: "host=db dbname=auctionhouse port=6543 sslmode=disable user=admin password=secret",
		},
		{
			name:     "url",
			conf:     Config{Host: "ignored", URL: "postgres://localhost:5432/auctionhouse"},
			expected: "postgres://localhost:5432/auctionhouse",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.conf.String())
		})
	}
}
