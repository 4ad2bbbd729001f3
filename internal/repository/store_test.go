package repository

import (
    "errors"
    "fmt"
    "testing"
    "time"

    "github.com/go-sql-driver/mysql"
)

func TestIsRetryable(t *testing.T) {
    tests := []struct {
        name string
        err  error
        want bool
    }{
        {"deadlock", &mysql.MySQLError{Number: 1213}, true},
        {"lock wait timeout wrapped", fmt.Errorf("lock property: %w", &mysql.MySQLError{Number: 1205}), true},
        {"duplicate key", &mysql.MySQLError{Number: 1062}, false},
        {"plain error", errors.New("boom"), false},
        {"nil", nil, false},
    }
    for _, tc := range tests {
        if got := isRetryable(tc.err); got != tc.want {
            t.Errorf("%s: isRetryable = %v, want %v", tc.name, got, tc.want)
        }
    }
}

func TestSQLDateDropsTimeAndZone(t *testing.T) {
    berlin, err := time.LoadLocation("Europe/Berlin")
    if err != nil {
        t.Skip("tzdata unavailable")
    }
    got := sqlDate(time.Date(2025, 3, 10, 23, 30, 0, 0, berlin))
    if got != "2025-03-10" {
        t.Fatalf("sqlDate = %q", got)
    }
}
