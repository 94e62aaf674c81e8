package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", NotFound("word %d", 3), http.StatusNotFound},
		{"wrapped integrity", fmt.Errorf("select: %w", DataIntegrity("empty bundle")), http.StatusInternalServerError},
		{"form", FormParse("bad type"), http.StatusBadRequest},
		{"auth", Unauthorized("no session"), http.StatusUnauthorized},
		{"csrf", Forbidden("origin"), http.StatusForbidden},
		{"rate", RateLimited("again"), http.StatusTooManyRequests},
		{"gorm not found", fmt.Errorf("x: %w", gorm.ErrRecordNotFound), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusOf(tc.err); got != tc.want {
				t.Fatalf("StatusOf = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(&pgconn.PgError{Code: "40001"}) {
		t.Fatal("serialization failure should be transient")
	}
	if !IsTransient(fmt.Errorf("q: %w", context.DeadlineExceeded)) {
		t.Fatal("deadline should be transient")
	}
	if IsTransient(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation is not transient")
	}
	if IsTransient(NotFound("x")) {
		t.Fatal("not found is not transient")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)) {
		t.Fatal("translated duplicate key not detected")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("pg 23505 not detected")
	}
	if IsUniqueViolation(errors.New("other")) {
		t.Fatal("false positive")
	}
}
