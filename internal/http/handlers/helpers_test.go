package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos/testutil"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
)

func TestRetryTransient(t *testing.T) {
	expired, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		name  string
		ctx   context.Context
		err   error
		calls int
	}{
		{"success", context.Background(), nil, 1},
		{"permanent", context.Background(), apierr.FormParse("bad"), 1},
		{"transient", context.Background(), apierr.Transient(fmt.Errorf("serialization failure")), 2},
		{"deadline on live ctx", context.Background(), fmt.Errorf("query: %w", context.DeadlineExceeded), 2},
		{"request ctx already done", expired, fmt.Errorf("query: %w", context.DeadlineExceeded), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := retryTransient(tc.ctx, testutil.Logger(t), "test", func() error {
				calls++
				return tc.err
			})
			if calls != tc.calls {
				t.Fatalf("calls = %d, want %d", calls, tc.calls)
			}
			if (err == nil) != (tc.err == nil) {
				t.Fatalf("err = %v, want %v", err, tc.err)
			}
		})
	}
}
