package redis

import "testing"

func TestLockKey(t *testing.T) {
	client := &Client{}

	cases := []struct {
		name  string
		scope string
		want  string
	}{
		{"plain scope", "cron-worker:prod", "wsf:lock:cron-worker:prod"},
		{"trims whitespace", "  cron-worker:dev  ", "wsf:lock:cron-worker:dev"},
		{"empty scope", "", "wsf:lock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := client.LockKey(tc.scope); got != tc.want {
				t.Fatalf("LockKey(%q) = %q, want %q", tc.scope, got, tc.want)
			}
		})
	}
}
