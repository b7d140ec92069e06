package cmd

import (
	"errors"
	"net/http"
	"testing"

	"github.com/iksnae/consent-session/internal"
	"github.com/iksnae/consent-session/testutil"
)

func TestHelloCommand(t *testing.T) {
	isolateEnv(t)
	backend := testutil.NewFakeBackend(t)
	backend.SetGreeting(testutil.Greeting("hi"))

	output, err := executeCommand(t, "", backendArgs(backend.URL(), testutil.TempJournalPath(t), "hello")...)
	if err != nil {
		t.Fatalf("hello error = %v", err)
	}
	assertContains(t, output, "hi")
	if n := backend.Count(http.MethodGet, "/api/hello"); n != 1 {
		t.Errorf("greeting requests = %d, want 1", n)
	}
}

func TestHelloCommand_Failures(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name  string
		setup func(b *testutil.FakeBackend)
		check func(err error) bool
	}{
		{
			name:  "backend down",
			setup: func(b *testutil.FakeBackend) { b.Close() },
			check: func(err error) bool {
				var netErr *internal.NetworkError
				return errors.As(err, &netErr)
			},
		},
		{
			name:  "malformed body",
			setup: func(b *testutil.FakeBackend) { b.SetGreeting(testutil.Raw(http.StatusOK, testutil.MalformedJSONBody)) },
			check: func(err error) bool {
				var mErr *internal.MalformedResponseError
				return errors.As(err, &mErr)
			},
		},
		{
			name:  "empty greeting",
			setup: func(b *testutil.FakeBackend) { b.SetGreeting(testutil.Raw(http.StatusOK, `{}`)) },
			check: internal.IsMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend(t)
			tt.setup(backend)

			_, err := executeCommand(t, "", backendArgs(backend.URL(), testutil.TempJournalPath(t), "hello")...)
			if err == nil {
				t.Fatal("hello should fail without a greeting")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error class: %v", err)
			}
		})
	}
}
