package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgressSpinner(t *testing.T) {
	var buf bytes.Buffer
	err := showProgressSpinner(context.Background(), &buf, "Checking consent", func() error {
		time.Sleep(250 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("showProgressSpinner() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "✓") || !strings.Contains(out, "Checking consent") {
		t.Errorf("spinner output should end with a success mark, got %q", out)
	}
}

func TestShowProgressSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := showProgressSpinner(ctx, &buf, "Waiting", func() error {
		time.Sleep(time.Second)
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("showProgressSpinner() error = %v, want context.DeadlineExceeded", err)
	}
	if !strings.Contains(buf.String(), "✗") {
		t.Errorf("cancelled spinner should print a failure mark, got %q", buf.String())
	}
}

func TestPrintHelpers_NonTerminal(t *testing.T) {
	var buf bytes.Buffer

	PrintSuccess(&buf, "saved")
	PrintError(&buf, "failed")
	PrintInfo(&buf, "note")
	PrintWarning(&buf, "careful")

	want := "saved\nfailed\nnote\nWARNING: careful\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
