package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// Opener presents an approval URL to the user. The client does not track
// whether the user completes approval.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to the Opener interface
type OpenerFunc func(ctx context.Context, url string) error

// Open calls f(ctx, url)
func (f OpenerFunc) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Opener kinds accepted by NewOpener and the config file
const (
	OpenerBrowser   = "browser"
	OpenerClipboard = "clipboard"
	OpenerPrint     = "print"
	OpenerNone      = "none"
)

// BrowserOpener opens URLs in the system browser
type BrowserOpener struct{}

// Open launches the default browser on url
func (BrowserOpener) Open(_ context.Context, url string) error {
	return browser.OpenURL(url)
}

// ClipboardOpener copies URLs to the system clipboard
type ClipboardOpener struct {
	Out io.Writer
}

// Open writes url to the clipboard and tells the user about it
func (o ClipboardOpener) Open(_ context.Context, url string) error {
	if err := clipboard.WriteAll(url); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	if o.Out != nil {
		_, _ = fmt.Fprintf(o.Out, "Approval URL copied to clipboard: %s\n", url)
	}
	return nil
}

// WriterOpener prints URLs for the user to follow manually
type WriterOpener struct {
	Out io.Writer
}

// Open prints url
func (o WriterOpener) Open(_ context.Context, url string) error {
	_, err := fmt.Fprintf(o.Out, "Approve the consent at: %s\n", url)
	return err
}

// NoopOpener ignores URLs
type NoopOpener struct{}

// Open does nothing
func (NoopOpener) Open(context.Context, string) error { return nil }

// RecordingOpener remembers every URL it is asked to open
type RecordingOpener struct {
	mu   sync.Mutex
	urls []string
	Err  error
}

// Open records url and returns o.Err
func (o *RecordingOpener) Open(_ context.Context, url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
	return o.Err
}

// URLs returns the recorded URLs in call order
func (o *RecordingOpener) URLs() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.urls...)
}

// NewOpener returns the opener for kind. out receives user-facing notes
// from the clipboard and print openers; nil means stdout.
func NewOpener(kind string, out io.Writer) (Opener, error) {
	if out == nil {
		out = os.Stdout
	}
	switch kind {
	case OpenerBrowser, "":
		return BrowserOpener{}, nil
	case OpenerClipboard:
		return ClipboardOpener{Out: out}, nil
	case OpenerPrint:
		return WriterOpener{Out: out}, nil
	case OpenerNone:
		return NoopOpener{}, nil
	default:
		return nil, fmt.Errorf("unsupported opener: %s (supported: browser, clipboard, print, none)", kind)
	}
}
