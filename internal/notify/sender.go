package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Sender delivers one message. An error means the message was not delivered.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// WriterSender prints messages instead of sending them (dry runs).
type WriterSender struct {
	W io.Writer
	n int
}

func (w *WriterSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.n++
	_, err := fmt.Fprintf(w.W, "----- message %d -----\n%s\n%s\n", w.n, text, strings.Repeat("-", 21))
	return err
}
