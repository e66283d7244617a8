package ioline

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Channel is an interactive Source that reads whitespace-separated integers
// from an underlying reader (typically a REPL's stdin, or a TCP connection
// in server mode) on demand, one whitespace-separated word per request, and enforces
// an optional per-read timeout the way a network client expects. It is the
// interactive counterpart to Slice.
type Channel struct {
	requests chan chan result
	timeout  time.Duration
}

type result struct {
	value int
	err   error
}

// NewChannel starts a background goroutine scanning whitespace-separated
// integers off scanner, and returns a Channel that serves them one at a time.
// A zero timeout means Next never times out on its own; it still honors
// ctx cancellation.
func NewChannel(scanner *bufio.Scanner, timeout time.Duration) *Channel {
	c := &Channel{
		requests: make(chan chan result),
		timeout:  timeout,
	}
	go c.run(scanner)
	return c
}

func (c *Channel) run(scanner *bufio.Scanner) {
	scanner.Split(bufio.ScanWords)
	for reply := range c.requests {
		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = ErrExhausted
			}
			reply <- result{err: err}
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		v, err := strconv.Atoi(text)
		if err != nil {
			reply <- result{err: errors.Wrapf(err, "input %q is not an integer", text)}
			continue
		}
		reply <- result{value: v}
	}
}

// Next requests the next integer, blocking until it arrives, ctx is
// cancelled, or the configured timeout elapses first.
func (c *Channel) Next(ctx context.Context) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reply := make(chan result, 1)
	select {
	case c.requests <- reply:
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.value, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Close stops accepting further requests and lets the background goroutine
// exit once it is no longer blocked in a scan. It closes the request
// channel, so calling Close twice, or calling Next after Close, panics with
// a send on (or close of) a closed channel.
func (c *Channel) Close() {
	close(c.requests)
}
