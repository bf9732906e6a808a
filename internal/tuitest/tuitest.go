package tuitest

// A small pseudo-terminal driver used by the integration tests. It spawns
// the compiled binary inside a PTY, replays scripted keystrokes, answers the
// terminal capability queries bubbletea sends on startup, and records every
// byte the program renders.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultCols    = 110
	defaultRows    = 34
	defaultTimeout = 6 * time.Second
)

// Keystroke is one scripted input. Wait is applied before Bytes is written.
type Keystroke struct {
	Wait  time.Duration
	Bytes []byte
}

// Pause inserts a delay without writing any input.
func Pause(d time.Duration) Keystroke { return Keystroke{Wait: d} }

// Type writes s after the given delay.
func Type(d time.Duration, s string) Keystroke { return Keystroke{Wait: d, Bytes: []byte(s)} }

var (
	Enter = []byte{'\r'}
	Esc   = []byte{27}
	CtrlC = []byte{3}
	Tab   = []byte{'\t'}
)

// Script describes a full scripted run of a TUI binary.
type Script struct {
	Command        []string
	Dir            string
	Env            []string
	Cols, Rows     int
	Keys           []Keystroke
	Timeout        time.Duration
	AllowInterrupt bool
}

// Recording holds the raw PTY stream and the frames parsed from it.
type Recording struct {
	Raw    []byte
	Frames []Frame
}

// Play runs the script to completion and returns the recording.
func Play(ctx context.Context, script Script) (*Recording, error) {
	if len(script.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cols, rows := script.Cols, script.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	timeout := script.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, script.Command[0], script.Command[1:]...)
	cmd.Dir = script.Dir
	cmd.Env = scriptEnv(script.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	var stream bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		var tail []byte
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				tail = answerQueries(ptmx, append(tail, chunk...))
				_, _ = stream.Write(chunk)
			}
			if readErr != nil {
				return
			}
		}
	}()

	for _, key := range script.Keys {
		if key.Wait > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: cancelled mid-script: %w", ctx.Err())
			case <-time.After(key.Wait):
			}
		}
		if len(key.Bytes) > 0 {
			if _, err := ptmx.Write(key.Bytes); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	waited := make(chan error, 1)
	go func() { waited <- cmd.Wait() }()

	select {
	case err := <-waited:
		if err != nil && !exitTolerated(err, script.AllowInterrupt) {
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-drained

	raw := stream.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw)}, nil
}

func exitTolerated(err error, allowInterrupt bool) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 0 {
		return true
	}
	return allowInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

func scriptEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// Terminal capability queries the program may issue on startup, paired with
// canned replies. Without these bubbletea blocks waiting for the terminal.
var queryReplies = []struct{ query, reply []byte }{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

func answerQueries(w io.Writer, buf []byte) []byte {
	for {
		matched := false
		for _, qr := range queryReplies {
			if idx := bytes.Index(buf, qr.query); idx >= 0 {
				buf = buf[idx+len(qr.query):]
				_, _ = w.Write(qr.reply)
				matched = true
			}
		}
		if !matched {
			break
		}
	}
	// Keep a short tail so queries split across reads still match.
	if len(buf) > 256 {
		buf = buf[len(buf)-64:]
	}
	return buf
}
