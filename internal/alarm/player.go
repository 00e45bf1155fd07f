package alarm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Player renders one pass of a pattern. Play blocks until the pass ends or
// ctx is cancelled.
type Player interface {
	Play(ctx context.Context, p Pattern) error
}

// CommandPlayer plays the pattern through an external audio command that
// takes a WAV file path as its last argument.
type CommandPlayer struct {
	Name string
	Args []string
}

// knownPlayers lists the commands probed by DetectPlayer, in order.
var knownPlayers = map[string][]CommandPlayer{
	"linux":  {{Name: "paplay"}, {Name: "aplay", Args: []string{"-q"}}},
	"darwin": {{Name: "afplay"}},
}

// DetectPlayer returns the first audio command found on PATH, falling back
// to a terminal bell on out.
func DetectPlayer(out io.Writer) Player {
	for _, p := range knownPlayers[runtime.GOOS] {
		if _, err := exec.LookPath(p.Name); err == nil {
			cp := p
			return &cp
		}
	}
	return NewBellPlayer(out)
}

func (c *CommandPlayer) Play(ctx context.Context, p Pattern) error {
	var buf bytes.Buffer
	if err := EncodeWAV(&buf, Synthesize(p, SampleRate), SampleRate); err != nil {
		return err
	}

	f, err := os.CreateTemp("", "horae-alarm-*.wav")
	if err != nil {
		return fmt.Errorf("creating alarm sound file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("writing alarm sound file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing alarm sound file: %w", err)
	}

	args := append(append([]string(nil), c.Args...), f.Name())
	if err := exec.CommandContext(ctx, c.Name, args...).Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running %s: %w", c.Name, err)
	}
	return nil
}

// BellPlayer rings the terminal bell once per tone.
type BellPlayer struct {
	out io.Writer
}

func NewBellPlayer(out io.Writer) *BellPlayer {
	return &BellPlayer{out: out}
}

func (b *BellPlayer) Play(ctx context.Context, p Pattern) error {
	for _, tone := range p {
		if _, err := io.WriteString(b.out, "\a"); err != nil {
			return fmt.Errorf("ringing bell: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(tone.Duration + tone.Gap):
		}
	}
	return nil
}

type NopPlayer struct{}

func (NopPlayer) Play(context.Context, Pattern) error { return nil }
