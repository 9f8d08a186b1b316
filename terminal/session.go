package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"square-mapper/logging"
	"square-mapper/models"
	"square-mapper/services"
)

const (
	Prompt       = "Pass: (X, Y, Type of floor): "
	UsageMessage = "Please type only 3 arguments: X (number), Y (number) and the Type of floor."
)

// Session drives a MapService from lines of text
type Session struct {
	svc      *services.MapService
	in       *bufio.Reader
	out      io.Writer
	renderer *Renderer
}

// NewSession creates a session reading commands from in and printing the
// map and messages to out.
func NewSession(svc *services.MapService, in io.Reader, out io.Writer, color bool) *Session {
	return &Session{
		svc:      svc,
		in:       bufio.NewReader(in),
		out:      out,
		renderer: NewRenderer(out, color),
	}
}

// Run loops until "exit", end of input or ctx is cancelled. Bad input and
// failed updates are reported to out and the loop carries on.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(s.out, s.renderer.Render(s.svc.Format()))
		fmt.Fprint(s.out, Prompt)

		// no length limit: an oversized line is just another bad command
		line, err := s.in.ReadString('\n')
		if line == "" && err != nil {
			fmt.Fprintln(s.out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		cmd, err := ParseLine(line)
		if err != nil {
			fmt.Fprintln(s.out, UsageMessage)
			continue
		}

		if cmd.Op == OpExit {
			return nil
		}
		s.apply(line, cmd)
	}
}

func (s *Session) apply(line string, cmd Command) {
	var err error
	switch cmd.Op {
	case OpReset:
		err = s.svc.Reset()
		if err == nil {
			fmt.Fprintln(s.out, "Map reset.")
		}
	case OpRename:
		err = s.svc.Rename(cmd.Name)
		if err == nil {
			fmt.Fprintf(s.out, "Map renamed to %s.\n", cmd.Name)
		}
	case OpPlace:
		_, err = s.svc.Update(cmd.X, cmd.Y, models.TileKindFromChar(cmd.Tile))
		var perr *services.PersistError
		if err == nil || errors.As(err, &perr) {
			fmt.Fprintf(s.out, "You typed: %s; Last updated coordinates: %d/%d\n", line, cmd.X, cmd.Y)
		}
	}

	if err == nil {
		return
	}

	var perr *services.PersistError
	switch {
	case errors.As(err, &perr):
		fmt.Fprintf(s.out, "Warning: %v\n", err)
	case errors.Is(err, models.ErrOutOfBounds):
		fmt.Fprintf(s.out, "Coordinates %d/%d are outside the map.\n", cmd.X, cmd.Y)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	logging.Debug("terminal command failed", "line", line, "err", err)
}
