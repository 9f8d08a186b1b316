// Package terminal is the line-oriented front-end: it reads
// "X Y tile" lines from a reader and applies them to a map.
package terminal

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrInvalidInput is returned for lines that aren't a recognised command
var ErrInvalidInput = errors.New("invalid input")

// Op selects what a Command does
type Op int

const (
	OpPlace Op = iota
	OpExit
	OpReset
	OpRename
)

// Command is one parsed input line
type Command struct {
	Op   Op
	X, Y int
	Tile rune
	Name string
}

// ParseLine decodes one line of input. Any line containing "exit" ends the
// session; otherwise the line must hold exactly an unsigned X, an unsigned
// Y and a single tile character. "reset" and "name <new name>" are also
// accepted.
func ParseLine(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.Contains(line, "exit") {
		return Command{Op: OpExit}, nil
	}

	fields := strings.Fields(line)
	switch {
	case len(fields) == 1 && fields[0] == "reset":
		return Command{Op: OpReset}, nil
	case len(fields) == 2 && fields[0] == "name":
		return Command{Op: OpRename, Name: fields[1]}, nil
	case len(fields) != 3:
		return Command{}, ErrInvalidInput
	}

	// 31 bits so the value fits an int on every platform
	x, err := strconv.ParseUint(fields[0], 10, 31)
	if err != nil {
		return Command{}, ErrInvalidInput
	}
	y, err := strconv.ParseUint(fields[1], 10, 31)
	if err != nil {
		return Command{}, ErrInvalidInput
	}
	if utf8.RuneCountInString(fields[2]) != 1 {
		return Command{}, ErrInvalidInput
	}
	tile, _ := utf8.DecodeRuneInString(fields[2])

	return Command{Op: OpPlace, X: int(x), Y: int(y), Tile: tile}, nil
}
