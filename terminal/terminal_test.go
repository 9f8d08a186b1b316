package terminal_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-mapper/models"
	"square-mapper/persistence"
	"square-mapper/services"
	"square-mapper/terminal"
)

func TestParseLine(t *testing.T) {
	t.Run("three fields", func(t *testing.T) {
		cmd, err := terminal.ParseLine("5 2 d\r\n")
		require.NoError(t, err)
		assert.Equal(t, terminal.Command{Op: terminal.OpPlace, X: 5, Y: 2, Tile: 'd'}, cmd)

		cmd, err = terminal.ParseLine("  10\t5   t ")
		require.NoError(t, err)
		assert.Equal(t, terminal.Command{Op: terminal.OpPlace, X: 10, Y: 5, Tile: 't'}, cmd)
	})

	t.Run("exit anywhere in the line", func(t *testing.T) {
		for _, line := range []string{"exit", "1 2 exit", "please exit now", "exit\r\n"} {
			cmd, err := terminal.ParseLine(line)
			require.NoError(t, err, line)
			assert.Equal(t, terminal.OpExit, cmd.Op, line)
		}
	})

	t.Run("extras", func(t *testing.T) {
		cmd, err := terminal.ParseLine("reset")
		require.NoError(t, err)
		assert.Equal(t, terminal.OpReset, cmd.Op)

		cmd, err = terminal.ParseLine("name crypt")
		require.NoError(t, err)
		assert.Equal(t, terminal.Command{Op: terminal.OpRename, Name: "crypt"}, cmd)
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, line := range []string{
			"",
			"1 2",
			"1 2 f w",
			"a 2 f",
			"1 b f",
			"-1 2 f",
			"1 2 floor",
			"1.5 2 f",
			"99999999999 1 f",
		} {
			_, err := terminal.ParseLine(line)
			assert.ErrorIs(t, err, terminal.ErrInvalidInput, "%q", line)
		}
	})
}

type failingStore struct{}

func (failingStore) SaveMap(string, *models.MapSnapshot) error {
	return errors.New("read-only file system")
}
func (failingStore) LoadMap(string) (*models.MapSnapshot, error) { return nil, persistence.ErrNotFound }
func (failingStore) Close() error                               { return nil }

func givenASession(t *testing.T, input string, db persistence.Storage) (*services.MapService, *terminal.Session, *bytes.Buffer) {
	t.Helper()
	g, err := models.NewGrid(models.GridConfig{Width: 4, Height: 3})
	require.NoError(t, err)
	svc, err := services.NewMapService("Map", g, db)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return svc, terminal.NewSession(svc, strings.NewReader(input), out, false), out
}

func TestSessionRun(t *testing.T) {
	t.Run("applies lines until exit", func(t *testing.T) {
		store, err := persistence.NewTextFileStore(t.TempDir())
		require.NoError(t, err)
		svc, session, out := givenASession(t, "1 1 f\nnonsense\n4 3 w\n0 1 w\nexit\n2 2 d\n", store)

		require.NoError(t, session.Run(context.Background()))

		assert.Equal(t, "01 - [f][ ][ ][ ]\n02 - [ ][ ][ ][ ]\n03 - [ ][ ][ ][w]\n", svc.Format())

		text := out.String()
		assert.Contains(t, text, terminal.Prompt)
		assert.Contains(t, text, "You typed: 1 1 f; Last updated coordinates: 1/1")
		assert.Contains(t, text, terminal.UsageMessage)
		assert.Contains(t, text, "Coordinates 0/1 are outside the map.")
		assert.NotContains(t, text, "2/2")

		saved, err := store.LoadMap("Map")
		require.NoError(t, err)
		assert.Equal(t, svc.Format(), saved.Dump)
	})

	t.Run("unknown tile chars clear the cell", func(t *testing.T) {
		svc, session, _ := givenASession(t, "2 2 w\n2 2 x\n", &memoryless{})
		require.NoError(t, session.Run(context.Background()))

		cell, err := svc.Get(1, 1)
		require.NoError(t, err)
		assert.Equal(t, models.TileNone, cell.Kind)
	})

	t.Run("end of input stops the loop", func(t *testing.T) {
		_, session, out := givenASession(t, "3 1 t", &memoryless{})
		require.NoError(t, session.Run(context.Background()))
		assert.Contains(t, out.String(), "01 - [ ][ ][t][ ]")
	})

	t.Run("reset and rename", func(t *testing.T) {
		svc, session, out := givenASession(t, "1 1 w\nreset\nname crypt\n", &memoryless{})
		require.NoError(t, session.Run(context.Background()))

		assert.Equal(t, "crypt", svc.Name())
		assert.NotContains(t, svc.Format(), "w")
		assert.Contains(t, out.String(), "Map renamed to crypt.")
	})

	t.Run("persistence failures are warnings", func(t *testing.T) {
		svc, session, out := givenASession(t, "1 1 f\n", failingStore{})
		require.NoError(t, session.Run(context.Background()))

		assert.Contains(t, out.String(), "Warning:")
		assert.Contains(t, out.String(), "read-only file system")
		cell, err := svc.Get(0, 0)
		require.NoError(t, err)
		assert.Equal(t, models.TileFloor, cell.Kind)
	})

	t.Run("oversized lines are rejected and the loop carries on", func(t *testing.T) {
		input := strings.Repeat("x", 70*1024) + "\n1 1 f\nexit\n"
		svc, session, out := givenASession(t, input, &memoryless{})

		require.NoError(t, session.Run(context.Background()))

		assert.Contains(t, out.String(), terminal.UsageMessage)
		cell, err := svc.Get(0, 0)
		require.NoError(t, err)
		assert.Equal(t, models.TileFloor, cell.Kind)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, session, _ := givenASession(t, "1 1 f\n", &memoryless{})
		assert.ErrorIs(t, session.Run(ctx), context.Canceled)
	})
}

func TestRenderer(t *testing.T) {
	dump := "01 - [f][ ]\n02 - [w][d]\n"

	plain := terminal.NewRenderer(&bytes.Buffer{}, false)
	assert.Equal(t, dump, plain.Render(dump))

	colored := terminal.NewRenderer(&bytes.Buffer{}, true).Render(dump)
	for _, want := range []string{"01 - [", "02 - [", "f", "w", "d", "\n"} {
		assert.Contains(t, colored, want)
	}
	assert.Equal(t, 2, strings.Count(colored, "\n"))
}

// memoryless accepts every save and never has anything stored
type memoryless struct{}

func (*memoryless) SaveMap(string, *models.MapSnapshot) error { return nil }
func (*memoryless) LoadMap(string) (*models.MapSnapshot, error) {
	return nil, persistence.ErrNotFound
}
func (*memoryless) Close() error { return nil }
