package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-mapper/handlers"
	"square-mapper/messages"
	"square-mapper/models"
	"square-mapper/persistence"
	"square-mapper/services"
)

type reply struct {
	Type    messages.MessageType `json:"type"`
	Payload json.RawMessage      `json:"payload"`
}

func givenAServer(t *testing.T) (*services.MapService, *handlers.ClientManager, string) {
	t.Helper()
	g, err := models.NewGrid(models.GridConfig{Width: 5, Height: 5})
	require.NoError(t, err)
	store, err := persistence.NewTextFileStore(t.TempDir())
	require.NoError(t, err)
	svc, err := services.NewMapService("Map", g, store)
	require.NoError(t, err)

	cm := handlers.NewClientManager()
	cm.BroadcastMapEvents(svc)

	srv := httptest.NewServer(handlers.NewWebSocketHandler(svc, cm))
	t.Cleanup(srv.Close)
	return svc, cm, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, msgType messages.MessageType, payload interface{}) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(messages.BaseMessage{Type: msgType, Payload: payload}))
}

// await reads messages until one of the wanted type arrives
func await(t *testing.T, ws *websocket.Conn, want messages.MessageType) json.RawMessage {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var r reply
		require.NoError(t, ws.ReadJSON(&r))
		if r.Type == want {
			return r.Payload
		}
	}
}

func TestWebSocketEditing(t *testing.T) {
	svc, cm, url := givenAServer(t)
	editor := dial(t, url)
	watcher := dial(t, url)

	var welcome messages.WelcomeMessage
	require.NoError(t, json.Unmarshal(await(t, editor, messages.MessageTypeWelcome), &welcome))
	assert.NotEmpty(t, welcome.ClientID)
	assert.Equal(t, svc.Format(), welcome.Map.Dump)
	assert.Equal(t, 5, welcome.Config.Width)
	await(t, watcher, messages.MessageTypeWelcome)
	assert.Eventually(t, func() bool { return cm.Count() == 2 }, time.Second, 10*time.Millisecond)

	t.Run("update is applied and broadcast", func(t *testing.T) {
		send(t, editor, messages.MessageTypeUpdateCell, map[string]interface{}{"x": 2, "y": 3, "tile": "wall"})

		var result messages.UpdateResultMessage
		require.NoError(t, json.Unmarshal(await(t, editor, messages.MessageTypeUpdateResult), &result))
		assert.Equal(t, models.Cell{X: 1, Y: 2, Kind: models.TileWall}, result.Change.Cell)
		assert.Empty(t, result.PersistError)

		var event messages.MapEventMessage
		require.NoError(t, json.Unmarshal(await(t, watcher, messages.MessageTypeMapEvent), &event))
		assert.Equal(t, string(services.EventCellChanged), event.Event)
		require.NotNil(t, event.Change)
		assert.Equal(t, models.TileWall, event.Change.Cell.Kind)
	})

	t.Run("get_cell reads internal coordinates", func(t *testing.T) {
		send(t, editor, messages.MessageTypeGetCell, messages.GetCellMessage{X: 1, Y: 2})

		var cell messages.CellMessage
		require.NoError(t, json.Unmarshal(await(t, editor, messages.MessageTypeCell), &cell))
		assert.Equal(t, models.TileWall, cell.Cell.Kind)
	})

	t.Run("out of bounds is an error reply", func(t *testing.T) {
		send(t, editor, messages.MessageTypeUpdateCell, map[string]interface{}{"x": 0, "y": 1, "tile": "f"})

		var errMsg messages.ErrorMessage
		require.NoError(t, json.Unmarshal(await(t, editor, messages.MessageTypeError), &errMsg))
		assert.Equal(t, messages.ErrCodeOutOfBounds, errMsg.Code)
	})

	t.Run("unknown tiles are rejected", func(t *testing.T) {
		send(t, editor, messages.MessageTypeUpdateCell, map[string]interface{}{"x": 1, "y": 1, "tile": "lava"})

		var errMsg messages.ErrorMessage
		require.NoError(t, json.Unmarshal(await(t, editor, messages.MessageTypeError), &errMsg))
		assert.Equal(t, messages.ErrCodeBadRequest, errMsg.Code)
	})

	t.Run("updates without a tile are rejected", func(t *testing.T) {
		send(t, editor, messages.MessageTypeUpdateCell, map[string]interface{}{"x": 2, "y": 3})

		var errMsg messages.ErrorMessage
		require.NoError(t, json.Unmarshal(await(t, editor, messages.MessageTypeError), &errMsg))
		assert.Equal(t, messages.ErrCodeBadRequest, errMsg.Code)

		cell, err := svc.Get(1, 2)
		require.NoError(t, err)
		assert.Equal(t, models.TileWall, cell.Kind)
	})

	t.Run("rename and dump", func(t *testing.T) {
		send(t, editor, messages.MessageTypeRename, messages.RenameMessage{Name: "crypt"})
		var event messages.MapEventMessage
		require.NoError(t, json.Unmarshal(await(t, watcher, messages.MessageTypeMapEvent), &event))
		assert.Equal(t, "crypt", event.Name)

		send(t, editor, messages.MessageTypeDump, nil)
		var dump messages.DumpMessage
		require.NoError(t, json.Unmarshal(await(t, editor, messages.MessageTypeDump), &dump))
		assert.Equal(t, "crypt", dump.Name)
		assert.Equal(t, svc.Format(), dump.Dump)
	})

	t.Run("unknown message types", func(t *testing.T) {
		send(t, editor, "teleport", nil)
		var errMsg messages.ErrorMessage
		require.NoError(t, json.Unmarshal(await(t, editor, messages.MessageTypeError), &errMsg))
		assert.Equal(t, messages.ErrCodeUnknownType, errMsg.Code)
	})

	t.Run("disconnects are unregistered", func(t *testing.T) {
		require.NoError(t, watcher.Close())
		assert.Eventually(t, func() bool { return cm.Count() == 1 }, 5*time.Second, 10*time.Millisecond)
	})
}

func TestWelcomeComesFirst(t *testing.T) {
	svc, _, url := givenAServer(t)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		kinds := []models.TileKind{models.TileFloor, models.TileWall}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_, _ = svc.Update(1, 1, kinds[i%2])
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	for i := 0; i < 5; i++ {
		ws := dial(t, url)
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))

		var r reply
		require.NoError(t, ws.ReadJSON(&r))
		assert.Equal(t, messages.MessageTypeWelcome, r.Type)
	}
}
