package messages

import (
	"encoding/json"

	"square-mapper/models"
)

// MessageType defines the type of message being sent
type MessageType string

const (
	// client -> server
	MessageTypeGetCell    MessageType = "get_cell"
	MessageTypeUpdateCell MessageType = "update_cell"
	MessageTypeReset      MessageType = "reset"
	MessageTypeRename     MessageType = "rename"
	MessageTypeDump       MessageType = "dump"
	MessageTypePersist    MessageType = "persist"

	// server -> client
	MessageTypeWelcome      MessageType = "welcome"
	MessageTypeCell         MessageType = "cell"
	MessageTypeUpdateResult MessageType = "update_result"
	MessageTypeMapEvent     MessageType = "map_event"
	MessageTypeError        MessageType = "error"
)

// Error codes sent in ErrorMessage
const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeUnknownType    = "UNKNOWN_MESSAGE_TYPE"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeOutOfBounds    = "OUT_OF_BOUNDS"
	ErrCodeInvalidName    = "INVALID_NAME"
	ErrCodePersistFailure = "PERSIST_FAILED"
)

// BaseMessage is the envelope for every outgoing message
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// IncomingMessage is the envelope for client messages. The payload is
// decoded once the type is known.
type IncomingMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// GetCellMessage asks for the cell at internal coordinates
type GetCellMessage struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UpdateCellMessage sets a tile at external coordinates. Tile is required.
type UpdateCellMessage struct {
	X    int              `json:"x"`
	Y    int              `json:"y"`
	Tile *models.TileKind `json:"tile"`
}

// RenameMessage changes the map name
type RenameMessage struct {
	Name string `json:"name"`
}

// WelcomeMessage is sent once when a client connects
type WelcomeMessage struct {
	ClientID string            `json:"client_id"`
	Map      DumpMessage       `json:"map"`
	Config   models.GridConfig `json:"config"`
}

// CellMessage answers get_cell
type CellMessage struct {
	Cell models.Cell `json:"cell"`
}

// UpdateResultMessage answers update_cell. PersistError is set when the
// change was applied but could not be saved.
type UpdateResultMessage struct {
	Change       models.CellChange `json:"change"`
	PersistError string            `json:"persist_error,omitempty"`
}

// DumpMessage carries the canonical dump
type DumpMessage struct {
	Name string `json:"name"`
	Dump string `json:"dump"`
}

// MapEventMessage is broadcast to every client after a change
type MapEventMessage struct {
	Event  string             `json:"event"`
	Name   string             `json:"name"`
	Change *models.CellChange `json:"change,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
