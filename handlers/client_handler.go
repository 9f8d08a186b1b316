package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"

	"square-mapper/logging"
	"square-mapper/messages"
	"square-mapper/models"
	"square-mapper/network"
	"square-mapper/persistence"
	"square-mapper/services"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	conn          *network.Connection
	mapService    *services.MapService
	clientManager *ClientManager
}

// HandleClientConnection serves one websocket client until it disconnects
func HandleClientConnection(wsConn *websocket.Conn, mapService *services.MapService, clientManager *ClientManager) {
	conn := network.NewConnection(wsConn)
	handler := &ClientHandler{
		conn:          conn,
		mapService:    mapService,
		clientManager: clientManager,
	}
	logging.Info("client connected", "client", conn.ID, "remote", wsConn.RemoteAddr().String())

	go conn.WritePump()

	handler.sendWelcome()
	clientManager.AddClient(conn.ID, handler)

	conn.ReadPump(handler)

	clientManager.RemoveClient(conn.ID)
	logging.Info("client disconnected", "client", conn.ID)
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	logging.Debug("received message", "client", conn.ID, "bytes", len(message))

	var msg messages.IncomingMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.sendError(messages.ErrCodeBadRequest, "message is not valid JSON")
		return
	}

	switch msg.Type {
	case messages.MessageTypeGetCell:
		h.handleGetCell(msg.Payload)
	case messages.MessageTypeUpdateCell:
		h.handleUpdateCell(msg.Payload)
	case messages.MessageTypeReset:
		h.handleReset()
	case messages.MessageTypeRename:
		h.handleRename(msg.Payload)
	case messages.MessageTypeDump:
		h.sendDump()
	case messages.MessageTypePersist:
		h.handlePersist()
	default:
		logging.Warn("unknown message type", "client", conn.ID, "type", msg.Type)
		h.sendError(messages.ErrCodeUnknownType, "Unknown message type received")
	}
}

func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return errors.New("payload is required")
	}
	return json.Unmarshal(payload, v)
}

func (h *ClientHandler) handleGetCell(payload json.RawMessage) {
	var req messages.GetCellMessage
	if err := decodePayload(payload, &req); err != nil {
		h.sendError(messages.ErrCodeBadRequest, err.Error())
		return
	}

	cell, err := h.mapService.Get(req.X, req.Y)
	if err != nil {
		h.sendError(messages.ErrCodeNotFound, err.Error())
		return
	}

	h.send(messages.MessageTypeCell, messages.CellMessage{Cell: cell})
}

func (h *ClientHandler) handleUpdateCell(payload json.RawMessage) {
	var req messages.UpdateCellMessage
	if err := decodePayload(payload, &req); err != nil {
		h.sendError(messages.ErrCodeBadRequest, err.Error())
		return
	}
	if req.Tile == nil {
		h.sendError(messages.ErrCodeBadRequest, "tile is required")
		return
	}

	change, err := h.mapService.Update(req.X, req.Y, *req.Tile)
	var perr *services.PersistError
	switch {
	case err == nil:
		h.send(messages.MessageTypeUpdateResult, messages.UpdateResultMessage{Change: change})
	case errors.As(err, &perr):
		h.send(messages.MessageTypeUpdateResult, messages.UpdateResultMessage{
			Change:       change,
			PersistError: perr.Error(),
		})
	case errors.Is(err, models.ErrOutOfBounds):
		h.sendError(messages.ErrCodeOutOfBounds, err.Error())
	default:
		h.sendError(messages.ErrCodeBadRequest, err.Error())
	}
}

func (h *ClientHandler) handleReset() {
	if err := h.mapService.Reset(); err != nil {
		h.sendError(messages.ErrCodePersistFailure, err.Error())
	}
}

func (h *ClientHandler) handleRename(payload json.RawMessage) {
	var req messages.RenameMessage
	if err := decodePayload(payload, &req); err != nil {
		h.sendError(messages.ErrCodeBadRequest, err.Error())
		return
	}

	err := h.mapService.Rename(req.Name)
	switch {
	case err == nil:
	case errors.Is(err, persistence.ErrInvalidName):
		h.sendError(messages.ErrCodeInvalidName, err.Error())
	default:
		h.sendError(messages.ErrCodePersistFailure, err.Error())
	}
}

func (h *ClientHandler) handlePersist() {
	if err := h.mapService.Persist(); err != nil {
		h.sendError(messages.ErrCodePersistFailure, err.Error())
		return
	}
	h.sendDump()
}

func (h *ClientHandler) sendWelcome() {
	h.send(messages.MessageTypeWelcome, messages.WelcomeMessage{
		ClientID: h.conn.ID,
		Map:      h.dump(),
		Config:   h.mapService.Config(),
	})
}

func (h *ClientHandler) dump() messages.DumpMessage {
	return messages.DumpMessage{
		Name: h.mapService.Name(),
		Dump: h.mapService.Format(),
	}
}

func (h *ClientHandler) sendDump() {
	h.send(messages.MessageTypeDump, h.dump())
}

func (h *ClientHandler) send(msgType messages.MessageType, payload interface{}) {
	msg := messages.BaseMessage{Type: msgType, Payload: payload}
	if err := h.conn.SendMessage(msg); err != nil {
		logging.Warn("error sending message", "client", h.conn.ID, "type", msgType, "err", err)
	}
}

func (h *ClientHandler) sendError(code, message string) {
	h.send(messages.MessageTypeError, messages.ErrorMessage{
		Code:    code,
		Message: message,
	})
}
