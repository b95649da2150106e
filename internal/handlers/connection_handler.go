package handlers

import (
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const connectionNotFound = "Connection not found"

type ConnectionHandler struct {
	connections *services.ConnectionService
}

func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

func (h *ConnectionHandler) List(c *fiber.Ctx) error {
	userID, err := session.CurrentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	connections, err := h.connections.List(c.UserContext(), userID)
	if err != nil {
		return writeResourceError(c, err, connectionNotFound)
	}

	data := make([]dto.ConnectionResponse, 0, len(connections))
	for i := range connections {
		data = append(data, services.ConnectionResponse(&connections[i]))
	}
	return c.JSON(dto.Envelope{Success: true, Data: data})
}

func (h *ConnectionHandler) Get(c *fiber.Ctx) error {
	userID, err := session.CurrentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeResourceError(c, services.ErrNotFound, connectionNotFound)
	}

	connection, err := h.connections.Get(c.UserContext(), userID, id)
	if err != nil {
		return writeResourceError(c, err, connectionNotFound)
	}
	return c.JSON(dto.Envelope{Success: true, Data: services.ConnectionResponse(connection)})
}

func (h *ConnectionHandler) Create(c *fiber.Ctx) error {
	userID, err := session.CurrentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	var req dto.ConnectionRequest
	if err := c.BodyParser(&req); err != nil || req.Connection == nil {
		return missingParameter(c, "connection")
	}

	connection, err := h.connections.Create(c.UserContext(), userID, req.Connection)
	if err != nil {
		return writeResourceError(c, err, connectionNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{
		Success: true,
		Data:    services.ConnectionResponse(connection),
		Message: "Connection created successfully",
	})
}

func (h *ConnectionHandler) Update(c *fiber.Ctx) error {
	userID, err := session.CurrentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeResourceError(c, services.ErrNotFound, connectionNotFound)
	}
	var req dto.ConnectionRequest
	if err := c.BodyParser(&req); err != nil || req.Connection == nil {
		return missingParameter(c, "connection")
	}

	connection, err := h.connections.Update(c.UserContext(), userID, id, req.Connection)
	if err != nil {
		return writeResourceError(c, err, connectionNotFound)
	}
	return c.JSON(dto.Envelope{
		Success: true,
		Data:    services.ConnectionResponse(connection),
		Message: "Connection updated successfully",
	})
}

func (h *ConnectionHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.CurrentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeResourceError(c, services.ErrNotFound, connectionNotFound)
	}

	if err := h.connections.Delete(c.UserContext(), userID, id); err != nil {
		return writeResourceError(c, err, connectionNotFound)
	}
	return c.JSON(dto.Envelope{Success: true, Message: "Connection deleted successfully"})
}
