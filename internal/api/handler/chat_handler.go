package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
)

// HistoryReadLimit is the number of messages returned by the history endpoint.
const HistoryReadLimit = domain.HistoryMaxMessages

// ChatHandler handles the assistant chat endpoints.
type ChatHandler struct {
	chat    ports.ChatService
	history ports.HistoryService
}

func NewChatHandler(chat ports.ChatService, history ports.HistoryService) *ChatHandler {
	return &ChatHandler{chat: chat, history: history}
}

// Message handles POST /api/chat/message.
//
// @Summary      Send a message to the assistant
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      chatMessageRequest  true  "Message and session id"
// @Success      200   {object}  chatMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /chat/message [post]
func (h *ChatHandler) Message(c echo.Context) error {
	var req chatMessageRequest
	if err := c.Bind(&req); err != nil {
		return domain.Validationf("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reply, err := h.chat.Complete(c.Request().Context(), req.SessionID, req.Message)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, chatMessageResponse{
		Success:   true,
		Message:   reply,
		SessionID: req.SessionID,
	})
}

// History handles GET /api/chat/history/:sessionId.
//
// @Summary      Get the chat history of a session
// @Tags         chat
// @Produce      json
// @Param        sessionId  path      string  true  "Session id"
// @Success      200        {object}  chatHistoryResponse
// @Router       /chat/history/{sessionId} [get]
func (h *ChatHandler) History(c echo.Context) error {
	history := h.history.GetHistory(c.Request().Context(), c.Param("sessionId"), HistoryReadLimit)
	return c.JSON(http.StatusOK, chatHistoryResponse{Success: true, History: history})
}

// ClearHistory handles DELETE /api/chat/history/:sessionId.
//
// @Summary      Clear the chat history of a session
// @Tags         chat
// @Produce      json
// @Param        sessionId  path      string  true  "Session id"
// @Success      200        {object}  messageResponse
// @Failure      500        {object}  errorResponse
// @Router       /chat/history/{sessionId} [delete]
func (h *ChatHandler) ClearHistory(c echo.Context) error {
	if !h.history.ClearHistory(c.Request().Context(), c.Param("sessionId")) {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error clearing chat history")
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Chat history cleared"})
}
