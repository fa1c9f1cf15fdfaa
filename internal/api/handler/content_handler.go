package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
)

type ContentHandler struct {
	service ports.ContentService
}

func NewContentHandler(service ports.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// Section handles GET /api/content/:section.
//
// @Summary      Get a site content section
// @Tags         content
// @Produce      json
// @Param        section  path      string  true  "Section name (e.g. home)"
// @Success      200      {object}  contentResponse
// @Failure      404      {object}  errorResponse
// @Router       /content/{section} [get]
func (h *ContentHandler) Section(c echo.Context) error {
	content, err := h.service.Section(c.Request().Context(), c.Param("section"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contentResponse{Success: true, Content: content})
}
