package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chatpdf/internal/config"
)

// ClientConfigHandler tells the browser UI where the backend lives.
type ClientConfigHandler struct {
	cfg config.ClientConfig
}

type ClientConfigResponse struct {
	UploadURL        string `json:"upload_url"`
	AskURL           string `json:"ask_url"`
	RequestTimeoutMS int    `json:"request_timeout_ms"`
}

func NewClientConfigHandler(cfg config.ClientConfig) *ClientConfigHandler {
	return &ClientConfigHandler{cfg: cfg}
}

func (h *ClientConfigHandler) Get(c *gin.Context) {
	base := strings.TrimRight(strings.TrimSpace(h.cfg.APIBaseURL), "/")
	c.JSON(http.StatusOK, ClientConfigResponse{
		UploadURL:        base + "/upload",
		AskURL:           base + "/ask",
		RequestTimeoutMS: h.cfg.RequestTimeoutMS,
	})
}
