package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chatpdf/internal/app"
	"chatpdf/internal/transport/http/response"
)

type DocumentHandler struct {
	documents *app.DocumentService
}

type AskRequest struct {
	Question string `json:"question"`
	Filename string `json:"filename"`
}

func NewDocumentHandler(documents *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Upload accepts a multipart form with "file" and indexes it under its original filename.
func (h *DocumentHandler) Upload(c *gin.Context) {
	log := zerolog.Ctx(c.Request.Context())

	file, err := c.FormFile("file")
	if err != nil {
		log.Error().Err(err).Msg("upload without file")
		response.Error(c, http.StatusInternalServerError, response.MsgUploadFailed)
		return
	}

	f, err := file.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("open uploaded file failed")
		response.Error(c, http.StatusInternalServerError, response.MsgUploadFailed)
		return
	}
	defer f.Close()

	result, err := h.documents.Upload(c.Request.Context(), app.UploadInput{
		Filename: file.Filename,
		Content:  f,
	})
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("pdf parsing failed")
		response.Error(c, http.StatusInternalServerError, response.MsgUploadFailed)
		return
	}

	log.Info().
		Str("filename", result.Filename).
		Int64("bytes", file.Size).
		Int("chars", result.Chars).
		Msg("pdf indexed")
	response.Uploaded(c, result.Filename)
}

func (h *DocumentHandler) Ask(c *gin.Context) {
	log := zerolog.Ctx(c.Request.Context())

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// an unreadable body names no document
		log.Debug().Err(err).Msg("ask payload not decoded")
	}

	result, err := h.documents.Ask(c.Request.Context(), app.AskInput{
		Filename: req.Filename,
		Question: req.Question,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusBadRequest, response.MsgPDFNotFound)
		default:
			log.Error().Err(err).Str("filename", req.Filename).Msg("answer generation failed")
			response.Error(c, http.StatusInternalServerError, response.MsgGenerateFailed)
		}
		return
	}

	response.Answer(c, result.Answer)
}
