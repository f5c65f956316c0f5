package response

import "github.com/gin-gonic/gin"

// Client-visible messages. The browser UI and existing clients match on
// these strings, so they must not change.
const (
	MsgUploadOK       = "Upload successful"
	MsgUploadFailed   = "Error processing PDF"
	MsgPDFNotFound    = "PDF not found"
	MsgGenerateFailed = "Error generating answer."
)

type MessageResponse struct {
	Message string `json:"message"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

type AnswerResponse struct {
	Answer string `json:"answer"`
}

func Uploaded(c *gin.Context, filename string) {
	c.JSON(200, UploadResponse{
		Message:  MsgUploadOK,
		Filename: filename,
	})
}

func Answer(c *gin.Context, answer string) {
	c.JSON(200, AnswerResponse{Answer: answer})
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, MessageResponse{Message: message})
}
