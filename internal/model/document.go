package model

import "time"

// Document is the extracted text of one uploaded PDF, keyed by its original filename.
type Document struct {
	Filename   string    `json:"filename"`
	Text       string    `json:"text"`
	UploadedAt time.Time `json:"uploaded_at"`
}
