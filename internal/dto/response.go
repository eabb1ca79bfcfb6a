package dto

import (
	"DocVault/model"
	"time"
)

type UserResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type DocumentResponse struct {
	ID        uint64    `json:"id"`
	Filename  string    `json:"filename"`
	Filesize  int64     `json:"filesize"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDocumentResponse maps a catalog row to its wire shape.
func NewDocumentResponse(doc *model.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		Filename:  doc.Filename,
		Filesize:  doc.Filesize,
		CreatedAt: doc.CreatedAt,
	}
}

// NewDocumentList maps catalog rows to their wire shape, never nil so the
// JSON stays an array.
func NewDocumentList(docs []model.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, NewDocumentResponse(&docs[i]))
	}
	return out
}
