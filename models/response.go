package models

// ErrorResponse is the error body returned by every API endpoint.
type ErrorResponse struct {
	Error string `json:"error" example:"Note not found"`
}

// SuccessResponse is returned by endpoints that have nothing else to say.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// EmptyTrashResponse is returned by DELETE /notes/trash.
type EmptyTrashResponse struct {
	Success bool  `json:"success" example:"true"`
	Deleted int64 `json:"deleted" example:"3"`
}
