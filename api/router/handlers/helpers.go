package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"openkeep/errs"
	"openkeep/logger"
	"openkeep/models"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writeJSON: Error encoding response: %v", err)
	}
}

// writeError maps err onto a status code and an {"error": ...} body. Server-side
// failures are logged and answered with a generic message.
func writeError(w http.ResponseWriter, op string, err error) {
	status := errs.HTTPStatus(errs.CodeOf(err))
	if status >= http.StatusInternalServerError {
		logger.Error("%s: %v", op, err)
	} else {
		logger.Debug("%s: %v", op, err)
	}
	writeJSON(w, status, models.ErrorResponse{Error: errs.MessageOf(err)})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errs.Wrap(errs.InvalidArgument, "Invalid request payload", err)
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, "Invalid request payload", err)
	}
	return body, nil
}
