package handler

import (
	"dyslexiatutor/internal/repository"
	"dyslexiatutor/internal/service"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service failures onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	var upstream *service.UpstreamError
	var dataErr *repository.DataLoadError

	switch {
	case errors.Is(err, service.ErrInvalidMode), errors.Is(err, service.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoActiveSession),
		errors.Is(err, service.ErrSessionComplete),
		errors.Is(err, service.ErrSessionBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, upstream.Service+" service unavailable")
	case errors.As(err, &dataErr):
		slog.Error("question bank unavailable", "mode", dataErr.Mode, "source", dataErr.Source, "error", dataErr.Err)
		writeError(w, http.StatusInternalServerError, "question bank unavailable")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody fills dst from a JSON body, or from form fields named after
// dst's JSON keys for form posts.
func decodeBody(r *http.Request, dst interface{}) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		data, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, dst)
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
