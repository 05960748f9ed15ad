// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/session"
)

// UploadHandler accepts admin file uploads and forwards them to the API
// storage endpoint. Responses are JSON because the admin forms submit
// uploads asynchronously.
type UploadHandler struct {
	client   *api.Client
	sessions *session.Store
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(client *api.Client, sessions *session.Store) *UploadHandler {
	return &UploadHandler{client: client, sessions: sessions}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// Upload handles POST multipart uploads. The size check runs against
// the multipart header before any bytes go to the API: an oversize file
// is rejected without an upstream request.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// One extra MB for the multipart framing around a max-size file.
	r.Body = http.MaxBytesReader(w, r.Body, api.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeUploadError(w, http.StatusRequestEntityTooLarge, api.ErrFileTooLarge.Error())
			return
		}
		writeUploadError(w, http.StatusBadRequest, "Invalid upload request")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, "No file in request")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > api.MaxUploadSize {
		writeUploadError(w, http.StatusRequestEntityTooLarge, api.ErrFileTooLarge.Error())
		return
	}

	result, err := h.client.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			if serr := h.sessions.SignOut(r.Context()); serr != nil {
				slog.Error("session purge after 401 failed", "error", serr)
			}
			writeUploadError(w, http.StatusUnauthorized, "Session expired")
			return
		}
		status := http.StatusBadGateway
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status != 0 {
			status = apiErr.Status
		}
		writeUploadError(w, status, err.Error())
		return
	}

	slog.Info("file uploaded", "filename", header.Filename, "size", header.Size, "url", result.URL)
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, URL: result.URL})
}

func writeUploadError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, uploadResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response failed", "error", err)
	}
}
