// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// MaxUploadSize is the client-side upload ceiling. Larger files are
// rejected before any network call is made.
const MaxUploadSize = 20 * 1024 * 1024 // 20MB

// ErrFileTooLarge is returned for uploads exceeding MaxUploadSize.
var ErrFileTooLarge = &Error{Message: fmt.Sprintf("File is too large (maximum %dMB)", MaxUploadSize/(1024*1024))}

// UploadResult is the stored-file descriptor returned by the API.
type UploadResult struct {
	URL string `json:"url"`

	// Width and Height are filled client-side for image uploads.
	Width  int `json:"-"`
	Height int `json:"-"`
}

// Upload sends a file to the API upload endpoint and returns the stored
// URL. Files over MaxUploadSize are rejected locally. Image payloads are
// decoded first: a file claiming an image content type that cannot be
// decoded is rejected, and its pixel dimensions are recorded on success.
func (c *Client) Upload(ctx context.Context, filename, contentType string, size int64, file io.Reader) (*UploadResult, error) {
	if size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	var result UploadResult
	payload := file
	if strings.HasPrefix(contentType, "image/") {
		buf, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
		if err != nil {
			return nil, &Error{Message: "Could not read file", err: err}
		}
		if int64(len(buf)) > MaxUploadSize {
			return nil, ErrFileTooLarge
		}
		img, err := imaging.Decode(bytes.NewReader(buf))
		if err != nil {
			return nil, &Error{Message: "File is not a valid image", err: err}
		}
		bounds := img.Bounds()
		result.Width = bounds.Dx()
		result.Height = bounds.Dy()
		payload = bytes.NewReader(buf)
	}

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &Error{Message: "Could not prepare upload", err: err}
	}
	if _, err := io.Copy(part, payload); err != nil {
		return nil, &Error{Message: "Could not read file", err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Message: "Could not prepare upload", err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve("/upload"), body)
	if err != nil {
		return nil, &Error{Message: "Could not prepare upload", err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: msgNoResponse, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := c.decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
