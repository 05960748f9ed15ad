// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/89tcapl/advisors-web/internal/util"
)

// validateSlug normalizes and validates a slug form value. An empty
// input derives the slug from title so the API and the admin UI agree
// on what will be stored.
func validateSlug(slug, title string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = util.Slugify(title)
	}
	if !util.IsValidSlug(slug) {
		return "", fmt.Errorf("invalid slug %q: use lowercase letters, digits and hyphens", slug)
	}
	return slug, nil
}

// validateEmail checks an email form value.
func validateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("invalid email address")
	}
	return email, nil
}

// requiredField pairs a form field's display name with its submitted value.
type requiredField struct {
	name  string
	value string
}

// validateRequired checks that every listed form field is non-blank and
// reports the first missing one, in the order the fields appear on the form.
func validateRequired(fields ...requiredField) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s is required", f.name)
		}
	}
	return nil
}

const (
	minPasswordLength = 6
	maxExcerptLength  = 300
)

// validatePassword enforces the minimum the API accepts.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// validateExcerpt caps blog excerpts so list cards stay uniform.
func validateExcerpt(excerpt string) error {
	if len([]rune(excerpt)) > maxExcerptLength {
		return fmt.Errorf("excerpt must be at most %d characters", maxExcerptLength)
	}
	return nil
}
