package gateway

import (
	"encoding/json"
	"net/mail"
	"strings"
	"time"

	"shareit/internal/models"
)

// Payload validation performed before a request is forwarded to the core
// service. The core trusts these shape and range checks and re-validates
// only what could corrupt data.

type createUserPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p createUserPayload) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return models.BadRequest("name must not be blank")
	}
	if len(p.Name) > models.MaxUserNameLen {
		return models.BadRequest("name must be at most %d characters", models.MaxUserNameLen)
	}
	return validateEmail(p.Email, true)
}

type updateUserPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p updateUserPayload) validate() error {
	if len(p.Name) > models.MaxUserNameLen {
		return models.BadRequest("name must be at most %d characters", models.MaxUserNameLen)
	}
	if p.Email == "" {
		return nil
	}
	return validateEmail(p.Email, false)
}

func validateEmail(email string, required bool) error {
	if email == "" {
		if required {
			return models.BadRequest("email must not be blank")
		}
		return nil
	}
	if len(email) > models.MaxEmailLen {
		return models.BadRequest("email must be at most %d characters", models.MaxEmailLen)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.BadRequest("email %s is not a valid address", email)
	}
	return nil
}

type createItemPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

func (p createItemPayload) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return models.BadRequest("name must not be blank")
	}
	if len(p.Name) > models.MaxItemNameLen {
		return models.BadRequest("name must be at most %d characters", models.MaxItemNameLen)
	}
	if strings.TrimSpace(p.Description) == "" {
		return models.BadRequest("description must not be blank")
	}
	if len(p.Description) > models.MaxDescriptionLen {
		return models.BadRequest("description must be at most %d characters", models.MaxDescriptionLen)
	}
	if p.Available == nil {
		return models.BadRequest("available is required")
	}
	return nil
}

type updateItemPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

func (p updateItemPayload) validate() error {
	if p.Name != nil && len(*p.Name) > models.MaxItemNameLen {
		return models.BadRequest("name must be at most %d characters", models.MaxItemNameLen)
	}
	if p.Description != nil && len(*p.Description) > models.MaxDescriptionLen {
		return models.BadRequest("description must be at most %d characters", models.MaxDescriptionLen)
	}
	return nil
}

type createBookingPayload struct {
	ItemID *int64     `json:"itemId"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// validate checks the booking window against "now": the start may be
// present or future, the end must be strictly future and after the start.
func (p createBookingPayload) validate(now time.Time) error {
	if p.ItemID == nil {
		return models.BadRequest("itemId is required")
	}
	if p.Start == nil || p.End == nil {
		return models.BadRequest("start and end are required")
	}
	if p.Start.Before(now) {
		return models.BadRequest("start must not be in the past")
	}
	if !p.End.After(now) {
		return models.BadRequest("end must be in the future")
	}
	if !p.End.After(*p.Start) {
		return models.BadRequest("end must be after start")
	}
	return nil
}

type commentPayload struct {
	Text string `json:"text"`
}

func (p commentPayload) validate() error {
	if strings.TrimSpace(p.Text) == "" {
		return models.BadRequest("text must not be blank")
	}
	if len(p.Text) > models.MaxCommentLen {
		return models.BadRequest("text must be at most %d characters", models.MaxCommentLen)
	}
	return nil
}

type createRequestPayload struct {
	Description string `json:"description"`
}

func (p createRequestPayload) validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return models.BadRequest("description must not be blank")
	}
	if len(p.Description) > models.MaxDescriptionLen {
		return models.BadRequest("description must be at most %d characters", models.MaxDescriptionLen)
	}
	return nil
}

func decodePayload(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return models.BadRequest("invalid request body")
	}
	return nil
}
