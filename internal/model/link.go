package model

import "time"

// Link is the single persisted entity: one short code owned by one user,
// pointing at one destination URL.
type Link struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"-"`
	URL       string    `json:"url"`
	ShortCode string    `json:"short_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateLinkRequest struct {
	URL       string `json:"url"`
	ShortCode string `json:"short_code"`
}

type UpdateLinkRequest struct {
	URL       string `json:"url"`
	ShortCode string `json:"short_code"`
}

// Result is the uniform envelope every mutation entry point returns.
type Result struct {
	OK          bool                `json:"ok"`
	Data        interface{}         `json:"data,omitempty"`
	Error       string              `json:"error,omitempty"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

func Success(data interface{}) Result {
	return Result{OK: true, Data: data}
}

func Failure(msg string) Result {
	return Result{OK: false, Error: msg}
}

func FailureWithFields(msg string, fields map[string][]string) Result {
	return Result{OK: false, Error: msg, FieldErrors: fields}
}
