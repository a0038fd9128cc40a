package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized - у вызова нет действительной личности владельца
	ErrUnauthorized = errors.New("authentication required")

	// ErrNotFound - строки нет, либо она принадлежит другому владельцу.
	// Два случая намеренно не различаются, чтобы не раскрывать чужие ссылки.
	ErrNotFound = errors.New("link not found")

	// ErrShortCodeTaken - код уже занят другой строкой
	ErrShortCodeTaken = errors.New("short code already in use")

	// ErrAllocationExhausted - аллокатор не нашел свободный код за лимит попыток
	ErrAllocationExhausted = errors.New("could not allocate a free short code, supply one explicitly")
)

// ValidationError собирает все ошибки по полям одного запроса.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add добавляет сообщение для поля.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors сообщает, было ли хоть одно нарушение.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// PersistenceError - неожиданный сбой хранилища, нормализованный на границе
// оркестратора. Наружу уходит только generic сообщение, детали в логе.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("storage failure during %s", e.Op)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}

// IsValidationError проверяет является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// GetValidationError извлекает ValidationError из ошибки
func GetValidationError(err error) *ValidationError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

// IsPersistenceError проверяет является ли ошибка сбоем хранилища
func IsPersistenceError(err error) bool {
	var persistenceErr *PersistenceError
	return errors.As(err, &persistenceErr)
}
