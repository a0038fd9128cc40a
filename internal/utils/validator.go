package utils

import (
	"net/url"
	"regexp"
	"strings"

	apperrors "github.com/ido-nevo/mylinkshortenerproject/internal/errors"
)

var shortCodeAlphabet = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	ShortCodeMinLength = 3
	ShortCodeMaxLength = 20
	maxURLLength       = 2048
)

// ValidateLinkInput схемная проверка пользовательского ввода до любых побочных
// эффектов. Пустой shortCode допустим только при codeRequired == false (создание
// с автогенерацией). Возвращает nil, если нарушений нет.
func ValidateLinkInput(rawURL, shortCode string, codeRequired bool) *apperrors.ValidationError {
	ve := apperrors.NewValidationError()

	validateDestinationURL(rawURL, ve)

	if shortCode == "" {
		if codeRequired {
			ve.Add("short_code", "short code is required")
		}
	} else {
		validateShortCode(shortCode, ve)
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateDestinationURL(rawURL string, ve *apperrors.ValidationError) {
	if rawURL == "" {
		ve.Add("url", "URL cannot be empty")
		return
	}

	if len(rawURL) > maxURLLength {
		ve.Add("url", "URL is too long (max 2048 characters)")
		return
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		ve.Add("url", "invalid URL format")
		return
	}

	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		ve.Add("url", "URL must be absolute (scheme and host required)")
	}
}

func validateShortCode(shortCode string, ve *apperrors.ValidationError) {
	if len(shortCode) < ShortCodeMinLength || len(shortCode) > ShortCodeMaxLength {
		ve.Add("short_code", "short code must be between 3 and 20 characters")
	}

	if !shortCodeAlphabet.MatchString(shortCode) {
		ve.Add("short_code", "short code may only contain letters, digits, '-' and '_'")
	}
}

// SanitizeInput удаляет управляющие символы и обрезает пробелы
func SanitizeInput(input string) string {
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1 // удаляем символ
		}
		return r
	}, input)

	return strings.TrimSpace(result)
}
