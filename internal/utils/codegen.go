package utils

import (
	"net/url"
	"strings"
)

const (
	// MaxBaseLength - длина базового кандидата после очистки
	MaxBaseLength = 10

	// FallbackBase используется когда из хоста ничего не осталось
	FallbackBase = "link"
)

// DeriveBase строит базовый кандидат короткого кода из адреса назначения:
// первая метка хоста без "www.", в нижнем регистре, только [a-z0-9],
// не длиннее MaxBaseLength. Для "https://www.youtube.com/watch?v=x" это "youtube".
func DeriveBase(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return FallbackBase
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")

	label, _, _ := strings.Cut(host, ".")

	var b strings.Builder
	for _, r := range label {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	base := b.String()
	if len(base) > MaxBaseLength {
		base = base[:MaxBaseLength]
	}
	if base == "" {
		return FallbackBase
	}
	return base
}
