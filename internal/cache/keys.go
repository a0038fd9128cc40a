package cache

import "fmt"

// KeyPrefix - префиксы для разных типов ключей
type KeyPrefix string

const (
	PrefixListing KeyPrefix = "links" // links:ownerID -> listing view
)

// KeyBuilder - построитель ключей кэша
type KeyBuilder struct {
	namespace string // Опциональный namespace для multi-tenancy
}

// NewKeyBuilder создает новый построитель ключей
func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

// Build создает ключ с префиксом и опциональным namespace
func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)

	if k.namespace != "" {
		key = k.namespace + ":" + key
	}

	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// Listing создает ключ для кэшированного списка ссылок владельца
func (k *KeyBuilder) Listing(ownerID string) string {
	return k.Build(PrefixListing, ownerID)
}

// Pattern возвращает паттерн для поиска ключей
func (k *KeyBuilder) Pattern(prefix KeyPrefix) string {
	if k.namespace != "" {
		return fmt.Sprintf("%s:%s:*", k.namespace, prefix)
	}
	return fmt.Sprintf("%s:*", prefix)
}

// DefaultKeyBuilder - построитель ключей по умолчанию
var DefaultKeyBuilder = NewKeyBuilder("")

var CacheKeys = struct {
	Listing func(string) string
}{
	Listing: DefaultKeyBuilder.Listing,
}
