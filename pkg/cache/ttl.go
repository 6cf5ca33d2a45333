package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTLCache é um conjunto de chaves com expiração fixa, mantido apenas em memória.
// Entradas expiradas são tratadas como ausentes na leitura e removidas pelo janitor a cada sweep.
type TTLCache struct {
	items *gocache.Cache
	ttl   time.Duration
}

func NewTTLCache(ttl, sweep time.Duration) *TTLCache {
	return &TTLCache{
		items: gocache.New(ttl, sweep),
		ttl:   ttl,
	}
}

func (c *TTLCache) Set(key string, value any) {
	c.items.Set(key, value, c.ttl)
}

func (c *TTLCache) Get(key string) (any, bool) {
	return c.items.Get(key)
}

func (c *TTLCache) Has(key string) bool {
	_, ok := c.items.Get(key)
	return ok
}

// Mark registra a chave se ainda não estiver presente. Retorna false quando já existia.
func (c *TTLCache) Mark(key string) bool {
	return c.items.Add(key, true, c.ttl) == nil
}

func (c *TTLCache) Delete(key string) {
	c.items.Delete(key)
}

func (c *TTLCache) Clear() {
	c.items.Flush()
}

// Len inclui entradas expiradas que o janitor ainda não removeu
func (c *TTLCache) Len() int {
	return c.items.ItemCount()
}

// DeleteExpired força a limpeza sem esperar o próximo sweep
func (c *TTLCache) DeleteExpired() {
	c.items.DeleteExpired()
}
