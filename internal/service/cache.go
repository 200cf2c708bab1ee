// cache.go — LRU-кэш содержимого файлов с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable. Кэшируются только байты
// и MIME: содержимое blob-а неизменяемо после создания, поэтому инвалидация
// не требуется; видимость записи проверяется заново на каждый запрос.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш контента.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша контента.",
	})
)

// Content — содержимое файла с MIME-типом.
type Content struct {
	// Data — сырые байты blob-а
	Data []byte
	// MIME — тип по расширению имени записи
	MIME string
}

// CacheService — LRU-кэш содержимого файлов с автоматическим TTL.
// Каждый экземпляр процесса имеет собственный in-memory кэш.
type CacheService struct {
	cache *expirable.LRU[string, *Content]
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	cache := expirable.NewLRU[string, *Content](maxSize, nil, ttl)
	return &CacheService{cache: cache}
}

// Get возвращает содержимое из кэша по fileID.
// Возвращает (контент, true) при hit или (nil, false) при miss.
func (c *CacheService) Get(fileID string) (*Content, bool) {
	val, ok := c.cache.Get(fileID)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет содержимое в кэше.
func (c *CacheService) Set(fileID string, content *Content) {
	c.cache.Add(fileID, content)
}
