package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iudanet/jwtgate/pkg/api"
)

// RateLimiter ограничивает частоту запросов по ключу (обычно IP адрес).
// Для каждого ключа хранится свой token bucket из golang.org/x/time/rate.
// Ключом служит адрес TCP пира; X-Forwarded-For и X-Real-IP учитываются
// только если пир входит в список доверенных прокси.
type RateLimiter struct {
	buckets  map[string]*bucket
	logger   *slog.Logger
	cleanupC chan struct{}
	trusted  []netip.Prefix
	stopOnce sync.Once
	limit    rate.Limit
	burst    int
	window   time.Duration
	mu       sync.RWMutex
}

// bucket представляет limiter для конкретного IP/ключа
type bucket struct {
	lastSeen time.Time
	limiter  *rate.Limiter
	mu       sync.Mutex
}

// NewRateLimiter создает новый rate limiter
// requests - максимальное количество запросов за window, bucket пополняется равномерно
func NewRateLimiter(requests int, window time.Duration, logger *slog.Logger) *RateLimiter {
	if requests < 1 {
		requests = 1
	}

	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		window:   window,
		logger:   logger,
		cleanupC: make(chan struct{}),
	}

	// Запускаем периодическую очистку старых buckets
	go rl.cleanup()

	return rl
}

// WithTrustedProxies задает прокси, заголовкам которых можно верить.
// Вызывается до начала обслуживания запросов.
func (rl *RateLimiter) WithTrustedProxies(prefixes []netip.Prefix) *RateLimiter {
	rl.trusted = prefixes
	return rl
}

// cleanup периодически удаляет неактивные buckets для экономии памяти
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldBuckets()
		case <-rl.cleanupC:
			return
		}
	}
}

// cleanupOldBuckets удаляет buckets, которые не использовались дольше 2*window
func (rl *RateLimiter) cleanupOldBuckets() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, b := range rl.buckets {
		b.mu.Lock()
		if now.Sub(b.lastSeen) > rl.window*2 {
			delete(rl.buckets, key)
		}
		b.mu.Unlock()
	}
}

// Stop останавливает cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.cleanupC)
	})
}

// Allow проверяет, разрешен ли запрос для данного ключа
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.RLock()
	b, exists := rl.buckets[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		// Повторная проверка под эксклюзивной блокировкой
		b, exists = rl.buckets[key]
		if !exists {
			b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
			rl.buckets[key] = b
		}
		rl.mu.Unlock()
	}

	b.mu.Lock()
	b.lastSeen = time.Now()
	b.mu.Unlock()

	return b.limiter.Allow()
}

// Middleware возвращает 429 с JSON ошибкой, если лимит для IP клиента исчерпан
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Используем IP адрес как ключ
		key := clientIP(r, rl.trusted)

		if !rl.Allow(key) {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded",
				slog.String("ip", key),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{
				Error:   http.StatusText(http.StatusTooManyRequests),
				Message: "rate limit exceeded, please try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP извлекает IP адрес клиента из запроса.
// Заголовки прокси читаются только когда RemoteAddr принадлежит доверенной сети,
// иначе любой клиент мог бы менять ключ лимита подстановкой X-Forwarded-For.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		host = r.RemoteAddr
	}

	peer, err := netip.ParseAddr(host)
	if err != nil || !isTrusted(peer, trusted) {
		return host
	}

	// Идем справа налево: правые адреса добавлены нашими прокси,
	// первый недоверенный адрес и есть клиент
	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(v, ",")...)
	}
	var leftmost string
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			// Мусор в цепочке: дальше доверять нельзя
			break
		}
		if !isTrusted(hop, trusted) {
			return hop.Unmap().String()
		}
		leftmost = hop.Unmap().String()
	}
	if leftmost != "" {
		return leftmost
	}

	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}

	return host
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
