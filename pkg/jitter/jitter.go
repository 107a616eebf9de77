// Package jitter добавляет случайность в интервалы повторных попыток,
// чтобы фоновые компенсации не били по хранилищу синхронно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
	rngMu sync.Mutex
)

// Duration возвращает d со случайной добавкой в диапазоне [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	rngMu.Lock()
	add := rng.Float64() * factor * float64(d)
	rngMu.Unlock()

	return d + time.Duration(add)
}

// ExponentialBackoff вычисляет задержку перед попыткой attempt (с нуля):
// base удваивается на каждую попытку, ограничивается max и размазывается джиттером.
func ExponentialBackoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= max {
			backoff = max
			break
		}
	}

	return Duration(backoff, factor)
}
