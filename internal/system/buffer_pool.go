package system

import (
	"image"
	"sync"
)

// GrayPool переиспользует буферы image.Gray одного размера между кадрами,
// чтобы пакетная обработка не нагружала сборщик мусора.
type GrayPool struct {
	pools map[image.Point]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &GrayPool{
	pools: make(map[image.Point]*sync.Pool),
}

// GetGray возвращает *image.Gray с границами (0,0)-size из пула или создает
// новый. Содержимое буфера не очищается.
func GetGray(size image.Point) *image.Gray {
	return globalPool.Get(size)
}

// PutGray возвращает буфер в пул.
func PutGray(img *image.Gray) {
	globalPool.Put(img)
}

func (p *GrayPool) Get(size image.Point) *image.Gray {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[size]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewGray(image.Rectangle{Max: size})
				},
			}
			p.pools[size] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.Gray)
}

func (p *GrayPool) Put(img *image.Gray) {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect.Max]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
