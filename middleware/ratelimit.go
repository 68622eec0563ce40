package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// WriteRateLimit 写接口限流中间件
// 每 IP 每窗口期最多 maxRequests 次写请求（POST/PATCH/DELETE），超过则返回 429
// 过期数据在请求路径上顺带清理，不占用常驻后台协程
func WriteRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	type entry struct {
		timestamps []time.Time
	}
	var (
		mu        sync.Mutex
		store     = make(map[string]*entry)
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		ip := c.ClientIP()
		now := time.Now()
		cutoff := now.Add(-window)
		mu.Lock()
		// 每隔一个窗口期全量清理一次，防止陈旧 IP 累积
		if now.Sub(lastSweep) >= window {
			for key, e := range store {
				newTs := e.timestamps[:0]
				for _, t := range e.timestamps {
					if t.After(cutoff) {
						newTs = append(newTs, t)
					}
				}
				if len(newTs) == 0 {
					delete(store, key)
				} else {
					e.timestamps = newTs
				}
			}
			lastSweep = now
		}
		e, ok := store[ip]
		if !ok {
			e = &entry{}
			store[ip] = e
		}
		// 移除窗口外的记录
		newTs := e.timestamps[:0]
		for _, t := range e.timestamps {
			if t.After(cutoff) {
				newTs = append(newTs, t)
			}
		}
		e.timestamps = newTs
		if len(e.timestamps) >= maxRequests {
			mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"detail": "too many requests",
			})
			c.Abort()
			return
		}
		e.timestamps = append(e.timestamps, now)
		mu.Unlock()
		c.Next()
	}
}
