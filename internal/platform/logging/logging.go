// Package logging は標準 log に [LEVEL] プレフィックスを付けるだけの薄いラッパー。
package logging

import (
	"log"
	"sync/atomic"
)

var debug atomic.Bool

// SetDebug: config の log.debug に合わせて [DEBUG] 出力を切り替える
func SetDebug(on bool) { debug.Store(on) }

func Debugf(format string, args ...any) {
	if !debug.Load() {
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}

func Infof(format string, args ...any) { log.Printf("[INFO] "+format, args...) }

func Warnf(format string, args ...any) { log.Printf("[WARN] "+format, args...) }
