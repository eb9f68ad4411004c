//go:build unix

package endpoint

import (
	"os"
	"syscall"
)

func sameDevice(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	as, ok := ai.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	bs, ok := bi.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return as.Dev == bs.Dev
}
