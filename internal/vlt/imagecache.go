//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ImageCache - rendered clouds keyed by group, model generation, and source; a refit changes the generation,
// so stale images age out instead of being served
type ImageCache struct {
	c *lru.Cache[string, []byte]
}

func MakeImageCache(size int) (*ImageCache, error) {
	if size < 1 {
		size = 1
	}
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &ImageCache{c: c}, nil
}

func ImageKey(group string, generation uint64, source string, format string) string {
	return fmt.Sprintf("%s|%d|%s|%s", group, generation, source, format)
}

func (ic *ImageCache) Get(key string) ([]byte, bool) {
	return ic.c.Get(key)
}

func (ic *ImageCache) Add(key string, b []byte) {
	ic.c.Add(key, b)
}

func (ic *ImageCache) Len() int {
	return ic.c.Len()
}

func (ic *ImageCache) Purge() {
	ic.c.Purge()
}
