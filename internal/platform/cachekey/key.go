// Package cachekey derives stable, file-name-safe cache keys from a resource
// name and its request parameters.
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/valyala/bytebufferpool"
)

const (
	MaxKeyLength = 160

	componentSep = '_'
	valueSep     = '='
	absentMark   = '~'
)

const upperHex = "0123456789ABCDEF"

// Build renders resource and params into a key. Params are ordered by name and
// then by value, so the caller's argument order never matters, repeated names
// included. Absent params render as "name~", which cannot collide with any
// concrete value.
func Build(resource string, params ...Param) string {
	sorted := slices.Clone(params)
	slices.SortFunc(sorted, compareParams)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	escapeInto(buf, resource)
	for _, p := range sorted {
		_ = buf.WriteByte(componentSep)
		escapeInto(buf, p.Name)
		if !p.Present() {
			_ = buf.WriteByte(absentMark)
			continue
		}
		_ = buf.WriteByte(valueSep)
		escapeInto(buf, p.Render())
	}

	key := buf.String()
	if len(key) <= MaxKeyLength {
		return key
	}

	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	return key[:MaxKeyLength-len(digest)-1] + string(componentSep) + digest
}

// compareParams puts an absent param before any present one of the same name.
func compareParams(a, b Param) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	switch ap, bp := a.Present(), b.Present(); {
	case ap != bp:
		if ap {
			return 1
		}
		return -1
	case !ap:
		return 0
	}
	return strings.Compare(a.Render(), b.Render())
}

func escapeInto(buf *bytebufferpool.ByteBuffer, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			_ = buf.WriteByte(c)
			continue
		}
		_, _ = buf.Write([]byte{'%', upperHex[c>>4], upperHex[c&0x0f]})
	}
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-':
		return true
	}
	return false
}
