package rehydrate

import "fmt"

// stringTable resolves string references against the header blob. A
// reference is a u16 offset into the blob; the entry there is a u8 length
// followed by that many bytes.
type stringTable struct {
	blob  []byte
	cache map[uint16]string
}

func newStringTable(blob []byte) *stringTable {
	return &stringTable{blob: blob, cache: make(map[uint16]string)}
}

func (t *stringTable) lookup(offset uint16) (string, error) {
	if s, ok := t.cache[offset]; ok {
		return s, nil
	}
	start := int(offset)
	if start >= len(t.blob) {
		return "", fmt.Errorf("string offset %d outside %d-byte blob", offset, len(t.blob))
	}
	n := int(t.blob[start])
	end := start + 1 + n
	if end > len(t.blob) {
		return "", fmt.Errorf("string at offset %d runs past end of blob (length %d)", offset, n)
	}
	s := string(t.blob[start+1 : end])
	t.cache[offset] = s
	return s, nil
}
