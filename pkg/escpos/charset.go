// pkg/escpos/charset.go
package escpos

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Charset is a printer character code table selectable with ESC t
type Charset int

const (
	CharsetPC437 Charset = iota
	CharsetPC850
	CharsetPC852
	CharsetPC858
)

type charsetEntry struct {
	name  string
	code  byte
	table *charmap.Charmap
}

var charsets = map[Charset]charsetEntry{
	CharsetPC437: {name: "PC437", code: 0x00, table: charmap.CodePage437},
	CharsetPC850: {name: "PC850", code: 0x02, table: charmap.CodePage850},
	CharsetPC852: {name: "PC852", code: 0x12, table: charmap.CodePage852},
	CharsetPC858: {name: "PC858", code: 0x13, table: charmap.CodePage858},
}

func (c Charset) String() string {
	if e, ok := charsets[c]; ok {
		return e.name
	}
	return "UNKNOWN"
}

func (c Charset) valid() bool {
	_, ok := charsets[c]
	return ok
}

// ParseCharset maps a code page name such as "pc850" or "850" to a Charset
func ParseCharset(s string) (Charset, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, "PC") {
		name = "PC" + name
	}
	for c, e := range charsets {
		if e.name == name {
			return c, nil
		}
	}
	return 0, invalidParameter("unknown character set %q", s)
}

const replacementByte = '?'

// translate encodes UTF-8 text into the code page; unencodable runes become '?'
func (c Charset) translate(text string) ([]byte, error) {
	e, ok := charsets[c]
	if !ok {
		return nil, invalidParameter("unknown character set %d", int(c))
	}
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := e.table.EncodeRune(r)
		if !ok {
			b = replacementByte
		}
		out = append(out, b)
	}
	return out, nil
}
