package progress

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"pfmlportal/pkg/domain"
)

// Context is the data a Step inspects: the claim being edited, the
// documents loaded for it, and any query parameters of the current page.
// Field paths are resolved against its JSON view
//
//	{"claim": {...}, "documents": [...], "query": {...}}
type Context struct {
	Claim     domain.Claim
	Documents domain.DocumentCollection
	Query     map[string]string
}

type contextDocument struct {
	Claim     domain.Claim      `json:"claim"`
	Documents []domain.Document `json:"documents"`
	Query     map[string]string `json:"query"`
}

// document is rebuilt on every call so that lookups always reflect the
// current context values.
func (c Context) document() []byte {
	raw, err := json.Marshal(contextDocument{
		Claim:     c.Claim,
		Documents: c.Documents.Items(),
		Query:     c.Query,
	})
	if err != nil {
		return nil
	}
	return raw
}

// Lookup resolves a dotted/bracketed path such as
// claim.leave_details.continuous_leave_periods[0].start_date.
// Unresolvable paths yield a Result whose Exists reports false.
func (c Context) Lookup(path string) gjson.Result {
	return lookup(c.document(), path)
}

// HasValue reports whether path resolves to a present value. A wildcard
// path ([*]) has a value when any matched element does.
func (c Context) HasValue(path string) bool {
	return hasValue(c.document(), path)
}

func hasValue(doc []byte, path string) bool {
	r := lookup(doc, path)
	if strings.Contains(path, "[*]") && r.IsArray() {
		for _, el := range r.Array() {
			if present(el) {
				return true
			}
		}
		return false
	}
	return present(r)
}

func lookup(doc []byte, path string) gjson.Result {
	if len(doc) == 0 || strings.TrimSpace(path) == "" {
		return gjson.Result{}
	}
	return gjson.GetBytes(doc, gjsonPath(path))
}

// gjsonPath rewrites a[0].b into a.0.b and a[*].b into a.#.b, escaping the
// characters gjson would otherwise treat as query syntax.
func gjsonPath(path string) string {
	var b strings.Builder
	path = strings.TrimSpace(path)
	for i := 0; i < len(path); i++ {
		ch := path[i]
		switch ch {
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				b.WriteString(escapeSegment(path[i:]))
				return b.String()
			}
			idx := strings.TrimSpace(path[i+1 : i+end])
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			if idx == "*" {
				b.WriteByte('#')
			} else {
				b.WriteString(escapeSegment(idx))
			}
			i += end
		default:
			b.WriteString(escapeSegment(string(ch)))
		}
	}
	return b.String()
}

func escapeSegment(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// present treats booleans and numbers as values even when false or zero;
// strings, arrays and objects count only when non-empty.
func present(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch r.Type {
	case gjson.True, gjson.False, gjson.Number:
		return true
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		if r.IsObject() {
			return len(r.Map()) > 0
		}
		return false
	default:
		return false
	}
}
