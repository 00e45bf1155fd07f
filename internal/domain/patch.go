package domain

import "strings"

// CoalesceStr returns the first value that is not blank.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// patched returns *p when the patch sets the field and current otherwise.
// A set pointer to the zero value clears the field.
func patched[T any](current T, p *T) T {
	if p != nil {
		return *p
	}
	return current
}
