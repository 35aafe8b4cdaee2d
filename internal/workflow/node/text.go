package node

import "unicode/utf8"

// TruncateByRunes 按字符数截断
func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}

// TruncateWithEllipsis 超过 maxRunes 时截断并以 "..." 结尾，总长度不超过 maxRunes
func TruncateWithEllipsis(s string, maxRunes int) string {
	const ellipsis = "..."
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	if maxRunes <= len(ellipsis) {
		return TruncateByRunes(s, maxRunes)
	}
	return TruncateByRunes(s, maxRunes-len(ellipsis)) + ellipsis
}
