// Package selection filters records by source identifier pattern,
// publication version, and time window, and parses selection lists from
// text files.
package selection

// Glob reports whether s matches pattern. Supported syntax: `*` (any run
// of characters, including none), `?` (exactly one character), `[set]`
// (a character class; a leading `!` or `^` negates it, `a-z` ranges are
// supported), and `\` to escape the next character literally. There is no
// backtracking across `*` beyond what's needed — matching is done with a
// standard two-pointer glob algorithm, not a regex engine.
func Glob(pattern, s string) bool {
	return globMatch(pattern, s)
}

// globMatch implements the classic iterative wildcard matcher: on a `*`
// it records a restart point and first lets the `*` match nothing; on a
// later mismatch it returns to the restart point with the `*` absorbing
// one more character of s.
func globMatch(pattern, s string) bool {
	pi, si := 0, 0
	starIdx, starMatch := -1, -1

	for si < len(s) {
		if pi < len(pattern) {
			switch pattern[pi] {
			case '*':
				starIdx = pi
				starMatch = si
				pi++
				continue
			case '?':
				pi++
				si++
				continue
			case '[':
				end, ok := classEnd(pattern, pi)
				if ok && classMatches(pattern[pi:end+1], s[si]) {
					pi = end + 1
					si++
					continue
				}
				if ok {
					// Class present but didn't match; fall through to backtrack.
				} else {
					// Malformed class: treat '[' as a literal.
					if s[si] == '[' {
						pi++
						si++
						continue
					}
				}
			case '\\':
				if pi+1 < len(pattern) && pattern[pi+1] == s[si] {
					pi += 2
					si++
					continue
				}
			default:
				if pattern[pi] == s[si] {
					pi++
					si++
					continue
				}
			}
		}

		if starIdx >= 0 {
			starMatch++
			si = starMatch
			pi = starIdx + 1
			continue
		}

		return false
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}

	return pi == len(pattern)
}

// classEnd returns the index of the closing ']' for a class starting at
// pattern[start] == '[', and whether a well-formed class was found.
func classEnd(pattern string, start int) (int, bool) {
	i := start + 1
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++ // a ']' immediately after the (possibly negated) '[' is literal
	}
	for i < len(pattern) {
		if pattern[i] == ']' {
			return i, true
		}
		i++
	}

	return 0, false
}

// classMatches reports whether c is a member of the bracket expression
// cls (including its surrounding '[' and ']').
func classMatches(cls string, c byte) bool {
	body := cls[1 : len(cls)-1]
	negate := false
	if len(body) > 0 && (body[0] == '!' || body[0] == '^') {
		negate = true
		body = body[1:]
	}

	matched := false
	for i := 0; i < len(body); {
		if i+2 < len(body) && body[i+1] == '-' {
			lo, hi := body[i], body[i+2]
			if lo <= c && c <= hi {
				matched = true
			}
			i += 3
			continue
		}

		if body[i] == c {
			matched = true
		}
		i++
	}

	return matched != negate
}
