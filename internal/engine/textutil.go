package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// UserAgentChrome is sent on every upstream request.
const UserAgentChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/87.0.4280.88 Safari/537.36"

// BrowserHeaders returns the fixed header set for upstream requests.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      UserAgentChrome,
		"Accept-Language": "en-US,en;q=0.9",
		"Accept-Encoding": "gzip, deflate, br",
		"Connection":      "keep-alive",
	}
}

var (
	// verifiedBadgeRe matches the checkmark Invidious appends to verified channel names.
	verifiedBadgeRe = regexp.MustCompile(`\s+[\x{2713}\x{2714}]\s*`)
	viewCountRe     = regexp.MustCompile(`[\d.,KkMm]+`)
	numericRe       = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
)

// AbsoluteURL prefixes root-relative refs with base. Anything else is returned as is.
func AbsoluteURL(base, ref string) string {
	if strings.HasPrefix(ref, "/") {
		return base + ref
	}
	return ref
}

// CollapseSpace joins all whitespace-separated fields of s with single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripVerifiedBadge returns the channel name that precedes the first verified badge.
// "Acme Corp ✓ 1.2M subscribers" -> "Acme Corp".
func StripVerifiedBadge(s string) string {
	s = CollapseSpace(s)
	return strings.TrimSpace(verifiedBadgeRe.Split(s, 2)[0])
}

// FindViewCount returns the first run of count-like characters in s.
func FindViewCount(s string) (string, bool) {
	m := viewCountRe.FindString(s)
	return m, m != ""
}

// ParseViews converts an abbreviated view count ("1,234", "1.2K", "3M") to an integer.
// Unparsable input, or a count that does not fit in int64, yields 0.
func ParseViews(s string) int64 {
	n, _ := parseViews(s)
	return n
}

func parseViews(s string) (int64, bool) {
	s = strings.ToUpper(strings.ReplaceAll(s, ",", ""))
	multiplier := 1.0
	switch {
	case strings.Contains(s, "K"):
		multiplier = 1_000
		s = strings.ReplaceAll(s, "K", "")
	case strings.Contains(s, "M"):
		multiplier = 1_000_000
		s = strings.ReplaceAll(s, "M", "")
	}
	// A lone dot is a decimal point; several are thousands separators.
	if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}
	if !numericRe.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	// Epsilon absorbs float error: 8.2 * 1e6 = 8199999.999999999.
	v := math.Floor(f*multiplier + 1e-6)
	if v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// Truncate caps s at n runes for log output.
func Truncate(s string, n int) string {
	return strutil.TruncateWith(s, n, "...")
}
