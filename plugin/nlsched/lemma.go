package nlsched

import "strings"

// NounLemma reduces a noun form to its singular lemma, mirroring how the
// label extractor normalizes plural residue ("meetings" -> "meeting").
// Words without a plural suffix come back unchanged.
func NounLemma(word string) string {
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 4:
		return lower[:len(lower)-3] + "y"
	case strings.HasSuffix(lower, "ses") || strings.HasSuffix(lower, "xes") ||
		strings.HasSuffix(lower, "ches") || strings.HasSuffix(lower, "shes"):
		return lower[:len(lower)-2]
	case strings.HasSuffix(lower, "s") && len(lower) > 3 && !strings.HasSuffix(lower, "ss"):
		return lower[:len(lower)-1]
	}
	return lower
}

// Gerund synthesizes the -ing form of a base verb with standard final
// consonant doubling and silent-e dropping ("submit" -> "submitting",
// "make" -> "making").
func Gerund(base string) string {
	lower := strings.ToLower(base)
	n := len(lower)
	if n == 0 {
		return lower
	}
	if strings.HasSuffix(lower, "e") && n > 2 && !strings.HasSuffix(lower, "ee") {
		return lower[:n-1] + "ing"
	}
	if n >= 3 && isConsonant(lower[n-1]) && lower[n-1] != 'w' && lower[n-1] != 'x' && lower[n-1] != 'y' &&
		!isConsonant(lower[n-2]) && isConsonant(lower[n-3]) {
		return lower + string(lower[n-1]) + "ing"
	}
	return lower + "ing"
}

func isConsonant(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	}
	return c >= 'a' && c <= 'z'
}
