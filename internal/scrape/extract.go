package scrape

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kioskworks/sitescout/internal/model"
)

// maxOwnerLines bounds how many owner-indicative snippets one page yields.
const maxOwnerLines = 5

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// North-American 10-digit numbers with optional parenthesized area code
	// and common separators.
	phoneRe = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)

	sentenceRe = regexp.MustCompile(`[.!?\n]+`)

	ownerKeywords = []string{"owner", "manager", "founder", "ceo"}
)

// Extract pulls emails, phone numbers, and owner-indicative lines from page
// text. Emails and phones are deduplicated and sorted; owner lines keep the
// first five sentence segments naming an owner-like role.
func Extract(text string) model.OwnerContact {
	return model.OwnerContact{
		Emails:     matchSet(emailRe, text),
		Phones:     matchSet(phoneRe, text),
		OwnerLines: ownerLines(text),
	}
}

// matchSet collects unique regexp matches in sorted order.
func matchSet(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func ownerLines(text string) []string {
	var out []string
	for _, segment := range sentenceRe.Split(text, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		lower := strings.ToLower(segment)
		for _, kw := range ownerKeywords {
			if strings.Contains(lower, kw) {
				out = append(out, segment)
				break
			}
		}
		if len(out) == maxOwnerLines {
			break
		}
	}
	return out
}
