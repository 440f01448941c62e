package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint returns a stable hex digest over the generation-relevant
// profile fields. Two profiles that would enumerate the same candidate
// sequence under the same policy hash identically; changing any seed
// or policy field changes the digest. Plumbing fields (output path,
// checkpoint path, cadences) are excluded so relocating files or
// tuning durability does not invalidate a resume.
func Fingerprint(p *SeedProfile) string {
	h := sha256.New()

	writeList := func(label string, vals []string, normalize func(string) string) {
		norm := make([]string, 0, len(vals))
		for _, v := range vals {
			v = normalize(v)
			if v != "" {
				norm = append(norm, v)
			}
		}
		sort.Strings(norm)
		fmt.Fprintf(h, "%s:%d\x00", label, len(norm))
		for _, v := range norm {
			h.Write([]byte(v))
			h.Write([]byte{0})
		}
	}
	lower := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	trim := strings.TrimSpace

	writeList("words", p.Words, lower)
	writeList("mobiles", p.MobileNumbers, trim)
	writeList("symbols", p.Symbols, trim)
	writeList("patterns", p.NumberPatterns, trim)
	fmt.Fprintf(h, "dob:%s\x00", trim(p.BirthDate))
	fmt.Fprintf(h, "years:%s\x00", trim(p.YearRange))
	fmt.Fprintf(h, "underscore:%t\x00", p.UnderscoreSeparator)
	fmt.Fprintf(h, "mode:%s\x00", p.Mode)
	fmt.Fprintf(h, "threshold:%g\x00", p.StrengthThreshold)
	fmt.Fprintf(h, "max:%d\x00", p.MaxOutput)

	return hex.EncodeToString(h.Sum(nil))
}
