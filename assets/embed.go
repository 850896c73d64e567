// assets/embed.go
//
// Embedded data files shipped with the binary.
//   - languages.txt: supported Akinator regions, one per line
//     ("<subdomain> <english name> <iso base>").
//
// Blank lines and lines starting with '#' are skipped; entries are lowercased.
package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed languages.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// LanguageRow is one parsed line of languages.txt.
type LanguageRow struct {
	Code string // subdomain, e.g. "cn"
	Name string // English name, e.g. "chinese"
	ISO  string // ISO 639-1 base, e.g. "zh"
}

// LanguagesList returns the embedded language table in file order.
// Lines with fewer than three columns are ignored.
func LanguagesList() ([]LanguageRow, error) {
	lines, err := readLines("languages.txt")
	if err != nil {
		return nil, err
	}
	out := make([]LanguageRow, 0, len(lines))
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) < 3 {
			continue
		}
		out = append(out, LanguageRow{Code: f[0], Name: f[1], ISO: f[2]})
	}
	return out, nil
}
