package akinator

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/robalobadob/akinator-go/assets"
)

// Language is the regional site's subdomain, e.g. "en" or "jp".
type Language string

// LanguageEnglish is the default region.
const LanguageEnglish Language = "en"

// LanguageInfo describes one supported region.
type LanguageInfo struct {
	Code Language `json:"code"`
	Name string   `json:"name"`
}

var (
	langOnce  sync.Once
	langList  []LanguageInfo
	langIndex map[string]Language // code, english name and iso base → code
	langErr   error
)

func loadLanguages() {
	rows, err := assets.LanguagesList()
	if err != nil {
		langErr = fmt.Errorf("load languages: %w", err)
		return
	}
	langIndex = make(map[string]Language, len(rows)*3)
	for _, r := range rows {
		code := Language(r.Code)
		langList = append(langList, LanguageInfo{Code: code, Name: r.Name})
		langIndex[r.Code] = code
		langIndex[r.Name] = code
		if _, taken := langIndex[r.ISO]; !taken {
			langIndex[r.ISO] = code
		}
	}
}

// Languages lists the supported regions in table order.
func Languages() []LanguageInfo {
	langOnce.Do(loadLanguages)
	out := make([]LanguageInfo, len(langList))
	copy(out, langList)
	return out
}

// ParseLanguage resolves a subdomain ("jp"), an English name ("japanese") or
// a BCP 47 tag ("ja-JP") to a supported region.
func ParseLanguage(s string) (Language, error) {
	langOnce.Do(loadLanguages)
	if langErr != nil {
		return "", langErr
	}
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", ErrUnsupportedLanguage
	}
	if code, ok := langIndex[key]; ok {
		return code, nil
	}
	tag, err := language.Parse(key)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	base, _ := tag.Base()
	if code, ok := langIndex[base.String()]; ok {
		return code, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// baseURL is the regional site root.
func (l Language) baseURL() string {
	return "https://" + string(l) + ".akinator.com"
}
