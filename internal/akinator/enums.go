package akinator

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Answer is a reply to a question. The numeric value is what the service expects.
type Answer int

const (
	AnswerYes         Answer = 0
	AnswerNo          Answer = 1
	AnswerIdk         Answer = 2
	AnswerProbably    Answer = 3
	AnswerProbablyNot Answer = 4
)

// ParseAnswer accepts the long form, the short form or the numeric value of an
// answer, case-insensitively: "yes"/"y"/"0", "no"/"n"/"1",
// "i dont know"/"i don't know"/"idk"/"i"/"2", "probably"/"p"/"3",
// "probably not"/"pn"/"4".
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "0":
		return AnswerYes, nil
	case "no", "n", "1":
		return AnswerNo, nil
	case "i dont know", "i don't know", "idk", "i", "2":
		return AnswerIdk, nil
	case "probably", "p", "3":
		return AnswerProbably, nil
	case "probably not", "pn", "4":
		return AnswerProbablyNot, nil
	}
	return 0, ErrInvalidAnswer
}

func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	case AnswerIdk:
		return "idk"
	case AnswerProbably:
		return "probably"
	case AnswerProbablyNot:
		return "probably not"
	}
	return "answer(" + strconv.Itoa(int(a)) + ")"
}

// Valid reports whether a is one of the five known answers.
func (a Answer) Valid() bool { return a >= AnswerYes && a <= AnswerProbablyNot }

// MarshalText encodes the canonical word.
func (a Answer) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, ErrInvalidAnswer
	}
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (a *Answer) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	v, err := ParseAnswer(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Theme selects what the service tries to guess. The value is the subject id
// used in the server list.
type Theme int

const (
	ThemeCharacters Theme = 1
	ThemeObjects    Theme = 2
	ThemeAnimals    Theme = 14
)

// ParseTheme never fails: anything it does not recognise is ThemeCharacters.
func ParseTheme(s string) Theme {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "animals", "animal", "14":
		return ThemeAnimals
	case "o", "objects", "object", "2":
		return ThemeObjects
	}
	return ThemeCharacters
}

func (t Theme) String() string {
	switch t {
	case ThemeAnimals:
		return "animals"
	case ThemeObjects:
		return "objects"
	}
	return "characters"
}

func (t Theme) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Theme) UnmarshalText(b []byte) error {
	*t = ParseTheme(string(b))
	return nil
}
