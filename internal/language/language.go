package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"subgen/internal/services"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"zh", "zho", "chi", "Chinese", []string{"chinese", "mandarin"}},
	{"yue", "yue", "", "Cantonese", []string{"cantonese"}},
	{"en", "eng", "", "English", []string{"english"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
}

// Index maps built at init time.
var (
	byCode map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages)*3)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode[e.code2] = e
		byCode[e.code3] = e
		if e.alt3 != "" {
			byCode[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// IsAuto reports whether code asks the engine to detect the language.
func IsAuto(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	return code == "" || code == "auto"
}

// Normalize returns the recognizer code for a language hint. Empty and
// "auto" return "". Unknown values are validation errors.
func Normalize(code string) (string, error) {
	if IsAuto(code) {
		return "", nil
	}
	if e := lookup(code); e != nil {
		return e.code2, nil
	}
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "language", "parse", fmt.Sprintf("unknown language %q", code), err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", services.Wrap(services.ErrValidation, "language", "parse", fmt.Sprintf("no base language in %q", code), nil)
	}
	if e := lookup(base.String()); e != nil {
		return e.code2, nil
	}
	return base.String(), nil
}

// DisplayName returns a human-readable language name. Returns "auto" for an
// empty hint and the uppercased input when nothing matches.
func DisplayName(code string) string {
	if IsAuto(code) {
		return "auto"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	if tag, err := language.Parse(strings.TrimSpace(code)); err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
