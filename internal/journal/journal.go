// Package journal resolves date-templated journal note paths.
//
// Templates use brace placeholders such as "{year}" or "{month:02d}". The
// format spec after the colon is [[fill]align][0][width][type], where align
// is one of < > ^ = and type is d (integers) or s (strings). Literal braces
// are written as "{{" and "}}".
package journal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DefaultTemplate is the journal template used when none is configured.
const DefaultTemplate = "Calendar/{year}/{month:02d}/{year}-{month:02d}-{day:02d}"

// Vars holds the values available to a template. Values are int or string.
type Vars map[string]any

// VarsFor returns the template variables for date.
func VarsFor(date time.Time) Vars {
	return Vars{
		"year":         date.Year(),
		"month":        int(date.Month()),
		"day":          date.Day(),
		"month_name":   date.Month().String(),
		"month_abbr":   date.Month().String()[:3],
		"weekday":      date.Weekday().String(),
		"weekday_abbr": date.Weekday().String()[:3],
	}
}

const maxWidth = 64

// TemplateError reports a template that cannot be expanded.
type TemplateError struct {
	Template string
	Msg      string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid journal_template %q: %s", e.Template, e.Msg)
}

// Expand substitutes vars into template.
func Expand(template string, vars Vars) (string, error) {
	fail := func(format string, args ...any) (string, error) {
		return "", &TemplateError{Template: template, Msg: fmt.Sprintf(format, args...)}
	}

	var b strings.Builder
	for i := 0; i < len(template); {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexAny(template[i+1:], "{}")
			if end < 0 || template[i+1+end] != '}' {
				return fail("unmatched '{' at offset %d", i)
			}
			field := template[i+1 : i+1+end]
			out, err := expandField(field, vars)
			if err != nil {
				return fail("%v", err)
			}
			b.WriteString(out)
			i += end + 2
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return fail("single '}' at offset %d", i)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func expandField(field string, vars Vars) (string, error) {
	name, spec, _ := strings.Cut(field, ":")
	if strings.Contains(name, "!") {
		return "", fmt.Errorf("conversions are not supported in {%s}", field)
	}
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return "", fmt.Errorf("positional fields are not supported in {%s}", field)
	}
	if !isIdentifier(name) {
		return "", fmt.Errorf("invalid field name %q", name)
	}
	value, ok := vars[name]
	if !ok {
		return "", fmt.Errorf("unknown variable %q", name)
	}

	fs, err := parseSpec(spec)
	if err != nil {
		return "", fmt.Errorf("{%s}: %w", field, err)
	}
	return fs.apply(value)
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

type formatSpec struct {
	fill    rune
	hasFill bool
	align   byte
	zero    bool
	width   int
	verb    byte
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^' || c == '='
}

func parseSpec(spec string) (formatSpec, error) {
	fs := formatSpec{fill: ' '}
	if spec == "" {
		return fs, nil
	}

	if r, size := utf8.DecodeRuneInString(spec); size < len(spec) && isAlign(spec[size]) {
		fs.fill, fs.hasFill, fs.align = r, true, spec[size]
		spec = spec[size+1:]
	} else if isAlign(spec[0]) {
		fs.align = spec[0]
		spec = spec[1:]
	}

	if strings.HasPrefix(spec, "0") {
		fs.zero = true
		spec = spec[1:]
	}

	digits := 0
	for digits < len(spec) && spec[digits] >= '0' && spec[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		width, err := strconv.Atoi(spec[:digits])
		if err != nil || width > maxWidth {
			return fs, fmt.Errorf("width %s exceeds %d", spec[:digits], maxWidth)
		}
		fs.width = width
		spec = spec[digits:]
	}

	switch spec {
	case "":
	case "d", "s":
		fs.verb = spec[0]
	default:
		return fs, fmt.Errorf("invalid format spec %q", spec)
	}
	return fs, nil
}

func (fs formatSpec) apply(value any) (string, error) {
	var text string
	numeric := false

	switch v := value.(type) {
	case int:
		if fs.verb == 's' {
			return "", fmt.Errorf("format code 's' cannot be used with an integer")
		}
		text, numeric = strconv.Itoa(v), true
	case string:
		if fs.verb == 'd' {
			return "", fmt.Errorf("format code 'd' cannot be used with a string")
		}
		if fs.align == '=' {
			return "", fmt.Errorf("'=' alignment is not allowed for strings")
		}
		text = v
	default:
		return "", fmt.Errorf("unsupported value %v", value)
	}

	align, fill := fs.align, fs.fill
	if fs.zero && !fs.hasFill {
		fill = '0'
	}
	if fs.zero && align == 0 {
		if numeric {
			align = '='
		} else {
			align = '<'
		}
	}
	if align == 0 {
		if numeric {
			align = '>'
		} else {
			align = '<'
		}
	}

	pad := fs.width - utf8.RuneCountInString(text)
	if pad <= 0 {
		return text, nil
	}
	padding := strings.Repeat(string(fill), pad)

	switch align {
	case '<':
		return text + padding, nil
	case '^':
		left := strings.Repeat(string(fill), pad/2)
		return left + text + strings.Repeat(string(fill), pad-pad/2), nil
	case '=':
		if strings.HasPrefix(text, "-") {
			return "-" + padding + text[1:], nil
		}
		return padding + text, nil
	default:
		return padding + text, nil
	}
}

// Validate expands template against a fixed sample date.
func Validate(template string) error {
	_, err := Expand(template, VarsFor(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	return err
}

// Path returns the vault-relative note path for date, with ".md" appended
// unless the expansion already ends in it.
func Path(template string, date time.Time) (string, error) {
	p, err := Expand(template, VarsFor(date))
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(p, ".md") {
		p += ".md"
	}
	return p, nil
}
