package viewdef

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gofhir/sqlonfhir/issue"
)

// sqlNamePattern is the identifier shape spec.md's GLOSSARY defines for
// column and constant names: ^[A-Za-z][A-Za-z0-9_]*$.
var sqlNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func isSQLName(s string) bool {
	return sqlNamePattern.MatchString(s)
}

// literalCategory groups the value[Type] members of §3's encoding table
// by how they render as a FHIRPath literal.
type literalCategory int

const (
	catQuoted          literalCategory = iota // 'value'
	catDate                                   // @value
	catDecimalVerbatim                        // value, unquoted, exactly as written
)

// valueMemberCategory maps each accepted value[Type] suffix to its
// literal-rendering category, per the table in spec §3. Boolean and the
// integer family render the same way as decimal: their JSON text is
// already valid FHIRPath literal syntax.
var valueMemberCategory = map[string]literalCategory{
	"String": catQuoted, "Code": catQuoted, "Id": catQuoted, "Uri": catQuoted,
	"Url": catQuoted, "Uuid": catQuoted, "Oid": catQuoted, "Canonical": catQuoted,
	"Instant": catQuoted, "Base64Binary": catQuoted,

	"Date": catDate, "DateTime": catDate, "Time": catDate,

	"Decimal": catDecimalVerbatim, "Boolean": catDecimalVerbatim,
	"Integer": catDecimalVerbatim, "Integer64": catDecimalVerbatim,
	"PositiveInt": catDecimalVerbatim, "UnsignedInt": catDecimalVerbatim,
}

// extractValueMember scans a decoded constant object for the single
// key of the form "value<Type>" that spec.md requires. Zero or more
// than one match is an InvalidViewDefinition error (spec §3 "Exactly
// one value[x] set per constant").
func extractValueMember(raw map[string]json.RawMessage) (typeName string, value json.RawMessage, err error) {
	found := 0
	for key, v := range raw {
		if !strings.HasPrefix(key, "value") || len(key) <= len("value") {
			continue
		}
		suffix := key[len("value"):]
		if _, ok := valueMemberCategory[suffix]; !ok {
			continue
		}
		found++
		typeName, value = suffix, v
	}
	switch found {
	case 1:
		return typeName, value, nil
	case 0:
		return "", nil, issue.New(issue.InvalidViewDefinition, "constant has no recognised value[x] member")
	default:
		return "", nil, issue.New(issue.InvalidViewDefinition, "constant has more than one value[x] member set")
	}
}

// renderLiteral converts a decoded value[Type] member into FHIRPath
// literal syntax, per the encoding table in spec §3.
func renderLiteral(typeName string, raw json.RawMessage) (string, error) {
	switch valueMemberCategory[typeName] {
	case catQuoted:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", issue.At(issue.InvalidViewDefinition, "constant", "value%s must be a string", typeName)
		}
		return "'" + strings.ReplaceAll(s, "'", "\\'") + "'", nil
	case catDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", issue.At(issue.InvalidViewDefinition, "constant", "value%s must be a string", typeName)
		}
		return "@" + s, nil
	case catDecimalVerbatim:
		return strings.TrimSpace(string(raw)), nil
	default:
		return "", issue.New(issue.InvalidViewDefinition, "unsupported constant value member %q", "value"+typeName)
	}
}

// constantToken matches %name references in path text (spec §4.1 step
// 4: "tokens matching %[A-Za-z][A-Za-z0-9_]*").
var constantToken = regexp.MustCompile(`%[A-Za-z][A-Za-z0-9_]*`)

// substituteConstants replaces every %name token in path with its
// rendered literal from table. It returns an error naming the first
// undefined constant it encounters.
func substituteConstants(path string, table map[string]Constant) (string, error) {
	var firstErr error
	result := constantToken.ReplaceAllStringFunc(path, func(tok string) string {
		if firstErr != nil {
			return tok
		}
		name := tok[1:]
		c, ok := table[name]
		if !ok {
			firstErr = issue.At(issue.InvalidViewDefinition, "constant["+name+"]", "undefined constant %q referenced in path", name)
			return tok
		}
		return c.Literal
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// buildConstantTable validates and indexes a ViewDefinition's constant
// list. Names must be sql-names and unique.
func buildConstantTable(constants []Constant) (map[string]Constant, error) {
	table := make(map[string]Constant, len(constants))
	for i, c := range constants {
		if !isSQLName(c.Name) {
			return nil, issue.At(issue.InvalidViewDefinition, issue.Breadcrumb("constant", indexTag(i)), "constant name %q is not a valid identifier", c.Name)
		}
		if _, exists := table[c.Name]; exists {
			return nil, issue.At(issue.InvalidViewDefinition, issue.Breadcrumb("constant", indexTag(i)), "duplicate constant name %q", c.Name)
		}
		table[c.Name] = c
	}
	return table, nil
}

func indexTag(i int) string {
	return "[" + itoa(i) + "]"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
