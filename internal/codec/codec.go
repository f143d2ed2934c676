// Package codec implements the line-oriented wire format for technology
// registries - the system's only persisted artifact.
//
// One technology per line, five ';'-separated fields in fixed order:
//
//	id;name;description;kind:commaSeparatedPrereqIds;cost
//
// where kind is the literal token "And" or "Or" and an empty prerequisite
// set serializes as "kind:" (colon followed by nothing). No escaping is
// provided: round-trip fidelity requires that id, name, and description
// never contain ';', ':', ',', or a newline.
//
// Decoding is deliberately permissive. Malformed lines are dropped, unknown
// kind tokens drop the line, and an unparsable cost defaults to zero. This
// tolerance of partial or garbled input is the documented contract, not an
// oversight; strict validation lives in the authoring loader, not here.
package codec

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/stratagem/techtree/internal/tech"
)

const (
	fieldSep   = ";"
	kindSep    = ":"
	listSep    = ","
	fieldCount = 5

	tokenAll = "And"
	tokenAny = "Or"
)

// Encode serializes a registry to the wire format.
//
// Lines are emitted sorted by id so encoding is deterministic, joined by
// '\n' with no trailing newline.
func Encode(reg *tech.Registry) []byte {
	ids := reg.IDs()
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		t, _ := reg.Get(id)
		lines = append(lines, encodeLine(t))
	}
	return []byte(strings.Join(lines, "\n"))
}

func encodeLine(t tech.Technology) string {
	token := tokenAll
	if t.Prereqs.Kind() == tech.KindAny {
		token = tokenAny
	}
	prereqs := token + kindSep + strings.Join(t.Prereqs.IDs(), listSep)

	var b strings.Builder
	b.WriteString(t.ID)
	b.WriteString(fieldSep)
	b.WriteString(t.Name)
	b.WriteString(fieldSep)
	b.WriteString(t.Description)
	b.WriteString(fieldSep)
	b.WriteString(prereqs)
	b.WriteString(fieldSep)
	b.WriteString(strconv.Itoa(t.Cost))
	return b.String()
}

// Decode parses wire-format data into a registry, dropping anything it
// cannot make sense of. See DecodeWithLogger for the skip rules.
func Decode(data []byte) *tech.Registry {
	return DecodeWithLogger(data, nil)
}

// DecodeWithLogger is Decode with a diagnostic hook. Skipped lines and
// defaulted costs are reported to logger; a nil logger discards them.
// The logger is purely observational - it never changes what is parsed.
//
// Skip rules, per line:
//   - not exactly five ';'-fields: line skipped
//   - prerequisite field without a ':' separator: line skipped
//   - kind token other than "And" or "Or": line skipped
//   - empty segments in the comma list: segment discarded
//   - cost that does not parse as a non-negative integer: defaults to 0
func DecodeWithLogger(data []byte, logger *slog.Logger) *tech.Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	reg := tech.NewRegistry()
	for i, line := range strings.Split(string(data), "\n") {
		// Tolerate CRLF input; without this the trailing '\r' lands in
		// the cost field and silently zeroes it.
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		t, ok := decodeLine(line, i+1, logger)
		if !ok {
			continue
		}
		logger.Debug("loaded technology", "tech", t.ID, "cost", t.Cost)
		reg.Add(t)
	}
	return reg
}

func decodeLine(line string, lineno int, logger *slog.Logger) (tech.Technology, bool) {
	fields := strings.Split(line, fieldSep)
	if len(fields) != fieldCount {
		logger.Warn("skipping malformed line", "line", lineno, "fields", len(fields))
		return tech.Technology{}, false
	}

	kindField, listField, ok := strings.Cut(fields[3], kindSep)
	if !ok {
		logger.Warn("skipping line without kind separator", "line", lineno)
		return tech.Technology{}, false
	}

	var ids []string
	for _, id := range strings.Split(listField, listSep) {
		if id != "" {
			ids = append(ids, id)
		}
	}

	var prereqs tech.Prereqs
	switch kindField {
	case tokenAll:
		prereqs = tech.RequireAll(ids...)
	case tokenAny:
		prereqs = tech.RequireAny(ids...)
	default:
		logger.Warn("skipping line with unknown kind", "line", lineno, "kind", kindField)
		return tech.Technology{}, false
	}

	cost, err := strconv.Atoi(fields[4])
	if err != nil || cost < 0 {
		logger.Warn("cost did not parse, defaulting to zero", "line", lineno, "raw", fields[4])
		cost = 0
	}

	return tech.Technology{
		ID:          fields[0],
		Name:        fields[1],
		Description: fields[2],
		Prereqs:     prereqs,
		Cost:        cost,
	}, true
}
