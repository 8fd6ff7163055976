package asm

// macro.go is the two-pass macro preprocessor (§4.5). It reads the raw .as source and produces the
// expanded .am stream, splitting lines on whitespace only to recognise mcro/mcroend headers; it
// never invokes the line parser or the symbol table, and macro bodies are copied verbatim, never re-scanned for nested
// calls, per the architecture's explicit non-goal.

import (
	"bufio"
	"io"
	"strings"

	"github.com/tenbit/asm/internal/xlog"
)

const maxMacroBodyBytes = 1000

// Macro is one recorded macro definition.
type Macro struct {
	Name string
	Body []string
}

// MacroTable maps macro names to their bodies.
type MacroTable struct {
	macros map[string]*Macro
}

// NewMacroTable returns an empty macro table.
func NewMacroTable() *MacroTable {
	return &MacroTable{macros: make(map[string]*Macro)}
}

func (t *MacroTable) names() map[string]bool {
	out := make(map[string]bool, len(t.macros))
	for name := range t.macros {
		out[name] = true
	}

	return out
}

// Lookup finds a macro by name.
func (t *MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// Preprocessor expands macros in one source file. Name reflects the file the diagnostics are
// attributed to; it need not be a real path.
type Preprocessor struct {
	name   string
	macros *MacroTable
	log    *xlog.Logger
}

// NewPreprocessor returns a preprocessor for a file named name, used only in diagnostics, logging
// to the package default logger.
func NewPreprocessor(name string) *Preprocessor {
	return &Preprocessor{name: name, macros: NewMacroTable(), log: xlog.DefaultLogger()}
}

// WithLogger overrides the logger Expand reports progress to.
func (p *Preprocessor) WithLogger(log *xlog.Logger) *Preprocessor {
	p.log = log
	return p
}

// Macros returns the macro table built by Expand, for tests that want to inspect it directly.
func (p *Preprocessor) Macros() *MacroTable {
	return p.macros
}

// Expand reads src and writes the expanded .am stream to dst. It collects every mcro/mcroend
// definition, strips those lines, and replaces bare macro-name lines with their recorded bodies.
func (p *Preprocessor) Expand(src io.Reader, dst io.Writer) error {
	lines, err := p.collect(src)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(dst)
	defer w.Flush()

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m, ok := p.macros.Lookup(trimmed); ok {
			p.log.Debug("macro expanded", "name", m.Name, "body_lines", len(m.Body))

			for _, bodyLine := range m.Body {
				if _, err := w.WriteString(bodyLine + "\n"); err != nil {
					return &IOError{Path: p.name, Err: err}
				}
			}

			continue
		}

		if _, err := w.WriteString(line + "\n"); err != nil {
			return &IOError{Path: p.name, Err: err}
		}
	}

	p.log.Debug("macro expansion complete", "macros", len(p.macros.macros), "lines", len(lines))

	return nil
}

// collect performs pass one: it reads every line, recording macro definitions into p.macros and
// returning every line that is not part of a definition (header, body, or mcroend), for pass two
// (in Expand) to copy through or replace with a macro's body.
func (p *Preprocessor) collect(src io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []string
	var current *Macro
	var bodyBytes int
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.Fields(line)

		if current != nil {
			if len(fields) == 1 && fields[0] == "mcroend" {
				p.macros.macros[current.Name] = current
				p.log.Debug("macro recorded", "name", current.Name, "body_lines", len(current.Body))
				current = nil

				continue
			}

			bodyBytes += len(line) + 1
			if bodyBytes > maxMacroBodyBytes {
				return nil, &StructuralError{
					Position: Position{File: p.name, Line: lineNo},
					Msg:      "macro body exceeds 1000 bytes: " + current.Name,
				}
			}

			current.Body = append(current.Body, line)

			continue
		}

		if len(fields) >= 1 && fields[0] == "mcro" {
			if len(fields) < 2 {
				return nil, &StructuralError{
					Position: Position{File: p.name, Line: lineNo},
					Msg:      "mcro missing a name",
				}
			}

			name := fields[1]
			if !IsValidMacroName(name, p.macros.names()) {
				return nil, &NamingError{
					Position: Position{File: p.name, Line: lineNo},
					Name:     name,
					Msg:      "invalid or duplicate macro name",
				}
			}

			current = &Macro{Name: name}
			bodyBytes = 0

			continue
		}

		out = append(out, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, &IOError{Path: p.name, Err: err}
	}

	if current != nil {
		return nil, &StructuralError{
			Position: Position{File: p.name, Line: lineNo},
			Msg:      "unterminated macro definition: " + current.Name,
		}
	}

	return out, nil
}
