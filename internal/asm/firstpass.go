package asm

// firstpass.go walks the expanded (.am) source once, builds the symbol table, and sizes every
// instruction (§4.6-4.7). Its output, a SyntaxTable, is walked twice more by the second pass — once
// for instructions, once for data — rather than the first pass literally re-opening the source
// stream a second time: the two passes share the already-parsed line records instead of re-running
// the parser, an equivalent-behaviour simplification documented in DESIGN.md.
//
// Per §7, every error this pass raises directly (malformed operand, bad name, wrong operand count,
// illegal addressing mode) is lexical, naming or structural: it is logged at Warn and recorded, and
// the pass keeps walking the remaining lines so one run surfaces every problem in the file. The one
// reference error this pass can produce — an .entry whose label was never defined — only surfaces
// once scanning is already finished, so there is nothing left to abort; it is logged at Error to
// mark the distinction anyway.

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/tenbit/asm/internal/xlog"
)

const startIC = 100

// LineKind classifies a LineRecord for the second pass.
type LineKind uint8

const (
	LineInstruction LineKind = iota
	LineData
	LineString
	LineMatrix
	LineExtern
	LineEntry
)

// LineRecord is one line surviving into the second pass: its parse result, the addressing modes
// used (for instructions), and the address it was assigned.
type LineRecord struct {
	*ParsedLine
	Kind    LineKind
	Address uint16 // absolute for instructions; DC-relative offset for data lines
	Opcode  Opcode
	Modes   []AddressingMode
}

// SyntaxTable is the first pass's output: every surviving line plus the final symbol table and
// counters needed to relocate data addresses and size the memory image.
type SyntaxTable struct {
	File    string
	Lines   []*LineRecord
	Symbols *SymbolTable
	ICFinal uint16
	DCFinal uint16
}

// FirstPass runs pass one over one file's expanded source.
type FirstPass struct {
	file    string
	ic      uint16
	dc      uint16
	symbols *SymbolTable
	lines   []*LineRecord
	errs    ErrorList
	log     *xlog.Logger
}

// NewFirstPass returns a pass ready to process the expanded source named file (used only for
// diagnostics), logging to the package default logger.
func NewFirstPass(file string) *FirstPass {
	return &FirstPass{file: file, ic: startIC, symbols: NewSymbolTable(), log: xlog.DefaultLogger()}
}

// WithLogger overrides the logger Run reports progress to.
func (fp *FirstPass) WithLogger(log *xlog.Logger) *FirstPass {
	fp.log = log
	return fp
}

// reportError records a lexical, naming or structural error and logs it at Warn: the pass
// continues past it, so Warn (not Error) matches the non-fatal severity.
func (fp *FirstPass) reportError(err error) {
	fp.errs.Add(err)
	fp.log.Warn(err.Error())
}

// Run walks am line by line. On success it returns the completed SyntaxTable; on failure, the
// accumulated ErrorList and the file is abandoned before the second pass, per §4.6.
func (fp *FirstPass) Run(am io.Reader) (*SyntaxTable, error) {
	scanner := bufio.NewScanner(am)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		pl, err := ParseLine(fp.file, lineNo, raw)
		if err != nil {
			fp.reportError(err)
			continue
		}

		if pl == nil {
			continue
		}

		fp.log.Debug("line", "pos", pl.Position, "label", pl.Label, "command", pl.Command)
		fp.process(pl)
	}

	if err := scanner.Err(); err != nil {
		return nil, &IOError{Path: fp.file, Err: err}
	}

	for _, err := range fp.symbols.Finish(fp.ic) {
		fp.errs.Add(err)
		fp.log.Error(err.Error())
	}

	if fp.errs.HasErrors() {
		return nil, fp.errs
	}

	fp.log.Debug("first pass complete", "symbols", fp.symbols.Count(), "ic", fp.ic, "dc", fp.dc)

	return &SyntaxTable{
		File:    fp.file,
		Lines:   fp.lines,
		Symbols: fp.symbols,
		ICFinal: fp.ic,
		DCFinal: fp.dc,
	}, nil
}

func (fp *FirstPass) process(pl *ParsedLine) {
	switch pl.Command {
	case ".data":
		fp.processData(pl)
	case ".string":
		fp.processString(pl)
	case ".mat":
		fp.processMat(pl)
	case ".extern":
		fp.processExtern(pl)
	case ".entry":
		fp.processEntry(pl)
	default:
		fp.processInstruction(pl)
	}
}

func (fp *FirstPass) defineLabel(pl *ParsedLine, kind SymbolKind, addr uint16) {
	if pl.Label == "" {
		return
	}

	if err := fp.symbols.DefineLabel(pl.Label, kind, addr, pl.Position); err != nil {
		fp.reportError(err)
		return
	}

	fp.log.Debug("label defined", "pos", pl.Position, "label", pl.Label, "kind", kind, "address", addr)
}

func (fp *FirstPass) processData(pl *ParsedLine) {
	fp.defineLabel(pl, SymbolData, fp.dc)

	if len(pl.Operands) == 0 {
		fp.reportError(&StructuralError{Position: pl.Position, Msg: ".data requires at least one operand"})
		return
	}

	for _, op := range pl.Operands {
		if _, err := strconv.ParseInt(op, 10, 64); err != nil {
			fp.reportError(&LexicalError{Position: pl.Position, Token: op, Msg: ".data operand not an integer"})
		}
	}

	fp.dc += uint16(len(pl.Operands))
	fp.lines = append(fp.lines, &LineRecord{ParsedLine: pl, Kind: LineData, Address: fp.dc - uint16(len(pl.Operands))})
}

func (fp *FirstPass) processString(pl *ParsedLine) {
	fp.defineLabel(pl, SymbolData, fp.dc)

	if len(pl.Operands) != 1 || !IsStringOperand(pl.Operands[0]) {
		fp.reportError(&StructuralError{Position: pl.Position, Msg: ".string requires exactly one quoted operand"})
		return
	}

	n := uint16(len(StringContents(pl.Operands[0]))) + 1
	fp.lines = append(fp.lines, &LineRecord{ParsedLine: pl, Kind: LineString, Address: fp.dc})
	fp.dc += n
}

var matDimPattern = regexp.MustCompile(`^\[(\d+)\]\[(\d+)\]\s*(.*)$`)

func parseMatOperand(raw string) (rows, cols int, values []int32, err error) {
	m := matDimPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, 0, nil, &StructuralError{Msg: "malformed .mat dimensions"}
	}

	rows, _ = strconv.Atoi(m[1])
	cols, _ = strconv.Atoi(m[2])

	if rows <= 0 || cols <= 0 {
		return 0, 0, nil, &StructuralError{Msg: ".mat dimensions must be positive"}
	}

	rest := strings.TrimSpace(m[3])
	if rest == "" {
		return rows, cols, nil, nil
	}

	for _, tok := range strings.Fields(rest) {
		n, convErr := strconv.ParseInt(tok, 10, 64)
		if convErr != nil {
			return 0, 0, nil, &LexicalError{Token: tok, Msg: ".mat value not an integer"}
		}

		values = append(values, int32(n))
	}

	return rows, cols, values, nil
}

func (fp *FirstPass) processMat(pl *ParsedLine) {
	fp.defineLabel(pl, SymbolData, fp.dc)

	rows, cols, values, err := parseMatOperand(pl.Operands[0])
	if err != nil {
		if se, ok := err.(*StructuralError); ok {
			se.Position = pl.Position
		}
		if le, ok := err.(*LexicalError); ok {
			le.Position = pl.Position
		}

		fp.reportError(err)
		return
	}

	n := rows * cols
	if len(values) > 0 && len(values) != n {
		fp.reportError(&StructuralError{Position: pl.Position, Msg: ".mat initial-value count mismatch"})
		return
	}

	fp.lines = append(fp.lines, &LineRecord{ParsedLine: pl, Kind: LineMatrix, Address: fp.dc})
	fp.dc += uint16(n)
}

func (fp *FirstPass) processExtern(pl *ParsedLine) {
	for _, name := range pl.Operands {
		if !IsValidLabel(name) {
			fp.reportError(&NamingError{Position: pl.Position, Name: name, Msg: "invalid external name"})
			continue
		}

		if err := fp.symbols.DeclareExternal(name, pl.Position); err != nil {
			fp.reportError(err)
			continue
		}

		fp.log.Debug("external declared", "pos", pl.Position, "name", name)
	}

	fp.lines = append(fp.lines, &LineRecord{ParsedLine: pl, Kind: LineExtern})
}

func (fp *FirstPass) processEntry(pl *ParsedLine) {
	for _, name := range pl.Operands {
		if !IsValidLabel(name) {
			fp.reportError(&NamingError{Position: pl.Position, Name: name, Msg: "invalid entry name"})
			continue
		}

		if err := fp.symbols.DeclareEntry(name, pl.Position); err != nil {
			fp.reportError(err)
			continue
		}

		fp.log.Debug("entry declared", "pos", pl.Position, "name", name)
	}

	fp.lines = append(fp.lines, &LineRecord{ParsedLine: pl, Kind: LineEntry})
}

func (fp *FirstPass) processInstruction(pl *ParsedLine) {
	info, ok := LookupOpcode(pl.Command)
	if !ok {
		fp.reportError(&StructuralError{Position: pl.Position, Msg: "unknown opcode: " + pl.Command})
		return
	}

	if len(pl.Operands) != info.Operands {
		fp.reportError(&StructuralError{Position: pl.Position, Msg: "wrong operand count for " + pl.Command})
		return
	}

	modes := make([]AddressingMode, len(pl.Operands))

	for i, op := range pl.Operands {
		mode, ok := ClassifyOperand(op)
		if !ok {
			fp.reportError(&LexicalError{Position: pl.Position, Token: op, Msg: "unrecognised operand shape"})
			return
		}

		var mask uint8
		if len(pl.Operands) == 2 && i == 0 {
			mask = info.SrcMask
		} else {
			mask = info.DstMask
		}

		if mode.Mask()&mask == 0 {
			fp.reportError(&StructuralError{Position: pl.Position, Msg: "addressing mode not permitted for " + pl.Command})
			return
		}

		modes[i] = mode
	}

	size, err := sizeInstruction(modes)
	if err != nil {
		if se, ok := err.(*StructuralError); ok {
			se.Position = pl.Position
		}

		fp.reportError(err)
		return
	}

	fp.defineLabel(pl, SymbolCode, fp.ic)

	fp.lines = append(fp.lines, &LineRecord{
		ParsedLine: pl,
		Kind:       LineInstruction,
		Address:    fp.ic,
		Opcode:     Opcode(info.Ordinal),
		Modes:      modes,
	})

	fp.ic += uint16(size)
}

// sizeInstruction implements §4.7.
func sizeInstruction(modes []AddressingMode) (int, error) {
	switch len(modes) {
	case 0:
		return 1, nil
	case 1:
		if modes[0] == MatrixAccess {
			return 1 + 2, nil
		}

		return 1 + 1, nil
	case 2:
		if modes[0] == Register && modes[1] == Register {
			return 1 + 1, nil
		}

		total := 1
		for _, m := range modes {
			if m == MatrixAccess {
				total += 2
			} else {
				total++
			}
		}

		return total, nil
	default:
		return 0, &StructuralError{Msg: "instruction has more than two operands"}
	}
}
