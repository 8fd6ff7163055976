package asm

// secondpass.go implements §4.8: instruction phase first, data phase second, both walking the
// SyntaxTable the first pass already built rather than re-reading source text. Per §7's propagation
// policy, an unresolved label is a reference error and aborts the pass immediately — unlike the
// lexical/naming/structural errors the first pass accumulates — so encoding stops at the first
// unresolved operand rather than continuing to scan the remaining lines.

import (
	"strconv"

	"github.com/tenbit/asm/internal/xlog"
)

// EncodedWord is one machine word destined for the object file, tagged with its address.
type EncodedWord struct {
	Address uint16
	Word    Word
}

// ExternalRef is one external-symbol use site, in encounter order.
type ExternalRef struct {
	Name    string
	Address uint16
}

// Assembly is the complete result of assembling one file: everything output.go needs to write the
// .ob, .ent and .ext files.
type Assembly struct {
	ICFinal   uint16
	DCFinal   uint16
	Instr     []EncodedWord
	Data      []EncodedWord
	Externals []ExternalRef
	Entries   []*Symbol
}

// SecondPass runs pass two over a completed SyntaxTable.
type SecondPass struct {
	table *SyntaxTable
	log   *xlog.Logger
	errs  ErrorList
	instr []EncodedWord
	data  []EncodedWord
	ext   []ExternalRef

	// aborted is set the moment a reference error is raised. Per §7, a reference error stops the
	// pass on the spot rather than letting it keep scanning for more diagnostics.
	aborted bool
}

// NewSecondPass returns a pass ready to encode table, logging to the package default logger.
func NewSecondPass(table *SyntaxTable) *SecondPass {
	return &SecondPass{table: table, log: xlog.DefaultLogger()}
}

// WithLogger overrides the logger Run reports progress to.
func (sp *SecondPass) WithLogger(log *xlog.Logger) *SecondPass {
	sp.log = log
	return sp
}

// Run performs the instruction phase then the data phase. On any error it returns the accumulated
// ErrorList and no Assembly. A reference error short-circuits both phases; lexical/naming/
// structural errors raised while encoding a directive's operands do not, and further lines are
// still processed so a run can report more than one such problem.
func (sp *SecondPass) Run() (*Assembly, error) {
	for _, rec := range sp.table.Lines {
		if rec.Kind != LineInstruction {
			continue
		}

		sp.encodeInstruction(rec)

		if sp.aborted {
			break
		}
	}

	if !sp.aborted {
		for _, rec := range sp.table.Lines {
			switch rec.Kind {
			case LineData:
				sp.encodeData(rec)
			case LineString:
				sp.encodeString(rec)
			case LineMatrix:
				sp.encodeMatrix(rec)
			}
		}
	}

	if sp.errs.HasErrors() {
		return nil, sp.errs
	}

	sp.log.Debug("second pass complete", "instr_words", len(sp.instr), "data_words", len(sp.data),
		"externals", len(sp.ext))

	return &Assembly{
		ICFinal:   sp.table.ICFinal,
		DCFinal:   sp.table.DCFinal,
		Instr:     sp.instr,
		Data:      sp.data,
		Externals: sp.ext,
		Entries:   sp.table.Symbols.Entries(),
	}, nil
}

func (sp *SecondPass) encodeInstruction(rec *LineRecord) {
	sp.log.Debug("encoding instruction", "pos", rec.Position, "opcode", rec.Opcode, "address", rec.Address)

	var srcMode, dstMode AddressingMode

	switch len(rec.Modes) {
	case 1:
		dstMode = rec.Modes[0]
	case 2:
		srcMode, dstMode = rec.Modes[0], rec.Modes[1]
	}

	addr := rec.Address
	sp.instr = append(sp.instr, EncodedWord{Address: addr, Word: PackHeader(rec.Opcode, srcMode, dstMode)})
	cur := addr + 1

	switch len(rec.Modes) {
	case 0:
		return
	case 1:
		words := sp.encodeOperand(rec.Modes[0], rec.Operands[0], cur, rec.Position)
		sp.appendInstr(cur, words)
	case 2:
		if rec.Modes[0] == Register && rec.Modes[1] == Register {
			r0 := RegisterNumber(rec.Operands[0])
			r1 := RegisterNumber(rec.Operands[1])
			sp.instr = append(sp.instr, EncodedWord{Address: cur, Word: PackRegisterPair(r0, r1)})

			return
		}

		for i := 0; i < 2; i++ {
			if sp.aborted {
				return
			}

			words := sp.encodeOperand(rec.Modes[i], rec.Operands[i], cur, rec.Position)
			sp.appendInstr(cur, words)
			cur += uint16(len(words))
		}
	}
}

func (sp *SecondPass) appendInstr(addr uint16, words []Word) {
	for i, w := range words {
		sp.instr = append(sp.instr, EncodedWord{Address: addr + uint16(i), Word: w})
	}
}

// encodeOperand encodes a single operand starting at addr, returning its word(s). Direct and
// MatrixAccess operands may append to sp.ext and sp.errs.
func (sp *SecondPass) encodeOperand(mode AddressingMode, tok string, addr uint16, pos Position) []Word {
	switch mode {
	case Immediate:
		val, _, _ := ParseImmediate(tok)
		return []Word{PackImmediate(val)}
	case Register:
		return []Word{PackRegister(RegisterNumber(tok))}
	case Direct:
		return []Word{sp.resolveLabel(tok, addr, pos)}
	case MatrixAccess:
		label, regA, regB, _ := ParseMatrixAccess(tok)
		wordA := sp.resolveLabel(label, addr, pos)
		wordB := PackRegisterPair(RegisterNumber(regA), RegisterNumber(regB))

		return []Word{wordA, wordB}
	default:
		return nil
	}
}

func (sp *SecondPass) resolveLabel(name string, addr uint16, pos Position) Word {
	sym, ok := sp.table.Symbols.Lookup(name)
	if !ok {
		err := &ReferenceError{Position: pos, Name: name, Msg: "undefined label"}
		sp.errs.Add(err)
		sp.log.Error(err.Error())
		sp.aborted = true

		return 0
	}

	if sym.Kind == SymbolExternal {
		sp.ext = append(sp.ext, ExternalRef{Name: name, Address: addr})
		sp.log.Debug("external reference", "pos", pos, "name", name, "address", addr)

		return PackDirect(0, External)
	}

	sp.log.Debug("label resolved", "pos", pos, "name", name, "address", sym.Address)

	return PackDirect(sym.Address, Relocatable)
}

func (sp *SecondPass) encodeData(rec *LineRecord) {
	addr := sp.table.ICFinal + rec.Address
	sp.log.Debug("encoding data", "pos", rec.Position, "address", addr, "operands", len(rec.Operands))

	for i, op := range rec.Operands {
		n, _ := strconv.ParseInt(op, 10, 64)
		sp.data = append(sp.data, EncodedWord{Address: addr + uint16(i), Word: PackData(int32(n))})
	}
}

func (sp *SecondPass) encodeString(rec *LineRecord) {
	addr := sp.table.ICFinal + rec.Address
	content := StringContents(rec.Operands[0])
	sp.log.Debug("encoding string", "pos", rec.Position, "address", addr, "length", len(content))

	for i, r := range []byte(content) {
		sp.data = append(sp.data, EncodedWord{Address: addr + uint16(i), Word: PackData(int32(r))})
	}

	sp.data = append(sp.data, EncodedWord{Address: addr + uint16(len(content)), Word: PackData(0)})
}

func (sp *SecondPass) encodeMatrix(rec *LineRecord) {
	addr := sp.table.ICFinal + rec.Address

	rows, cols, values, err := parseMatOperand(rec.Operands[0])
	if err != nil {
		if se, ok := err.(*StructuralError); ok {
			se.Position = rec.Position
		}
		if le, ok := err.(*LexicalError); ok {
			le.Position = rec.Position
		}

		sp.errs.Add(err)
		sp.log.Warn(err.Error())

		return
	}

	sp.log.Debug("encoding matrix", "pos", rec.Position, "address", addr, "rows", rows, "cols", cols)

	n := rows * cols
	for i := 0; i < n; i++ {
		var v int32
		if i < len(values) {
			v = values[i]
		}

		sp.data = append(sp.data, EncodedWord{Address: addr + uint16(i), Word: PackData(v)})
	}
}
