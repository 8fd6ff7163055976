package asm

// catalogue.go loads the fixed opcode and directive table. The table is data, not logic, so it
// lives in catalogue.toml and is embedded and decoded once at package init, rather than kept as a
// Go literal buried among the pass implementations.

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed catalogue.toml
var catalogueTOML []byte

// OpcodeInfo describes one opcode's operand count and legal addressing-mode masks. It is the sole
// source of truth for operand arity and addressing-mode legality (§4.2).
type OpcodeInfo struct {
	Name     string `toml:"name"`
	Ordinal  uint8  `toml:"ordinal"`
	Operands int    `toml:"operands"`
	SrcMask  uint8  `toml:"src_mask"`
	DstMask  uint8  `toml:"dst_mask"`
}

// DirectiveInfo names a supported assembler directive.
type DirectiveInfo struct {
	Name string `toml:"name"`
}

type catalogueFile struct {
	Opcode    []OpcodeInfo    `toml:"opcode"`
	Directive []DirectiveInfo `toml:"directive"`
}

// Catalogue holds every opcode's entry, indexed by the order it appears in catalogue.toml.
var Catalogue []OpcodeInfo

// Directives holds every supported directive name, including its leading dot.
var Directives []DirectiveInfo

func init() {
	var cf catalogueFile

	if _, err := toml.Decode(string(catalogueTOML), &cf); err != nil {
		panic(fmt.Sprintf("asm: malformed catalogue.toml: %s", err))
	}

	Catalogue = cf.Opcode
	Directives = cf.Directive
}

// LookupOpcode finds an opcode's catalogue entry by name. Matching folds case, since source text
// may write opcodes in any case.
func LookupOpcode(name string) (OpcodeInfo, bool) {
	for _, op := range Catalogue {
		if strings.EqualFold(op.Name, name) {
			return op, true
		}
	}

	return OpcodeInfo{}, false
}

// LookupDirective reports whether name (including its leading dot) names a known directive.
func LookupDirective(name string) (DirectiveInfo, bool) {
	for _, d := range Directives {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}

	return DirectiveInfo{}, false
}
