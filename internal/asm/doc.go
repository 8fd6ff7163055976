// Package asm implements the assembler core for the ten-bit fixed architecture: macro expansion,
// line parsing, symbol resolution, addressing-mode analysis, instruction encoding, and output
// emission. The command-line driver, file-suffix handling, and usage text live outside this
// package; Assembler's surface is an io.Reader for source text and a WriterFactory keyed by output
// suffix.
package asm

// Grammar is an informal EBNF sketch of the source language, kept here for reference rather than
// parsed from; ParseLine implements it directly rather than through a generated grammar.
const Grammar = `
program     = { line } ;
line        = [ [ label ] , command ] , [ "\n" ] ;
label       = identifier , ":" ;
command     = opcode , [ operand , [ "," , operand ] ] | directive , operands ;
opcode      = "mov" | "cmp" | "add" | "sub" | "not" | "clr" | "lea"
            | "inc" | "dec" | "jmp" | "bne" | "red" | "prn" | "jsr"
            | "rts" | "stop" ;
directive   = ".data" | ".string" | ".mat" | ".extern" | ".entry" ;
operand     = immediate | direct | matrix | register ;
immediate   = "#" , [ "+" | "-" ] , digit , { digit } ;
direct      = identifier ;
matrix      = identifier , "[" , register , "]" , "[" , register , "]" ;
register    = "r" , ( "0" | "1" | "2" | "3" | "4" | "5" | "6" | "7" ) ;
identifier  = letter , { letter | digit } ;
`
