package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadChar                  Code = 1005

	// Структура дерева токенов
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynUnbalancedCloser  Code = 2003
	SynNestingTooDeep    Code = 2004

	// Шаблоны
	TplInfo              Code = 3000
	TplDeclarationParse  Code = 3001
	TplDefinitionParse   Code = 3002
	TplDuplicateName     Code = 3003
	TplUnknownTargetName Code = 3004
	TplMissingTargetName Code = 3005
	TplStructuralShape   Code = 3006
	TplUnusedTemplate    Code = 3007

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002

	// Проект и конфигурация
	ProjInfo        Code = 5000
	ProjConfigError Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number literal",
	LexBadChar:                  "Bad character literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynUnbalancedCloser:         "Unbalanced closing delimiter",
	SynNestingTooDeep:           "Nesting too deep",
	TplInfo:                     "Template information",
	TplDeclarationParse:         "Malformed template declaration",
	TplDefinitionParse:          "Malformed slot definition",
	TplDuplicateName:            "Duplicate name",
	TplUnknownTargetName:        "Unknown target name",
	TplMissingTargetName:        "Missing target name",
	TplStructuralShape:          "Unsupported item shape",
	TplUnusedTemplate:           "Template is never instantiated",
	IOInfo:                      "I/O information",
	IOLoadFileError:             "I/O load file error",
	IOWriteError:                "I/O write error",
	ProjInfo:                    "Project information",
	ProjConfigError:             "Invalid configuration",
}

// ID returns the stable textual identifier, e.g. TPL3004.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TPL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
