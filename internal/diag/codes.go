package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexUnterminatedChar   Code = 1003
	LexUnterminatedBlock  Code = 1004
	LexBadNumber          Code = 1005

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectType         Code = 2004
	SynExpectExpression   Code = 2005
	SynUnclosedDelimiter  Code = 2006
	SynUnexpectedTopLevel Code = 2007
	SynModifierRepeated   Code = 2008

	// Семантические
	SemaInfo                Code = 3000
	SemaError               Code = 3001
	SemaMultiplyDefined     Code = 3002
	SemaUnresolvedName      Code = 3003
	SemaUnresolvedClass     Code = 3004
	SemaIllegalFlags        Code = 3005
	SemaMissingBody         Code = 3006
	SemaUnexpectedBody      Code = 3007
	SemaUndeclaredException Code = 3008
	SemaBadOverride         Code = 3009
	SemaShouldBeAbstract    Code = 3010
	SemaTypeMismatch        Code = 3011
	SemaBadOperands         Code = 3012
	SemaNotThrowable        Code = 3013
	SemaNoSuchMethod        Code = 3014
	SemaCannotInstantiate   Code = 3015
	SemaDuplicateClass      Code = 3016
	SemaInheritanceCycle    Code = 3017
	SemaBadSupertype        Code = 3018
	SemaMissingReturn       Code = 3019

	// Ошибки I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Ошибки проекта
	ProjInfo          Code = 5000
	ProjBadConfig     Code = 5001
	ProjMissingSource Code = 5002
	ProjUnknownLang   Code = 5003

	// Планировщик целей
	SchedInfo       Code = 6000
	SchedGoalCycle  Code = 6001
	SchedInternal   Code = 6002
	SchedErrorLimit Code = 6003

	// Наблюдаемость
	ObsInfo    Code = 7000
	ObsTimings Code = 7001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		LexInfo:                 "Lexical information",
		LexUnknownChar:          "Unknown character",
		LexUnterminatedString:   "Unterminated string literal",
		LexUnterminatedChar:     "Unterminated character literal",
		LexUnterminatedBlock:    "Unterminated block comment",
		LexBadNumber:            "Malformed number literal",
		SynInfo:                 "Syntax information",
		SynUnexpectedToken:      "Unexpected token",
		SynExpectSemicolon:      "Expected ';'",
		SynExpectIdentifier:     "Expected identifier",
		SynExpectType:           "Expected type",
		SynExpectExpression:     "Expected expression",
		SynUnclosedDelimiter:    "Unclosed delimiter",
		SynUnexpectedTopLevel:   "Unexpected top-level declaration",
		SynModifierRepeated:     "Repeated modifier",
		SemaInfo:                "Semantic information",
		SemaError:               "Semantic error",
		SemaMultiplyDefined:     "Multiply-defined local",
		SemaUnresolvedName:      "Unresolved name",
		SemaUnresolvedClass:     "Unresolved class",
		SemaIllegalFlags:        "Illegal modifiers",
		SemaMissingBody:         "Missing method body",
		SemaUnexpectedBody:      "Unexpected method body",
		SemaUndeclaredException: "Undeclared exception",
		SemaBadOverride:         "Incompatible override",
		SemaShouldBeAbstract:    "Class should be abstract",
		SemaTypeMismatch:        "Type mismatch",
		SemaBadOperands:         "Bad operand types",
		SemaNotThrowable:        "Type is not throwable",
		SemaNoSuchMethod:        "No such method",
		SemaCannotInstantiate:   "Cannot instantiate",
		SemaDuplicateClass:      "Duplicate class",
		SemaInheritanceCycle:    "Cyclic inheritance",
		SemaBadSupertype:        "Bad supertype",
		SemaMissingReturn:       "Missing return value",
		IOLoadFileError:         "I/O load file error",
		IOWriteFileError:        "I/O write file error",
		ProjInfo:                "Project information",
		ProjBadConfig:           "Invalid project configuration",
		ProjMissingSource:       "Missing source file",
		ProjUnknownLang:         "Unknown language extension",
		SchedInfo:               "Scheduler information",
		SchedGoalCycle:          "Goal dependency cycle",
		SchedInternal:           "Internal compiler error",
		SchedErrorLimit:         "Too many errors",
		ObsInfo:                 "Observability information",
		ObsTimings:              "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("SCH%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("OBS%04d", ic)
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
