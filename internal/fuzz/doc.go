// Package fuzztests houses Go fuzz harnesses that exercise the front of the
// polyc pipeline (source -> lexer -> parser) for every registered language.
// Their goal is to smoke test robustness and guard against panics, hangs and
// out-of-range spans on arbitrary inputs.
//
// Не делает: генерацию корпусов, семантические проходы, запуск CLI.
package fuzztests
