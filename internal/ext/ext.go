// Package ext is the registry of source languages the compiler knows.
package ext

import (
	"errors"
	"fmt"
	"strings"

	"polyc/internal/ast"
	"polyc/internal/ext/jl"
	"polyc/internal/ext/jl5"
	"polyc/internal/ext/jl7"
	"polyc/internal/sema"
)

var ErrUnknownLanguage = errors.New("unknown language extension")

// Language is a node factory plus the language-wide options its passes run with.
type Language struct {
	Name        string
	Description string
	Factory     ast.Factory
	Options     sema.Options
}

var languages = []Language{
	{Name: jl.Name, Description: "base language", Factory: jl.Factory{}, Options: jl.Options()},
	{Name: jl5.Name, Description: "jl with boxing and unboxing", Factory: jl5.Factory{}, Options: jl5.Options()},
	{Name: jl7.Name, Description: "jl5 with precise rethrow", Factory: jl7.Factory{}, Options: jl7.Options()},
}

// Default is used when neither the config nor the command line names a language.
const Default = jl.Name

// Lookup returns the language registered under name.
func Lookup(name string) (Language, error) {
	for _, l := range languages {
		if l.Name == name {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownLanguage, name, strings.Join(Names(), ", "))
}

// Names lists the registered languages in registration order.
func Names() []string {
	out := make([]string, len(languages))
	for i, l := range languages {
		out[i] = l.Name
	}
	return out
}

// All returns a copy of the registry.
func All() []Language {
	return append([]Language(nil), languages...)
}
