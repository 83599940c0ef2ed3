package types

import (
	"errors"
	"strings"
)

// Flags is the modifier set of a declaration.
type Flags uint16

const (
	FlagPublic Flags = 1 << iota
	FlagProtected
	FlagPrivate
	FlagStatic
	FlagFinal
	FlagAbstract
	FlagNative
	FlagSynchronized
	FlagTransient
	FlagVolatile
	FlagInterface
)

const (
	NoFlags     Flags = 0
	AccessFlags       = FlagPublic | FlagProtected | FlagPrivate

	LegalClassFlags          = FlagPublic | FlagAbstract | FlagFinal | FlagInterface
	LegalFieldFlags          = AccessFlags | FlagStatic | FlagFinal | FlagTransient | FlagVolatile
	LegalInterfaceFieldFlags = FlagPublic | FlagStatic | FlagFinal
	LegalMethodFlags         = AccessFlags | FlagStatic | FlagFinal | FlagAbstract | FlagNative | FlagSynchronized
	LegalInterfaceMethodFlags = FlagPublic | FlagAbstract
	LegalAbstractMethodFlags  = FlagPublic | FlagProtected | FlagAbstract
	LegalLocalFlags           = FlagFinal
)

// порядок печати как в исходниках Java
var flagNames = []struct {
	f    Flags
	name string
}{
	{FlagPublic, "public"},
	{FlagProtected, "protected"},
	{FlagPrivate, "private"},
	{FlagAbstract, "abstract"},
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagSynchronized, "synchronized"},
	{FlagNative, "native"},
	{FlagTransient, "transient"},
	{FlagVolatile, "volatile"},
	{FlagInterface, "interface"},
}

// FlagByName maps a modifier keyword to its flag.
func FlagByName(name string) (Flags, bool) {
	for _, fn := range flagNames {
		if fn.name == name && fn.f != FlagInterface {
			return fn.f, true
		}
	}
	return 0, false
}

func (f Flags) Has(other Flags) bool { return f&other == other }

func (f Flags) Clear(other Flags) Flags { return f &^ other }

func (f Flags) IsPublic() bool    { return f.Has(FlagPublic) }
func (f Flags) IsPrivate() bool   { return f.Has(FlagPrivate) }
func (f Flags) IsStatic() bool    { return f.Has(FlagStatic) }
func (f Flags) IsFinal() bool     { return f.Has(FlagFinal) }
func (f Flags) IsAbstract() bool  { return f.Has(FlagAbstract) }
func (f Flags) IsNative() bool    { return f.Has(FlagNative) }
func (f Flags) IsInterface() bool { return f.Has(FlagInterface) }

// String renders the flags as modifiers followed by a space, or "".
func (f Flags) String() string {
	return strings.Join(f.Names(), " ")
}

func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f&fn.f != 0 {
			out = append(out, fn.name)
		}
	}
	return out
}

// accessRank orders access from weakest (private) to strongest (public).
func (f Flags) accessRank() int {
	switch {
	case f.Has(FlagPublic):
		return 3
	case f.Has(FlagProtected):
		return 2
	case f.Has(FlagPrivate):
		return 0
	}
	return 1 // package
}

// MoreRestrictive reports whether f grants weaker access than other.
func (f Flags) MoreRestrictive(other Flags) bool {
	return f.accessRank() < other.accessRank()
}

func checkAccessFlags(f Flags, what string) error {
	n := 0
	for _, a := range []Flags{FlagPublic, FlagProtected, FlagPrivate} {
		if f.Has(a) {
			n++
		}
	}
	if n > 1 {
		return errors.New("Only one of \"public\", \"protected\", and \"private\" may be specified on a " + what + ".")
	}
	return nil
}

func illegalFlags(f, legal Flags, what string) error {
	if bad := f.Clear(legal); bad != 0 {
		return errors.New("Cannot declare " + what + " with flags " + bad.String() + ".")
	}
	return nil
}

// CheckMethodFlags validates method modifiers for its container kind.
func CheckMethodFlags(f Flags, inInterface bool) error {
	if inInterface {
		if err := illegalFlags(f, LegalInterfaceMethodFlags, "interface method"); err != nil {
			return err
		}
	}
	if err := illegalFlags(f, LegalMethodFlags, "method"); err != nil {
		return err
	}
	if f.IsAbstract() {
		if err := illegalFlags(f, LegalAbstractMethodFlags, "abstract method"); err != nil {
			return err
		}
	}
	return checkAccessFlags(f, "method")
}

// CheckFieldFlags validates field modifiers.
func CheckFieldFlags(f Flags, inInterface bool) error {
	if inInterface {
		if err := illegalFlags(f, LegalInterfaceFieldFlags, "interface field"); err != nil {
			return err
		}
	}
	if err := illegalFlags(f, LegalFieldFlags, "field"); err != nil {
		return err
	}
	if f.IsFinal() && f.Has(FlagVolatile) {
		return errors.New("A field cannot be both final and volatile.")
	}
	return checkAccessFlags(f, "field")
}

// CheckLocalFlags validates local variable and formal modifiers.
func CheckLocalFlags(f Flags) error {
	return illegalFlags(f, LegalLocalFlags, "local variable")
}

// CheckClassFlags validates top-level class and interface modifiers.
func CheckClassFlags(f Flags) error {
	if err := illegalFlags(f, LegalClassFlags, "class"); err != nil {
		return err
	}
	if f.IsFinal() && f.IsAbstract() {
		return errors.New("A class cannot be both final and abstract.")
	}
	if f.IsInterface() && f.IsFinal() {
		return errors.New("An interface cannot be final.")
	}
	return nil
}
