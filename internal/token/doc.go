// Package token defines the lexical vocabulary shared by every language
// variant: one keyword set, one operator set.
package token
