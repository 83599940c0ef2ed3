package token

var keywords = map[string]Kind{
	"package":      KwPackage,
	"import":       KwImport,
	"class":        KwClass,
	"interface":    KwInterface,
	"extends":      KwExtends,
	"implements":   KwImplements,
	"public":       KwPublic,
	"protected":    KwProtected,
	"private":      KwPrivate,
	"static":       KwStatic,
	"final":        KwFinal,
	"abstract":     KwAbstract,
	"native":       KwNative,
	"synchronized": KwSynchronized,
	"transient":    KwTransient,
	"volatile":     KwVolatile,
	"void":         KwVoid,
	"boolean":      KwBoolean,
	"byte":         KwByte,
	"short":        KwShort,
	"char":         KwChar,
	"int":          KwInt,
	"long":         KwLong,
	"float":        KwFloat,
	"double":       KwDouble,
	"if":           KwIf,
	"else":         KwElse,
	"while":        KwWhile,
	"return":       KwReturn,
	"throw":        KwThrow,
	"throws":       KwThrows,
	"try":          KwTry,
	"catch":        KwCatch,
	"finally":      KwFinally,
	"new":          KwNew,
	"null":         KwNull,
	"true":         KwTrue,
	"false":        KwFalse,
	"this":         KwThis,
}

var keywordText = func() map[Kind]string {
	out := make(map[Kind]string, len(keywords))
	for s, k := range keywords {
		out[k] = s
	}
	return out
}()

// LookupKeyword returns the keyword kind for ident, or Ident.
func LookupKeyword(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}
