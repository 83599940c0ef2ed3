package types

const (
	pub     = FlagPublic
	pubFin  = FlagPublic | FlagFinal
	pubAbs  = FlagPublic | FlagAbstract
	pubIntf = FlagPublic | FlagInterface | FlagAbstract
)

func method(name, ret string, params ...string) MemberSig {
	return MemberSig{Name: name, Flags: pub, Type: ret, Params: params}
}

func exception(name, super string) ClassSig {
	return ClassSig{Name: name, Flags: pub, Super: super}
}

func box(name, prim string) ClassSig {
	return ClassSig{
		Name:       name,
		Flags:      pubFin,
		Super:      "java.lang.Number",
		Interfaces: []string{"java.lang.Comparable"},
		Methods: []MemberSig{
			method(prim+"Value", prim),
			method("compareTo", "int", name),
		},
	}
}

// preludeSigs is the slice of java.lang every compilation can see without a class path.
var preludeSigs = []ClassSig{
	{
		Name:  "java.lang.Object",
		Flags: pub,
		Methods: []MemberSig{
			method("toString", "java.lang.String"),
			method("equals", "boolean", "java.lang.Object"),
			method("hashCode", "int"),
			{Name: "getClass", Flags: pubFin, Type: "java.lang.Object"},
		},
	},
	{Name: "java.lang.Comparable", Flags: pubIntf},
	{Name: "java.lang.CharSequence", Flags: pubIntf, Methods: []MemberSig{
		{Name: "length", Flags: pubAbs, Type: "int"},
	}},
	{
		Name:       "java.lang.String",
		Flags:      pubFin,
		Super:      "java.lang.Object",
		Interfaces: []string{"java.lang.CharSequence", "java.lang.Comparable"},
		Methods: []MemberSig{
			method("length", "int"),
			method("charAt", "char", "int"),
			method("concat", "java.lang.String", "java.lang.String"),
			method("isEmpty", "boolean"),
			method("compareTo", "int", "java.lang.String"),
		},
	},
	{
		Name:  "java.lang.Throwable",
		Flags: pub,
		Super: "java.lang.Object",
		Methods: []MemberSig{
			method("getMessage", "java.lang.String"),
			method("getCause", "java.lang.Throwable"),
		},
	},
	exception("java.lang.Exception", "java.lang.Throwable"),
	exception("java.lang.Error", "java.lang.Throwable"),
	exception("java.lang.RuntimeException", "java.lang.Exception"),
	exception("java.lang.NullPointerException", "java.lang.RuntimeException"),
	exception("java.lang.IllegalArgumentException", "java.lang.RuntimeException"),
	exception("java.lang.IllegalStateException", "java.lang.RuntimeException"),
	exception("java.lang.ArithmeticException", "java.lang.RuntimeException"),
	exception("java.lang.ClassCastException", "java.lang.RuntimeException"),
	exception("java.lang.IndexOutOfBoundsException", "java.lang.RuntimeException"),
	exception("java.lang.UnsupportedOperationException", "java.lang.RuntimeException"),
	exception("java.lang.InterruptedException", "java.lang.Exception"),
	exception("java.lang.CloneNotSupportedException", "java.lang.Exception"),
	exception("java.lang.AssertionError", "java.lang.Error"),
	exception("java.io.IOException", "java.lang.Exception"),
	exception("java.io.FileNotFoundException", "java.io.IOException"),
	{Name: "java.lang.Number", Flags: pubAbs, Super: "java.lang.Object", Methods: []MemberSig{
		{Name: "intValue", Flags: pubAbs, Type: "int"},
		{Name: "longValue", Flags: pubAbs, Type: "long"},
		{Name: "doubleValue", Flags: pubAbs, Type: "double"},
	}},
	{
		Name:       "java.lang.Boolean",
		Flags:      pubFin,
		Super:      "java.lang.Object",
		Interfaces: []string{"java.lang.Comparable"},
		Methods:    []MemberSig{method("booleanValue", "boolean")},
	},
	{
		Name:       "java.lang.Character",
		Flags:      pubFin,
		Super:      "java.lang.Object",
		Interfaces: []string{"java.lang.Comparable"},
		Methods:    []MemberSig{method("charValue", "char")},
	},
	box("java.lang.Byte", "byte"),
	box("java.lang.Short", "short"),
	box("java.lang.Integer", "int"),
	box("java.lang.Long", "long"),
	box("java.lang.Float", "float"),
	box("java.lang.Double", "double"),
}

func installPrelude(in *Interner) {
	for i := range preludeSigs {
		in.InstallSig(&preludeSigs[i])
	}
	lookup := func(name string) TypeID {
		id, _ := in.ClassByName(name)
		return id
	}
	in.builtins.Object = lookup("java.lang.Object")
	in.builtins.String = lookup("java.lang.String")
	in.builtins.Throwable = lookup("java.lang.Throwable")
	in.builtins.Exception = lookup("java.lang.Exception")
	in.builtins.RuntimeException = lookup("java.lang.RuntimeException")
	in.builtins.Error = lookup("java.lang.Error")
}
