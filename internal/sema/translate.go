package sema

import (
	"bufio"
	"io"
	"strings"

	"polyc/internal/ast"
	"polyc/internal/types"
)

// Translator pretty-prints a checked tree back to source form.
type Translator struct {
	Sys  *types.System
	Tree *ast.Tree

	w           *bufio.Writer
	indent      int
	lineStart   bool
	inInterface bool
}

// Translate writes the unit rooted at root to w.
func Translate(env *Env, tree *ast.Tree, root ast.NodeID, w io.Writer) error {
	tr := &Translator{Sys: env.Sys, Tree: tree, w: bufio.NewWriter(w), lineStart: true}
	tr.Print(root)
	return tr.w.Flush()
}

// Print dispatches to the node's translator hook.
func (tr *Translator) Print(id ast.NodeID) {
	if !id.IsValid() {
		return
	}
	n := tr.Tree.Node(id)
	if h, ok := n.Ext.(TranslatorExt); ok && n.Caps.Has(ast.CapTranslate) {
		h.Translate(tr, id)
		return
	}
	tr.printDefault(id)
}

func (tr *Translator) Write(s string) {
	if s == "" {
		return
	}
	if tr.lineStart {
		tr.w.WriteString(strings.Repeat("    ", tr.indent))
		tr.lineStart = false
	}
	tr.w.WriteString(s)
}

func (tr *Translator) Newline() {
	tr.w.WriteByte('\n')
	tr.lineStart = true
}

func (tr *Translator) writeFlags(f types.Flags) {
	if s := f.String(); s != "" {
		tr.Write(s + " ")
	}
}

func (tr *Translator) printList(id ast.NodeID, sep string) {
	for i, k := range tr.Tree.Node(id).Kids {
		if i > 0 {
			tr.Write(sep)
		}
		tr.Print(k)
	}
}

// printOperand parenthesises nested operators.
func (tr *Translator) printOperand(id ast.NodeID) {
	switch tr.Tree.Node(id).Kind {
	case ast.KindBinary, ast.KindAssign:
		tr.Write("(")
		tr.Print(id)
		tr.Write(")")
	default:
		tr.Print(id)
	}
}

// printBody prints a statement nested under if/while on its own line unless it is a block.
func (tr *Translator) printBody(id ast.NodeID) {
	if tr.Tree.Node(id).Kind == ast.KindBlock {
		tr.Write(" ")
		tr.Print(id)
		return
	}
	tr.Newline()
	tr.indent++
	tr.Print(id)
	tr.indent--
}

func (tr *Translator) printDefault(id ast.NodeID) {
	t := tr.Tree
	n := t.Node(id)
	switch n.Kind {
	case ast.KindSourceFile:
		if n.Name != "" {
			tr.Write("package " + n.Name + ";")
			tr.Newline()
			tr.Newline()
		}
		imports := t.Node(n.Kid(0)).Kids
		for _, imp := range imports {
			tr.Print(imp)
		}
		if len(imports) > 0 {
			tr.Newline()
		}
		for i, d := range t.Node(n.Kid(1)).Kids {
			if i > 0 {
				tr.Newline()
			}
			tr.Print(d)
		}

	case ast.KindImport:
		tr.Write("import " + n.Name + ";")
		tr.Newline()

	case ast.KindClassDecl:
		isIface := n.Flags.IsInterface()
		tr.writeFlags(n.Flags.Clear(types.FlagInterface))
		if isIface {
			tr.Write("interface " + n.Name)
		} else {
			tr.Write("class " + n.Name)
		}
		if n.Kid(0).IsValid() {
			tr.Write(" extends ")
			tr.Print(n.Kid(0))
		}
		if len(t.Node(n.Kid(1)).Kids) > 0 {
			if isIface {
				tr.Write(" extends ")
			} else {
				tr.Write(" implements ")
			}
			tr.printList(n.Kid(1), ", ")
		}
		tr.Write(" {")
		tr.Newline()
		saved := tr.inInterface
		tr.inInterface = isIface
		tr.indent++
		for _, m := range t.Node(n.Kid(2)).Kids {
			tr.Print(m)
		}
		tr.indent--
		tr.inInterface = saved
		tr.Write("}")
		tr.Newline()

	case ast.KindFieldDecl:
		flags := n.Flags
		if tr.inInterface {
			flags = flags.Clear(types.FlagPublic | types.FlagStatic | types.FlagFinal)
		}
		tr.writeFlags(flags)
		tr.Print(n.Kid(0))
		tr.Write(" " + n.Name)
		if n.Kid(1).IsValid() {
			tr.Write(" = ")
			tr.Print(n.Kid(1))
		}
		tr.Write(";")
		tr.Newline()

	case ast.KindMethodDecl:
		flags := n.Flags
		if tr.inInterface {
			flags = flags.Clear(types.FlagPublic | types.FlagAbstract)
		}
		tr.writeFlags(flags)
		tr.Print(n.Kid(0))
		tr.Write(" " + n.Name + "(")
		tr.printList(n.Kid(1), ", ")
		tr.Write(")")
		if len(t.Node(n.Kid(2)).Kids) > 0 {
			tr.Write(" throws ")
			tr.printList(n.Kid(2), ", ")
		}
		if n.Kid(3).IsValid() {
			tr.Write(" ")
			tr.Print(n.Kid(3))
		} else {
			tr.Write(";")
		}
		tr.Newline()

	case ast.KindFormal:
		tr.writeFlags(n.Flags)
		tr.Print(n.Kid(0))
		tr.Write(" " + n.Name)

	case ast.KindBlock:
		tr.Write("{")
		tr.Newline()
		tr.indent++
		for _, s := range n.Kids {
			tr.Print(s)
			tr.Newline()
		}
		tr.indent--
		tr.Write("}")

	case ast.KindLocalDecl:
		tr.writeFlags(n.Flags)
		tr.Print(n.Kid(0))
		tr.Write(" " + n.Name)
		if n.Kid(1).IsValid() {
			tr.Write(" = ")
			tr.Print(n.Kid(1))
		}
		tr.Write(";")

	case ast.KindExprStmt:
		tr.Print(n.Kid(0))
		tr.Write(";")

	case ast.KindReturn:
		tr.Write("return")
		if n.Kid(0).IsValid() {
			tr.Write(" ")
			tr.Print(n.Kid(0))
		}
		tr.Write(";")

	case ast.KindThrow:
		tr.Write("throw ")
		tr.Print(n.Kid(0))
		tr.Write(";")

	case ast.KindIf:
		tr.Write("if (")
		tr.Print(n.Kid(0))
		tr.Write(")")
		tr.printBody(n.Kid(1))
		if n.Kid(2).IsValid() {
			if t.Node(n.Kid(1)).Kind == ast.KindBlock {
				tr.Write(" ")
			} else {
				tr.Newline()
			}
			tr.Write("else")
			tr.printBody(n.Kid(2))
		}

	case ast.KindWhile:
		tr.Write("while (")
		tr.Print(n.Kid(0))
		tr.Write(")")
		tr.printBody(n.Kid(1))

	case ast.KindTry:
		tr.Write("try ")
		tr.Print(n.Kid(0))
		for _, cid := range t.Node(n.Kid(1)).Kids {
			tr.Write(" ")
			tr.Print(cid)
		}
		if n.Kid(2).IsValid() {
			tr.Write(" finally ")
			tr.Print(n.Kid(2))
		}

	case ast.KindCatch:
		tr.Write("catch (")
		tr.Print(n.Kid(0))
		tr.Write(") ")
		tr.Print(n.Kid(1))

	case ast.KindEmpty:
		tr.Write(";")

	case ast.KindList:
		tr.printList(id, ", ")

	case ast.KindTypeNode, ast.KindName, ast.KindLocal:
		tr.Write(n.Name)

	case ast.KindLit:
		tr.Write(n.Lit.String())

	case ast.KindField:
		if n.Kid(0).IsValid() {
			tr.printOperand(n.Kid(0))
			tr.Write(".")
		}
		tr.Write(n.Name)

	case ast.KindBinary:
		tr.printOperand(n.Kid(0))
		tr.Write(" " + n.Op.String() + " ")
		tr.printOperand(n.Kid(1))

	case ast.KindUnary:
		tr.Write(n.Op.String())
		tr.printOperand(n.Kid(0))

	case ast.KindAssign:
		tr.Print(n.Kid(0))
		tr.Write(" = ")
		tr.Print(n.Kid(1))

	case ast.KindCall:
		if n.Kid(0).IsValid() {
			tr.printOperand(n.Kid(0))
			tr.Write(".")
		}
		tr.Write(n.Name + "(")
		tr.printList(n.Kid(1), ", ")
		tr.Write(")")

	case ast.KindNew:
		tr.Write("new ")
		tr.Print(n.Kid(0))
		tr.Write("(")
		tr.printList(n.Kid(1), ", ")
		tr.Write(")")

	case ast.KindThis:
		tr.Write("this")
	}
}
