package core

import (
	"fmt"
	"strings"
)

// Print renders term as a canonical, byte-stable multi-line string: fixed
// two-space indentation, no trailing whitespace, deterministic child
// ordering (field/tuple/arm order as stored, which is always declaration
// or source order by construction). Two structurally equal terms always
// print identically.
func Print(term CoreTerm) string {
	var b strings.Builder
	printTerm(&b, term, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func printTerm(b *strings.Builder, t CoreTerm, depth int) {
	indent(b, depth)
	switch n := t.(type) {
	case *CIntLit:
		fmt.Fprintf(b, "CIntLit %d\n", n.Value)
	case *CBoolLit:
		fmt.Fprintf(b, "CBoolLit %t\n", n.Value)
	case *CUnitLit:
		b.WriteString("CUnitLit\n")
	case *CStrLit:
		fmt.Fprintf(b, "CStrLit %q\n", n.Value)
	case *CVar:
		fmt.Fprintf(b, "CVar %s\n", n.Name)
	case *CLam:
		fmt.Fprintf(b, "CLam %s\n", n.Param)
		printTerm(b, n.Body, depth+1)
	case *CApp:
		b.WriteString("CApp\n")
		printTerm(b, n.Fn, depth+1)
		printTerm(b, n.Arg, depth+1)
	case *CTuple:
		fmt.Fprintf(b, "CTuple %d\n", len(n.Elems))
		for _, e := range n.Elems {
			printTerm(b, e, depth+1)
		}
	case *CProj:
		fmt.Fprintf(b, "CProj %d\n", n.Index)
		printTerm(b, n.Term, depth+1)
	case *CLet:
		fmt.Fprintf(b, "CLet %s\n", n.Name)
		printTerm(b, n.Value, depth+1)
		printTerm(b, n.Body, depth+1)
	case *CIf:
		b.WriteString("CIf\n")
		printTerm(b, n.Cond, depth+1)
		printTerm(b, n.Then, depth+1)
		printTerm(b, n.Else, depth+1)
	case *CCtor:
		fmt.Fprintf(b, "CCtor %s %d\n", n.Name, len(n.Fields))
		for _, f := range n.Fields {
			printTerm(b, f, depth+1)
		}
	case *CMatch:
		fmt.Fprintf(b, "CMatch %d\n", len(n.Arms))
		printTerm(b, n.Scrutinee, depth+1)
		for _, arm := range n.Arms {
			indent(b, depth+1)
			fmt.Fprintf(b, "arm %s\n", arm.Pattern.String())
			printTerm(b, arm.Body, depth+2)
		}
	default:
		fmt.Fprintf(b, "<unknown %T>\n", t)
	}
}
