package discovery

import (
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"strconv"
	"strings"

	"github.com/goliatone/go-confdoc/registry"
)

const (
	pflagImport = "github.com/spf13/pflag"
	cobraImport = "github.com/spf13/cobra"
)

// flagTypes maps a registration method base name to the type pflag reports
// through Value.Type().
var flagTypes = map[string]string{
	"String":      "string",
	"Int":         "int",
	"Int64":       "int64",
	"Uint":        "uint",
	"Bool":        "bool",
	"Duration":    "duration",
	"Float64":     "float64",
	"StringSlice": "stringSlice",
	"StringArray": "stringArray",
	"IntSlice":    "intSlice",
	"Count":       "count",
}

type registration struct {
	group  string
	option registry.Option
}

// method describes the argument layout of one registration method.
type method struct {
	typ       string
	nameIdx   int
	shorthand bool
	hasValue  bool
}

func (m method) arity() int {
	n := m.nameIdx + 2
	if m.shorthand {
		n++
	}
	if m.hasValue {
		n++
	}
	return n
}

func parseMethod(name string) (method, bool) {
	m := method{hasValue: true}
	base := name
	switch {
	case strings.HasSuffix(base, "VarP"):
		base, m.nameIdx, m.shorthand = strings.TrimSuffix(base, "VarP"), 1, true
	case strings.HasSuffix(base, "Var"):
		base, m.nameIdx = strings.TrimSuffix(base, "Var"), 1
	case strings.HasSuffix(base, "P"):
		base, m.shorthand = strings.TrimSuffix(base, "P"), true
	}
	typ, ok := flagTypes[base]
	if !ok {
		return method{}, false
	}
	m.typ = typ
	if base == "Count" {
		m.hasValue = false
	}
	return m, true
}

// collect returns the registrations in file, in source order. Files that
// import neither pflag nor cobra register nothing.
func collect(file *ast.File) []registration {
	foreign, ok := flagImports(file)
	if !ok {
		return nil
	}

	groups := bindings(file)
	var out []registration
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok && foreign[id.Name] {
			return true
		}
		m, ok := parseMethod(sel.Sel.Name)
		if !ok || len(call.Args) != m.arity() {
			return true
		}
		name, ok := stringLit(call.Args[m.nameIdx])
		if !ok || name == "" {
			return true
		}

		opt := registry.Option{
			Name:    name,
			Type:    m.typ,
			Default: "0",
			Help:    text(call.Args[len(call.Args)-1]),
		}
		if m.hasValue {
			valueIdx := m.nameIdx + 1
			if m.shorthand {
				valueIdx++
			}
			opt.Default = literal(call.Args[valueIdx])
		}
		out = append(out, registration{group: receiverGroup(sel.X, groups), option: opt})
		return true
	})
	return out
}

// flagImports reports whether file imports pflag or cobra. It also returns
// the local names of every other imported package, so calls such as
// strings.Count or flag.String are not taken for registrations.
func flagImports(file *ast.File) (map[string]bool, bool) {
	foreign := make(map[string]bool)
	ok := false
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if p == pflagImport || p == cobraImport {
			ok = true
			continue
		}
		name := path.Base(p)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		foreign[name] = true
	}
	return foreign, ok
}

// bindings maps expressions assigned a flag set with a known group name to
// that group.
func bindings(file *ast.File) map[string]string {
	out := make(map[string]string)
	bind := func(lhs []ast.Expr, rhs []ast.Expr) {
		if len(lhs) != len(rhs) {
			return
		}
		for i, r := range rhs {
			if g, ok := groupCall(r); ok {
				out[types.ExprString(lhs[i])] = g
			}
		}
	}
	ast.Inspect(file, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.AssignStmt:
			bind(v.Lhs, v.Rhs)
		case *ast.ValueSpec:
			lhs := make([]ast.Expr, len(v.Names))
			for i, id := range v.Names {
				lhs[i] = id
			}
			bind(lhs, v.Values)
		}
		return true
	})
	return out
}

// groupCall recognizes pflag.NewFlagSet("g", ...) and X.Group("g").
func groupCall(expr ast.Expr) (string, bool) {
	call, ok := expr.(*ast.CallExpr)
	if !ok || len(call.Args) == 0 {
		return "", false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	switch sel.Sel.Name {
	case "NewFlagSet", "Group":
		return stringLit(call.Args[0])
	}
	return "", false
}

func receiverGroup(x ast.Expr, groups map[string]string) string {
	if g, ok := groupCall(x); ok {
		return g
	}
	return groups[types.ExprString(x)]
}

func stringLit(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

// text evaluates a string literal or a concatenation of them. Anything else
// is rendered as source.
func text(expr ast.Expr) string {
	if s, ok := stringLit(expr); ok {
		return s
	}
	if bin, ok := expr.(*ast.BinaryExpr); ok && bin.Op == token.ADD {
		return text(bin.X) + text(bin.Y)
	}
	return types.ExprString(expr)
}

// literal renders a default value the way pflag prints it where the
// expression allows.
func literal(expr ast.Expr) string {
	switch v := expr.(type) {
	case *ast.BasicLit:
		if v.Kind == token.STRING {
			s, _ := stringLit(v)
			return s
		}
		return v.Value
	case *ast.CompositeLit:
		parts := make([]string, 0, len(v.Elts))
		for _, elt := range v.Elts {
			parts = append(parts, literal(elt))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case *ast.Ident:
		if v.Name == "nil" {
			return "[]"
		}
		return v.Name
	case *ast.UnaryExpr:
		if v.Op == token.SUB {
			return "-" + literal(v.X)
		}
	}
	return types.ExprString(expr)
}
