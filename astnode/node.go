// Package astnode is a small expression syntax tree whose nodes point back
// at their parents and may be shared between a program's body and its
// symbol table. Its shape-functions save, load and describe such graphs.
package astnode

import (
	"fmt"
	"strings"

	"github.com/signadot/go-sync/synclib"
)

// Op is the operator of a Node.
type Op string

const (
	OpNum Op = "num"
	OpVar Op = "var"
	OpNeg Op = "neg"
	OpAdd Op = "add"
	OpMul Op = "mul"
	OpLet Op = "let"
)

// Node is one expression. Parent is nil for a root.
type Node struct {
	Op     Op
	Value  int64
	Name   string
	Args   []*Node
	Parent *Node
}

// Program is a named expression with its let-bound definitions.
type Program struct {
	Name    string
	Body    *Node
	Symbols map[string]*Node
	Tags    []string
	Source  []byte
	Weights []float64
}

// NodeMode is the sub-object mode nodes are synced with.
const NodeMode = synclib.Deduplicate | synclib.DynamicType

// SyncNode is the shape-function of Node.
func SyncNode(m synclib.Manager, n *Node) *Node {
	if m.Mode() != synclib.Saving {
		n = &Node{}
		m.SetCurrentObject(n)
	}
	n.Op = Op(synclib.TypeTag(m, string(n.Op)))
	switch n.Op {
	case OpNum:
		n.Value = synclib.Int(m, "value", n.Value)
	case OpVar, OpLet:
		n.Name = m.SyncString("name", n.Name)
	}
	if m.Mode() == synclib.Schema {
		n.Value = synclib.Int(m, "value", n.Value)
		n.Name = m.SyncString("name", n.Name)
	}
	n.Parent = synclib.Sync(m, "parent", n.Parent, SyncNode, NodeMode)
	n.Args = synclib.SyncObjects(m, "args", n.Args, SyncNode, NodeMode, synclib.List)
	return n
}

// SyncProgram is the shape-function of Program.
func SyncProgram(m synclib.Manager, p *Program) *Program {
	if m.Mode() != synclib.Saving {
		p = &Program{}
		m.SetCurrentObject(p)
	}
	p.Name = m.SyncString("name", p.Name)
	p.Body = synclib.Sync(m, "body", p.Body, SyncNode, NodeMode)
	p.Symbols = synclib.SyncMap(m, "symbols", p.Symbols,
		synclib.StringElem[string](),
		synclib.ObjectElem(SyncNode, NodeMode),
		synclib.List)
	p.Tags = synclib.SyncSlice(m, "tags", p.Tags, synclib.StringElem[string](), synclib.List)
	p.Source = m.SyncBytes("source", p.Source, synclib.List, -1)
	p.Weights = synclib.SyncSlice(m, "weights", p.Weights, synclib.FloatElem[float64](), synclib.List)
	return p
}

// Num returns a number literal.
func Num(v int64) *Node {
	return &Node{Op: OpNum, Value: v}
}

// Var returns a variable reference.
func Var(name string) *Node {
	return &Node{Op: OpVar, Name: name}
}

// Apply returns op applied to args and sets their parents.
func Apply(op Op, args ...*Node) *Node {
	n := &Node{Op: op, Args: args}
	for _, a := range args {
		a.Parent = n
	}
	return n
}

// Let binds name to def in body.
func Let(name string, def, body *Node) *Node {
	n := Apply(OpLet, def, body)
	n.Name = name
	return n
}

// Eval evaluates n. Variables are looked up in the nearest enclosing let,
// then in symbols.
func Eval(n *Node, symbols map[string]*Node) (int64, error) {
	return eval(n, nil, symbols, 0)
}

type scope struct {
	name  string
	value int64
	up    *scope
}

const maxEvalDepth = 1000

func eval(n *Node, sc *scope, symbols map[string]*Node, depth int) (int64, error) {
	if n == nil {
		return 0, fmt.Errorf("nil node")
	}
	if depth > maxEvalDepth {
		return 0, fmt.Errorf("expression too deep")
	}
	switch n.Op {
	case OpNum:
		return n.Value, nil
	case OpVar:
		for s := sc; s != nil; s = s.up {
			if s.name == n.Name {
				return s.value, nil
			}
		}
		if def, ok := symbols[n.Name]; ok {
			return eval(def, nil, symbols, depth+1)
		}
		return 0, fmt.Errorf("undefined variable %q", n.Name)
	case OpNeg:
		if len(n.Args) != 1 {
			return 0, fmt.Errorf("neg takes 1 argument, got %d", len(n.Args))
		}
		v, err := eval(n.Args[0], sc, symbols, depth+1)
		return -v, err
	case OpAdd, OpMul:
		var acc int64
		if n.Op == OpMul {
			acc = 1
		}
		for _, a := range n.Args {
			v, err := eval(a, sc, symbols, depth+1)
			if err != nil {
				return 0, err
			}
			if n.Op == OpAdd {
				acc += v
			} else {
				acc *= v
			}
		}
		return acc, nil
	case OpLet:
		if len(n.Args) != 2 {
			return 0, fmt.Errorf("let takes 2 arguments, got %d", len(n.Args))
		}
		v, err := eval(n.Args[0], sc, symbols, depth+1)
		if err != nil {
			return 0, err
		}
		return eval(n.Args[1], &scope{name: n.Name, value: v, up: sc}, symbols, depth+1)
	}
	return 0, fmt.Errorf("unknown op %q", n.Op)
}

// String renders n in prefix notation, e.g. (add 1 x).
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	switch n.Op {
	case OpNum:
		fmt.Fprintf(b, "%d", n.Value)
		return
	case OpVar:
		b.WriteString(n.Name)
		return
	}
	b.WriteByte('(')
	b.WriteString(string(n.Op))
	if n.Op == OpLet {
		b.WriteByte(' ')
		b.WriteString(n.Name)
	}
	for _, a := range n.Args {
		b.WriteByte(' ')
		a.write(b)
	}
	b.WriteByte(')')
}

// Sample returns a program that shares the node bound to "two" between
// its body and its symbols:
//
//	let x = 3 in (add x two (mul two 5))
func Sample() *Program {
	two := Num(2)
	mul := Apply(OpMul, two, Num(5))
	body := Let("x", Num(3), Apply(OpAdd, Var("x"), Var("two"), mul))
	return &Program{
		Name:    "sample",
		Body:    body,
		Symbols: map[string]*Node{"two": two},
		Tags:    []string{"demo", "shared"},
		Source:  []byte("let x = 3 in x + two + two*5"),
		Weights: []float64{0.5, 1.25},
	}
}
