package ast

// Visitor's Visit method is invoked for each node encountered by Walk. If
// the returned visitor is non-nil, Walk visits each child of the node with
// it, followed by a call of v.Visit(nil).
type Visitor interface {
	Visit(Node) Visitor
}

// Walk traverses the tree in depth-first order. Dispatch is a single type
// switch over the concrete node set, so adding a node type without a case
// here fails loudly in tests rather than silently at runtime.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Contract:
		for i := range n.Fields {
			Walk(v, &n.Fields[i])
		}
		for _, fn := range n.Functions {
			Walk(v, fn)
		}
		for _, ev := range n.Events {
			Walk(v, ev)
		}
	case *Function:
		for i := range n.Params {
			Walk(v, &n.Params[i])
		}
		if n.Return != nil {
			Walk(v, n.Return)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *Struct:
		for i := range n.Fields {
			Walk(v, &n.Fields[i])
		}
	case *Field:
		if n.Type != nil {
			Walk(v, n.Type)
		}
	case *Param:
		if n.Type != nil {
			Walk(v, n.Type)
		}
	case *Event:
		for i := range n.Fields {
			Walk(v, &n.Fields[i])
		}
	case *EventField:
		if n.Type != nil {
			Walk(v, n.Type)
		}
	case *Enum:
		for i := range n.Variants {
			for _, t := range n.Variants[i].Payload {
				Walk(v, t)
			}
		}
	case *Trait:
		for _, fn := range n.Methods {
			Walk(v, fn)
		}
	case *Impl:
		for _, fn := range n.Functions {
			Walk(v, fn)
		}
	case *OperatorImpl:
		Walk(v, n.Function)
	case *Use, *Break, *Continue, *Ident, *IntLit, *FloatLit, *StringLit,
		*BoolLit, *AddressLit, *Primitive, *IdentPat, *StructPat, *EnumPat,
		*WildcardPat:
		// leaves
	case *Const:
		if n.Type != nil {
			Walk(v, n.Type)
		}
		Walk(v, n.Value)
	case *Module:
		for _, item := range n.Items {
			Walk(v, item)
		}
	case *Index:
		for i := range n.Map {
			Walk(v, &n.Map[i])
		}
	case *Query:
		if n.Where != nil {
			Walk(v, n.Where)
		}

	case *Block:
		for _, s := range n.Stmts {
			Walk(v, s)
		}
	case *ExprStmt:
		Walk(v, n.X)
	case *Let:
		if n.Type != nil {
			Walk(v, n.Type)
		}
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Assign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *If:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		if n.Else != nil {
			Walk(v, n.Else)
		}
	case *While:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *For:
		Walk(v, n.Iterable)
		Walk(v, n.Body)
	case *Match:
		Walk(v, n.Subject)
		for i := range n.Arms {
			Walk(v, n.Arms[i].Pattern)
			Walk(v, n.Arms[i].Body)
		}
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Emit:
		for _, a := range n.Args {
			Walk(v, a)
		}

	case *Binary:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *Unary:
		Walk(v, n.X)
	case *Call:
		Walk(v, n.Callee)
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *Member:
		Walk(v, n.X)
	case *IndexExpr:
		Walk(v, n.X)
		Walk(v, n.Index)
	case *ArrayLit:
		for _, e := range n.Elems {
			Walk(v, e)
		}
	case *ObjectLit:
		for i := range n.Fields {
			Walk(v, n.Fields[i].Value)
		}
	case *TensorLit:
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *Cast:
		Walk(v, n.X)
		Walk(v, n.To)
	case *Await:
		Walk(v, n.X)

	case *Array:
		Walk(v, n.Elem)
	case *Tuple:
		for _, t := range n.Elems {
			Walk(v, t)
		}
	case *FuncType:
		for _, t := range n.Params {
			Walk(v, t)
		}
		if n.Return != nil {
			Walk(v, n.Return)
		}
	case *Generic:
		for _, t := range n.Args {
			Walk(v, t)
		}
	case *Ref:
		Walk(v, n.Target)
	case *LitPat:
		Walk(v, n.Value)
	}

	v.Visit(nil)
}

// WalkFile visits every top-level item of the file.
func WalkFile(v Visitor, file *SourceFile) {
	for _, item := range file.Items {
		Walk(v, item)
	}
}

// inspector adapts a plain function to the Visitor interface.
type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if node == nil {
		return nil
	}
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree, calling f for each node. If f returns false
// for a node, the node's children are skipped.
func Inspect(file *SourceFile, f func(Node) bool) {
	for _, item := range file.Items {
		Walk(inspector(f), item)
	}
}
