// Package ast defines the syntax tree for the ChainDSL language. Nodes are
// passive data: they carry no behavior beyond position accessors and the
// Walk traversal in visitor.go. The tree is immutable after construction;
// later phases read it and produce new data (diagnostics, WAT text).
package ast

import "math/big"

// Position locates a node in its source file. Line and Column are 1-based.
type Position struct {
	File   string
	Line   int
	Column int
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Position
}

// Item is a top-level declaration.
type Item interface {
	Node
	isItem()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	isStmt()
}

// Expr is an expression.
type Expr interface {
	Node
	isExpr()
}

// Type is a type annotation.
type Type interface {
	Node
	isType()
}

// Pattern is a match-arm pattern.
type Pattern interface {
	Node
	isPattern()
}

// SourceFile is the root of the tree, one per compilation request.
type SourceFile struct {
	File  string
	Items []Item
}

// ---- Items ----

type Contract struct {
	Position
	Name      string
	Fields    []Field
	Functions []*Function
	Events    []*Event
}

type Function struct {
	Position
	Name   string
	Public bool
	Params []Param
	Return Type // nil when the function returns nothing
	Body   *Block
}

type Struct struct {
	Position
	Name   string
	Fields []Field
}

type Field struct {
	Position
	Name string
	Type Type
}

type Param struct {
	Position
	Name string
	Type Type
}

type Event struct {
	Position
	Name   string
	Fields []EventField
}

// EventField's Indexed flag is metadata for downstream log filtering, not a
// type constraint.
type EventField struct {
	Position
	Name    string
	Type    Type
	Indexed bool
}

type Enum struct {
	Position
	Name     string
	Variants []EnumVariant
}

type EnumVariant struct {
	Position
	Name    string
	Payload []Type // empty for unit variants
}

type Trait struct {
	Position
	Name    string
	Methods []*Function // nil bodies are required signatures
}

type Impl struct {
	Position
	Trait     string // empty for inherent impls
	Target    string
	Functions []*Function
}

type OperatorImpl struct {
	Position
	Op       string
	Target   string
	Function *Function
}

type Use struct {
	Position
	Path []string
}

type Const struct {
	Position
	Name  string
	Type  Type
	Value Expr
}

type Module struct {
	Position
	Name  string
	Items []Item
}

// Index declares a data-ingestion mapping from a chain event source.
type Index struct {
	Position
	Name    string
	Chain   string
	Address string
	Events  []string
	Map     []Field
}

// Query declares a read mapping over a previously declared index.
type Query struct {
	Position
	Name    string
	From    string
	Where   Expr // nil when unfiltered
	OrderBy string
	Desc    bool
	Limit   *big.Int // nil when unbounded
}

func (*Contract) isItem()     {}
func (*Function) isItem()     {}
func (*Struct) isItem()       {}
func (*Enum) isItem()         {}
func (*Trait) isItem()        {}
func (*Impl) isItem()         {}
func (*OperatorImpl) isItem() {}
func (*Use) isItem()          {}
func (*Const) isItem()        {}
func (*Module) isItem()       {}
func (*Index) isItem()        {}
func (*Query) isItem()        {}

// ---- Statements ----

type Block struct {
	Position
	Stmts []Stmt
}

type ExprStmt struct {
	Position
	X Expr
}

type Let struct {
	Position
	Name  string
	Mut   bool
	Type  Type // nil when inferred
	Value Expr
}

type Assign struct {
	Position
	Target Expr
	Value  Expr
}

type If struct {
	Position
	Cond Expr
	Then *Block
	Else Stmt // *Block, *If, or nil
}

type While struct {
	Position
	Cond Expr
	Body *Block
}

type For struct {
	Position
	Binding  string
	Iterable Expr
	Body     *Block
}

type Match struct {
	Position
	Subject Expr
	Arms    []MatchArm
}

type MatchArm struct {
	Position
	Pattern Pattern
	Body    Stmt
}

type Return struct {
	Position
	Value Expr // nil for bare return
}

type Break struct {
	Position
}

type Continue struct {
	Position
}

type Emit struct {
	Position
	Event string
	Args  []Expr
}

func (*Block) isStmt()    {}
func (*ExprStmt) isStmt() {}
func (*Let) isStmt()      {}
func (*Assign) isStmt()   {}
func (*If) isStmt()       {}
func (*While) isStmt()    {}
func (*For) isStmt()      {}
func (*Match) isStmt()    {}
func (*Return) isStmt()   {}
func (*Break) isStmt()    {}
func (*Continue) isStmt() {}
func (*Emit) isStmt()     {}

// ---- Expressions ----

type Ident struct {
	Position
	Name string
}

// IntLit keeps the literal as a big integer: u256/i256 literals legitimately
// exceed 64 bits and must not be narrowed before validation.
type IntLit struct {
	Position
	Value *big.Int
}

type FloatLit struct {
	Position
	Value float64
}

type StringLit struct {
	Position
	Value string
}

type BoolLit struct {
	Position
	Value bool
}

type AddressLit struct {
	Position
	Value string // full lexeme including the 0x prefix
}

type Binary struct {
	Position
	Op    string
	Left  Expr
	Right Expr
}

type Unary struct {
	Position
	Op string
	X  Expr
}

type Call struct {
	Position
	Callee Expr
	Args   []Expr
}

type Member struct {
	Position
	X    Expr
	Name string
}

type IndexExpr struct {
	Position
	X     Expr
	Index Expr
}

type ArrayLit struct {
	Position
	Elems []Expr
}

type ObjectLit struct {
	Position
	Fields []ObjectField
}

type ObjectField struct {
	Position
	Name  string
	Value Expr
}

// TensorLit is an ML-operation literal: the operation name and its operands.
type TensorLit struct {
	Position
	Op   string
	Args []Expr
}

type Cast struct {
	Position
	X  Expr
	To Type
}

type Await struct {
	Position
	X Expr
}

func (*Ident) isExpr()      {}
func (*IntLit) isExpr()     {}
func (*FloatLit) isExpr()   {}
func (*StringLit) isExpr()  {}
func (*BoolLit) isExpr()    {}
func (*AddressLit) isExpr() {}
func (*Binary) isExpr()     {}
func (*Unary) isExpr()      {}
func (*Call) isExpr()       {}
func (*Member) isExpr()     {}
func (*IndexExpr) isExpr()  {}
func (*ArrayLit) isExpr()   {}
func (*ObjectLit) isExpr()  {}
func (*TensorLit) isExpr()  {}
func (*Cast) isExpr()       {}
func (*Await) isExpr()      {}

// ---- Types ----

// Primitive's Name is drawn from the closed set the lexer reserves
// (u8..u256, i8..i256, bool, String, Address, Bytes).
type Primitive struct {
	Position
	Name string
}

type Array struct {
	Position
	Elem Type
}

type Tuple struct {
	Position
	Elems []Type
}

type FuncType struct {
	Position
	Params []Type
	Return Type
}

type Generic struct {
	Position
	Name string
	Args []Type
}

type Ref struct {
	Position
	Mut    bool
	Target Type
}

func (*Primitive) isType() {}
func (*Array) isType()     {}
func (*Tuple) isType()     {}
func (*FuncType) isType()  {}
func (*Generic) isType()   {}
func (*Ref) isType()       {}

// ---- Patterns ----

type IdentPat struct {
	Position
	Name string
}

type LitPat struct {
	Position
	Value Expr
}

type StructPat struct {
	Position
	Name   string
	Fields []string
}

type EnumPat struct {
	Position
	Enum    string
	Variant string
	Binds   []string
}

type WildcardPat struct {
	Position
}

func (*IdentPat) isPattern()    {}
func (*LitPat) isPattern()      {}
func (*StructPat) isPattern()   {}
func (*EnumPat) isPattern()     {}
func (*WildcardPat) isPattern() {}

// Pos implements Node for every type embedding Position.
func (p Position) Pos() Position { return p }
