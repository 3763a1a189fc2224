// Package astpack serializes a parsed module set to a compact msgpack
// snapshot and restores it with stable IDs. The snapshot is the handoff
// format between the external parser and the checker: arenas are flat
// slices, so encoding is a straight copy and decoding rebuilds the same
// index space.
package astpack

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"sigil/internal/ast"
	"sigil/internal/source"
)

// SchemaVersion guards against stale snapshots after arena layout changes.
const SchemaVersion = 1

// ErrSchemaVersion is returned when a snapshot was produced by an
// incompatible schema.
var ErrSchemaVersion = errors.New("astpack: incompatible snapshot version")

// Snapshot bundles everything a checking run needs: the string interner,
// the loaded source files, and every AST arena in allocation order.
type Snapshot struct {
	Version uint32        `msgpack:"v"`
	Strings []string      `msgpack:"strings"`
	Sources []source.File `msgpack:"sources"`

	Files []ast.File `msgpack:"files"`

	Items    []ast.Item        `msgpack:"items"`
	Fns      []ast.FnItem      `msgpack:"fns"`
	FnParams []ast.FnParam     `msgpack:"fn_params"`
	Structs  []ast.StructItem  `msgpack:"structs"`
	Fields   []ast.StructField `msgpack:"fields"`
	Enums    []ast.EnumItem    `msgpack:"enums"`
	Variants []ast.EnumVariant `msgpack:"variants"`
	Aliases  []ast.AliasItem   `msgpack:"aliases"`
	Consts   []ast.ConstItem   `msgpack:"consts"`
	Imports  []ast.ImportItem  `msgpack:"imports"`

	Stmts       []ast.Stmt           `msgpack:"stmts"`
	StmtBlocks  []ast.StmtBlockData  `msgpack:"stmt_blocks"`
	StmtLets    []ast.StmtLetData    `msgpack:"stmt_lets"`
	StmtAssigns []ast.StmtAssignData `msgpack:"stmt_assigns"`
	StmtReturns []ast.StmtReturnData `msgpack:"stmt_returns"`
	StmtIfs     []ast.StmtIfData     `msgpack:"stmt_ifs"`
	StmtWhiles  []ast.StmtWhileData  `msgpack:"stmt_whiles"`
	StmtExprs   []ast.StmtExprData   `msgpack:"stmt_exprs"`
	StmtQuants  []ast.StmtQuantData  `msgpack:"stmt_quants"`

	Exprs        []ast.Expr            `msgpack:"exprs"`
	ExprIdents   []ast.ExprIdentData   `msgpack:"expr_idents"`
	ExprLiterals []ast.ExprLiteralData `msgpack:"expr_literals"`
	ExprUnaries  []ast.ExprUnaryData   `msgpack:"expr_unaries"`
	ExprBinaries []ast.ExprBinaryData  `msgpack:"expr_binaries"`
	ExprCalls    []ast.ExprCallData    `msgpack:"expr_calls"`
	ExprMembers  []ast.ExprMemberData  `msgpack:"expr_members"`
	ExprPaths    []ast.ExprPathData    `msgpack:"expr_paths"`
	ExprIndices  []ast.ExprIndexData   `msgpack:"expr_indices"`
	ExprArrays   []ast.ExprArrayData   `msgpack:"expr_arrays"`
	ExprStructs  []ast.ExprStructData  `msgpack:"expr_structs"`
	ExprGroups   []ast.ExprGroupData   `msgpack:"expr_groups"`

	TypeExprs  []ast.TypeExpr      `msgpack:"type_exprs"`
	TypePaths  []ast.TypePathData  `msgpack:"type_paths"`
	TypeArrays []ast.TypeArrayData `msgpack:"type_arrays"`
	TypeFns    []ast.TypeFnData    `msgpack:"type_fns"`
}

// Encode captures the builder, file set, and interner into a snapshot blob.
func Encode(b *ast.Builder, fset *source.FileSet, strs *source.Interner) ([]byte, error) {
	snap := Snapshot{
		Version: SchemaVersion,
		Strings: strs.Snapshot(),
		Sources: fset.Files(),

		Files: b.Files.Arena.Slice(),

		Items:    b.Items.Arena.Slice(),
		Fns:      b.Items.Fns.Slice(),
		FnParams: b.Items.FnParams.Slice(),
		Structs:  b.Items.Structs.Slice(),
		Fields:   b.Items.Fields.Slice(),
		Enums:    b.Items.Enums.Slice(),
		Variants: b.Items.Variants.Slice(),
		Aliases:  b.Items.Aliases.Slice(),
		Consts:   b.Items.Consts.Slice(),
		Imports:  b.Items.Imports.Slice(),

		Stmts:       b.Stmts.Arena.Slice(),
		StmtBlocks:  b.Stmts.Blocks.Slice(),
		StmtLets:    b.Stmts.Lets.Slice(),
		StmtAssigns: b.Stmts.Assigns.Slice(),
		StmtReturns: b.Stmts.Returns.Slice(),
		StmtIfs:     b.Stmts.Ifs.Slice(),
		StmtWhiles:  b.Stmts.Whiles.Slice(),
		StmtExprs:   b.Stmts.Exprs.Slice(),
		StmtQuants:  b.Stmts.Quants.Slice(),

		Exprs:        b.Exprs.Arena.Slice(),
		ExprIdents:   b.Exprs.Idents.Slice(),
		ExprLiterals: b.Exprs.Literals.Slice(),
		ExprUnaries:  b.Exprs.Unaries.Slice(),
		ExprBinaries: b.Exprs.Binaries.Slice(),
		ExprCalls:    b.Exprs.Calls.Slice(),
		ExprMembers:  b.Exprs.Members.Slice(),
		ExprPaths:    b.Exprs.Paths.Slice(),
		ExprIndices:  b.Exprs.Indices.Slice(),
		ExprArrays:   b.Exprs.Arrays.Slice(),
		ExprStructs:  b.Exprs.Structs.Slice(),
		ExprGroups:   b.Exprs.Groups.Slice(),

		TypeExprs:  b.Types.Arena.Slice(),
		TypePaths:  b.Types.Paths.Slice(),
		TypeArrays: b.Types.Arrays.Slice(),
		TypeFns:    b.Types.Fns.Slice(),
	}
	out, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("astpack: encode: %w", err)
	}
	return out, nil
}

// Decode restores a builder, file set, and interner from a snapshot blob.
func Decode(data []byte) (*ast.Builder, *source.FileSet, *source.Interner, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, nil, nil, fmt.Errorf("astpack: decode: %w", err)
	}
	if snap.Version != SchemaVersion {
		return nil, nil, nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaVersion, snap.Version, SchemaVersion)
	}

	b := &ast.Builder{
		Files: &ast.Files{Arena: ast.RestoreArena(snap.Files)},
		Items: &ast.Items{
			Arena:    ast.RestoreArena(snap.Items),
			Fns:      ast.RestoreArena(snap.Fns),
			FnParams: ast.RestoreArena(snap.FnParams),
			Structs:  ast.RestoreArena(snap.Structs),
			Fields:   ast.RestoreArena(snap.Fields),
			Enums:    ast.RestoreArena(snap.Enums),
			Variants: ast.RestoreArena(snap.Variants),
			Aliases:  ast.RestoreArena(snap.Aliases),
			Consts:   ast.RestoreArena(snap.Consts),
			Imports:  ast.RestoreArena(snap.Imports),
		},
		Stmts: &ast.Stmts{
			Arena:   ast.RestoreArena(snap.Stmts),
			Blocks:  ast.RestoreArena(snap.StmtBlocks),
			Lets:    ast.RestoreArena(snap.StmtLets),
			Assigns: ast.RestoreArena(snap.StmtAssigns),
			Returns: ast.RestoreArena(snap.StmtReturns),
			Ifs:     ast.RestoreArena(snap.StmtIfs),
			Whiles:  ast.RestoreArena(snap.StmtWhiles),
			Exprs:   ast.RestoreArena(snap.StmtExprs),
			Quants:  ast.RestoreArena(snap.StmtQuants),
		},
		Exprs: &ast.Exprs{
			Arena:    ast.RestoreArena(snap.Exprs),
			Idents:   ast.RestoreArena(snap.ExprIdents),
			Literals: ast.RestoreArena(snap.ExprLiterals),
			Unaries:  ast.RestoreArena(snap.ExprUnaries),
			Binaries: ast.RestoreArena(snap.ExprBinaries),
			Calls:    ast.RestoreArena(snap.ExprCalls),
			Members:  ast.RestoreArena(snap.ExprMembers),
			Paths:    ast.RestoreArena(snap.ExprPaths),
			Indices:  ast.RestoreArena(snap.ExprIndices),
			Arrays:   ast.RestoreArena(snap.ExprArrays),
			Structs:  ast.RestoreArena(snap.ExprStructs),
			Groups:   ast.RestoreArena(snap.ExprGroups),
		},
		Types: &ast.Types{
			Arena:  ast.RestoreArena(snap.TypeExprs),
			Paths:  ast.RestoreArena(snap.TypePaths),
			Arrays: ast.RestoreArena(snap.TypeArrays),
			Fns:    ast.RestoreArena(snap.TypeFns),
		},
	}
	return b, source.RestoreFileSet(snap.Sources), source.Restore(snap.Strings), nil
}
