package parser

import (
	"github.com/morgana/queryengine/ast"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/token"
)

// parseSelect validates the fixed SELECT...FROM...[JOIN...ON...]*[WHERE...]
// shape and splits it into its clause ranges before delegating each one to
// a focused sub-parser.
func (p *Parser) parseSelect() (*ast.SelectStmt, error) {
	startPos := p.cur().Pos
	p.advance() // consume SELECT

	fromIdx, err := p.findSingle(0, token.FROM, true, "FROM")
	if err != nil {
		return nil, err
	}
	whereIdx, err := p.findSingle(0, token.WHERE, false, "WHERE")
	if err != nil {
		return nil, err
	}

	stmtEnd := p.statementEnd()
	if whereIdx != -1 && whereIdx < fromIdx {
		return nil, engineerr.Parsef("WHERE clause appears before FROM")
	}
	if err := p.checkNoTrailingStatement(stmtEnd); err != nil {
		return nil, err
	}

	tablesEnd := stmtEnd
	if whereIdx != -1 {
		tablesEnd = whereIdx
	}

	if fromIdx-1 < 1 {
		return nil, engineerr.Parsef("SELECT clause has no projected columns")
	}
	if tablesEnd-(fromIdx+1) < 1 {
		return nil, engineerr.Parsef("FROM clause has no tables")
	}
	if whereIdx != -1 && stmtEnd-(whereIdx+1) < 1 {
		return nil, engineerr.Parsef("WHERE clause has no content")
	}

	columns, err := p.parseProjection(1, fromIdx)
	if err != nil {
		return nil, err
	}

	tables, joins, err := p.parseFromClause(fromIdx+1, tablesEnd)
	if err != nil {
		return nil, err
	}

	var where ast.Expr
	if whereIdx != -1 {
		where, err = p.parseWhereExpr(whereIdx+1, stmtEnd)
		if err != nil {
			return nil, err
		}
	}

	endPos := p.at(stmtEnd - 1).Pos
	return &ast.SelectStmt{
		StartPos: startPos,
		EndPos:   endPos,
		Columns:  columns,
		Tables:   tables,
		Joins:    joins,
		Where:    where,
	}, nil
}

// statementEnd returns the index just past the statement's content,
// stripping a single optional trailing SEMICOLON.
func (p *Parser) statementEnd() int {
	end := len(p.items)
	for end > 0 && p.items[end-1].Type == token.EOF {
		end--
	}
	if end > 0 && p.items[end-1].Type == token.SEMICOLON {
		end--
	}
	return end
}

// checkNoTrailingStatement fails if anything beyond a single optional
// trailing semicolon remains, i.e. more than one top-level statement.
func (p *Parser) checkNoTrailingStatement(stmtEnd int) error {
	i := stmtEnd
	for i < len(p.items) && p.items[i].Type == token.SEMICOLON {
		i++
	}
	for i < len(p.items) {
		if p.items[i].Type == token.EOF {
			i++
			continue
		}
		return engineerr.Parsef("unexpected token %q after statement", p.items[i].Value)
	}
	return nil
}

// parseProjection splits the (SELECT, FROM) range at COMMA, then each item
// at AS to obtain (expression, optional alias). A lone `*` is recorded as
// a Star item; actual expansion against the FROM table happens at resolve
// time, once the table list is known.
func (p *Parser) parseProjection(from, to int) ([]*ast.SelectItem, error) {
	items := splitTopLevel(p.items, from, to, token.COMMA)
	ranges := boundaryRanges(from, to, items)

	var out []*ast.SelectItem
	for _, r := range ranges {
		item, err := p.parseProjectionItem(r[0], r[1])
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (p *Parser) parseProjectionItem(from, to int) (*ast.SelectItem, error) {
	if to-from < 1 {
		return nil, engineerr.Parsef("empty projection item")
	}
	startPos := p.at(from).Pos
	endPos := p.at(to - 1).Pos

	if to-from == 1 && p.items[from].Type == token.ASTERISK {
		return &ast.SelectItem{StartPos: startPos, EndPos: endPos, Star: true}, nil
	}

	asIdx := -1
	for i := from; i < to; i++ {
		if p.items[i].Type == token.AS {
			asIdx = i
			break
		}
	}
	exprEnd := to
	alias := ""
	if asIdx != -1 {
		exprEnd = asIdx
		if to-(asIdx+1) != 1 {
			return nil, engineerr.Parsef("malformed AS alias in projection")
		}
		alias = identText(p.items[asIdx+1])
	}

	col, err := p.parseColName(from, exprEnd)
	if err != nil {
		return nil, err
	}
	return &ast.SelectItem{StartPos: startPos, EndPos: endPos, Col: col, Alias: alias}, nil
}

// parseColName parses a bare column reference, in either of its two
// shapes: a single identifier, or IDENT DOT IDENT.
func (p *Parser) parseColName(from, to int) (*ast.ColName, error) {
	startPos := p.at(from).Pos
	endPos := p.at(to - 1).Pos
	switch to - from {
	case 1:
		if p.items[from].Type != token.IDENT {
			return nil, engineerr.Parsef("expected column name, got %q", p.items[from].Value)
		}
		return &ast.ColName{StartPos: startPos, EndPos: endPos, Name: identText(p.items[from])}, nil
	case 3:
		if p.items[from].Type != token.IDENT || p.items[from+1].Type != token.DOT || p.items[from+2].Type != token.IDENT {
			return nil, engineerr.Parsef("malformed qualified column reference")
		}
		return &ast.ColName{
			StartPos:  startPos,
			EndPos:    endPos,
			Table:     identText(p.items[from]),
			Qualified: true,
			Name:      identText(p.items[from+2]),
		}, nil
	}
	return nil, engineerr.Parsef("malformed column reference")
}

// parseFromClause splits the FROM range at JOIN tokens into per-table
// segments; the first segment (no preceding JOIN) may itself list multiple
// comma-separated tables; every following segment is one
// JOIN <table> [AS alias] ON <l>=<r>.
func (p *Parser) parseFromClause(from, to int) ([]*ast.TableRef, []*ast.JoinClause, error) {
	joinIdxs := splitTopLevel(p.items, from, to, token.JOIN)

	firstEnd := to
	if len(joinIdxs) > 0 {
		firstEnd = joinIdxs[0]
	}
	// A join-kind keyword (INNER/LEFT/RIGHT/OUTER) immediately preceding
	// JOIN belongs to the join segment, not the preceding table list.
	for firstEnd > from && isJoinKindKeyword(p.items[firstEnd-1].Type) {
		firstEnd--
	}

	tables, err := p.parseTableList(from, firstEnd)
	if err != nil {
		return nil, nil, err
	}
	if len(tables) == 0 {
		return nil, nil, engineerr.Parsef("FROM clause has no tables")
	}

	var joins []*ast.JoinClause
	kindFrom := firstEnd
	for i, ji := range joinIdxs {
		segEnd := to
		if i+1 < len(joinIdxs) {
			segEnd = joinIdxs[i+1]
			for segEnd > ji && isJoinKindKeyword(p.items[segEnd-1].Type) {
				segEnd--
			}
		}
		jc, err := p.parseJoinSegment(kindFrom, ji, segEnd)
		if err != nil {
			return nil, nil, err
		}
		joins = append(joins, jc)
		kindFrom = segEnd
	}
	return tables, joins, nil
}

func isJoinKindKeyword(t token.Token) bool {
	switch t {
	case token.INNER, token.LEFT, token.RIGHT, token.OUTER, token.JOIN:
		return true
	}
	return false
}

// parseTableList splits [from,to) at COMMA and each item at AS to obtain
// (table_name, optional alias) pairs.
func (p *Parser) parseTableList(from, to int) ([]*ast.TableRef, error) {
	idxs := splitTopLevel(p.items, from, to, token.COMMA)
	ranges := boundaryRanges(from, to, idxs)

	var out []*ast.TableRef
	for _, r := range ranges {
		if r[1]-r[0] < 1 {
			return nil, engineerr.Parsef("empty table reference in FROM")
		}
		tr, err := p.parseSingleTableRef(r[0], r[1])
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

func (p *Parser) parseSingleTableRef(from, to int) (*ast.TableRef, error) {
	startPos := p.at(from).Pos
	endPos := p.at(to - 1).Pos

	asIdx := -1
	for i := from; i < to; i++ {
		if p.items[i].Type == token.AS {
			asIdx = i
			break
		}
	}
	nameEnd := to
	alias := ""
	if asIdx != -1 {
		nameEnd = asIdx
		if to-(asIdx+1) != 1 {
			return nil, engineerr.Parsef("malformed AS alias in FROM")
		}
		alias = identText(p.items[asIdx+1])
	} else if to-from == 2 && p.items[from].Type == token.IDENT && p.items[from+1].Type == token.IDENT {
		// bare "table alias" without AS
		nameEnd = from + 1
		alias = identText(p.items[from+1])
	}

	if nameEnd-from != 1 || p.items[from].Type != token.IDENT {
		return nil, engineerr.Parsef("malformed table reference in FROM")
	}
	return &ast.TableRef{StartPos: startPos, EndPos: endPos, Name: identText(p.items[from]), Alias: alias}, nil
}

// parseJoinSegment parses `[kind] JOIN <table> [AS alias] ON <l> = <r>`.
// joinIdx is the index of the JOIN token itself; kindFrom..joinIdx may hold
// a preceding INNER/LEFT/RIGHT/OUTER keyword.
func (p *Parser) parseJoinSegment(kindFrom, joinIdx, to int) (*ast.JoinClause, error) {
	startPos := p.at(joinIdx).Pos
	kind := token.INNER
	for i := kindFrom; i < joinIdx; i++ {
		switch p.items[i].Type {
		case token.INNER, token.LEFT, token.RIGHT, token.OUTER:
			kind = p.items[i].Type
		}
	}

	onIdx, err := p.findSingleIn(joinIdx+1, to, token.ON, true, "ON")
	if err != nil {
		return nil, err
	}
	if onIdx-(joinIdx+1) < 1 {
		return nil, engineerr.Parsef("malformed JOIN: missing table reference")
	}
	table, err := p.parseSingleTableRef(joinIdx+1, onIdx)
	if err != nil {
		return nil, err
	}

	eqIdxs := splitTopLevel(p.items, onIdx+1, to, token.EQ)
	if len(eqIdxs) != 1 {
		return nil, engineerr.Parsef("malformed JOIN ON: expected exactly one '='")
	}
	eqIdx := eqIdxs[0]
	left, err := p.parseColName(onIdx+1, eqIdx)
	if err != nil {
		return nil, err
	}
	right, err := p.parseColName(eqIdx+1, to)
	if err != nil {
		return nil, err
	}

	return &ast.JoinClause{
		StartPos: startPos,
		EndPos:   p.at(to - 1).Pos,
		Kind:     kind,
		Table:    table,
		OnLeft:   left,
		OnRight:  right,
	}, nil
}

// findSingleIn is findSingle scoped to an arbitrary [from, to) range.
func (p *Parser) findSingleIn(from, to int, tok token.Token, required bool, label string) (int, error) {
	found := -1
	depth := 0
	for i := from; i < to; i++ {
		switch p.items[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		if depth == 0 && p.items[i].Type == tok {
			if found != -1 {
				return -1, engineerr.Parsef("more than one %s clause", label)
			}
			found = i
		}
	}
	if found == -1 && required {
		return -1, engineerr.Parsef("missing %s clause", label)
	}
	return found, nil
}

// boundaryRanges turns a sorted list of split-point indices into the
// [start, end) sub-ranges of [from, to) they divide.
func boundaryRanges(from, to int, splitAt []int) [][2]int {
	var out [][2]int
	start := from
	for _, idx := range splitAt {
		out = append(out, [2]int{start, idx})
		start = idx + 1
	}
	out = append(out, [2]int{start, to})
	return out
}
