package rowfilter

import (
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/plan"
)

// node reconstructs the WHERE clause's boolean tree from the flattened
// querying filter stream, the same way pruner.buildTree does for partition
// pruning, but evaluated here row-by-row against the joined table rather
// than against candidate partition values.
type node struct {
	op       string // "and", "or", "not", "leaf"
	filter   *plan.QueryingFilter
	children []*node
}

func buildTree(elems []plan.QueryingElem) (*node, error) {
	tp := &treeParser{elems: elems}
	n, err := tp.parseOr()
	if err != nil {
		return nil, err
	}
	if tp.pos != len(elems) {
		return nil, engineerr.Parsef("malformed querying filter stream")
	}
	return n, nil
}

type treeParser struct {
	elems []plan.QueryingElem
	pos   int
}

func (tp *treeParser) cur() (plan.QueryingElem, bool) {
	if tp.pos >= len(tp.elems) {
		return plan.QueryingElem{}, false
	}
	return tp.elems[tp.pos], true
}

func (tp *treeParser) parseOr() (*node, error) {
	left, err := tp.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		e, ok := tp.cur()
		if !ok || e.IsFilter() || e.Connective != plan.ConnOr {
			break
		}
		tp.pos++
		right, err := tp.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &node{op: "or", children: []*node{left, right}}
	}
	return left, nil
}

func (tp *treeParser) parseAnd() (*node, error) {
	left, err := tp.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		e, ok := tp.cur()
		if !ok || e.IsFilter() || e.Connective != plan.ConnAnd {
			break
		}
		tp.pos++
		right, err := tp.parseNot()
		if err != nil {
			return nil, err
		}
		left = &node{op: "and", children: []*node{left, right}}
	}
	return left, nil
}

func (tp *treeParser) parseNot() (*node, error) {
	e, ok := tp.cur()
	if ok && !e.IsFilter() && e.Connective == plan.ConnNot {
		tp.pos++
		x, err := tp.parseNot()
		if err != nil {
			return nil, err
		}
		return &node{op: "not", children: []*node{x}}, nil
	}
	return tp.parseAtom()
}

func (tp *treeParser) parseAtom() (*node, error) {
	e, ok := tp.cur()
	if !ok {
		return nil, engineerr.Parsef("unexpected end of querying filter stream")
	}
	if !e.IsFilter() && e.Connective == plan.ConnLParen {
		tp.pos++
		inner, err := tp.parseOr()
		if err != nil {
			return nil, err
		}
		e, ok = tp.cur()
		if !ok || e.IsFilter() || e.Connective != plan.ConnRParen {
			return nil, engineerr.Parsef("unbalanced parentheses in querying filter stream")
		}
		tp.pos++
		return inner, nil
	}
	if !e.IsFilter() {
		return nil, engineerr.Parsef("unexpected connective %q in querying filter stream", e.Connective)
	}
	tp.pos++
	return &node{op: "leaf", filter: e.Filter}, nil
}
