package expr

// Walk visits e and its children depth-first, in source order. Children are
// skipped when fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Block:
		for _, sub := range n.Exprs {
			Walk(sub, fn)
		}
	case *Assignment:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *FunctionCall:
		Walk(n.Target, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	case *While:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)
	case *If:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)
	}
}

// FindComments returns every comment in the program, named or not, in source order.
func FindComments(p *Program) []*Comment {
	if p == nil || p.Block == nil {
		return nil
	}
	var comments []*Comment
	Walk(p.Block, func(e Expr) bool {
		if c, ok := e.(*Comment); ok {
			comments = append(comments, c)
		}
		return true
	})
	return comments
}

// NamedComments returns the named comments of the program in source order.
func NamedComments(p *Program) []*Comment {
	var named []*Comment
	for _, c := range FindComments(p) {
		if c.Named() {
			named = append(named, c)
		}
	}
	return named
}
