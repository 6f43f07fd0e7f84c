package pass

import "fortasr/internal/asr"

// rewriteBlock is the shared "scratch result buffer" discipline from §4.3:
// it walks body depth-first, first recursing into every nested block a
// statement carries, then asking transform how the (already-recursed)
// statement should appear in the rewritten block — zero statements to
// drop it, one to keep/replace it, or more than one to splice in extras.
func rewriteBlock(u *asr.TranslationUnit, body []asr.StmtID, transform func(id asr.StmtID) []asr.StmtID) []asr.StmtID {
	out := make([]asr.StmtID, 0, len(body))
	for _, id := range body {
		recurseNestedBlocks(u, id)
		out = append(out, transform(id)...)
	}
	return out
}

// recurseNestedBlocks rewrites every block-bearing field of the statement
// at id in place, using currentTransform (set by walkAndRewrite for the
// duration of one walk).
// Every block-bearing construct is walked here, not just Program/WhileLoop
// — §9's design note calls out that an incomplete walk (one that only
// descends into some constructs) is a latent bug.
var currentTransform func(id asr.StmtID) []asr.StmtID

func recurseNestedBlocks(u *asr.TranslationUnit, id asr.StmtID) {
	s := u.Stmt(id)
	switch s.Kind {
	case asr.StIf:
		s.If.Then = rewriteBlock(u, s.If.Then, currentTransform)
		s.If.Else = rewriteBlock(u, s.If.Else, currentTransform)
		u.OverwriteStmt(id, *s)
	case asr.StWhileLoop:
		s.WhileLoop.Body = rewriteBlock(u, s.WhileLoop.Body, currentTransform)
		u.OverwriteStmt(id, *s)
	case asr.StDoLoop:
		s.DoLoop.Body = rewriteBlock(u, s.DoLoop.Body, currentTransform)
		u.OverwriteStmt(id, *s)
	case asr.StDoConcurrentLoop:
		s.DoConc.Body = rewriteBlock(u, s.DoConc.Body, currentTransform)
		u.OverwriteStmt(id, *s)
	case asr.StSelect:
		for i := range s.Select.Arms {
			s.Select.Arms[i].Body = rewriteBlock(u, s.Select.Arms[i].Body, currentTransform)
		}
		s.Select.Default = rewriteBlock(u, s.Select.Default, currentTransform)
		u.OverwriteStmt(id, *s)
	}
}

// walkAndRewrite runs transform (with its own nested-block recursion) over
// every procedure/program body in u, including nested (contains) procedures.
func walkAndRewrite(u *asr.TranslationUnit, transform func(id asr.StmtID) []asr.StmtID) {
	prev := currentTransform
	currentTransform = transform
	defer func() { currentTransform = prev }()

	u.AllSymbols(func(_ asr.SymbolID, sym *asr.Symbol) bool {
		switch sym.Kind {
		case asr.SymProgram:
			sym.Program.Body = rewriteBlock(u, sym.Program.Body, transform)
		case asr.SymSubroutine, asr.SymFunction:
			if !sym.Proc.IsExternal {
				sym.Proc.Body = rewriteBlock(u, sym.Proc.Body, transform)
			}
		}
		return true
	})
	u.Orphans = rewriteBlock(u, u.Orphans, transform)
}
