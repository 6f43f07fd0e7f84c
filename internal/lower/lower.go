package lower

import (
	"fortasr/internal/ast"
	"fortasr/internal/asr"
	"fortasr/internal/source"
)

// Lower runs both phases of §4.2 on file and returns the resulting
// TranslationUnit. b owns every AST arena file's nodes live in, and its
// Strings interner resolves their source.StringID text.
func Lower(b *ast.Builder, file *ast.File) (*asr.TranslationUnit, error) {
	l := &lowerer{b: b, strings: b.Strings, unit: asr.NewTranslationUnit()}

	for _, itemID := range file.Items {
		if _, err := l.declareItem(itemID, l.unit.Global); err != nil {
			return nil, err
		}
	}
	for _, itemID := range file.Items {
		if err := l.lowerItemBody(itemID, l.unit.Global); err != nil {
			return nil, err
		}
	}
	for _, stmtID := range file.OrphanStmts {
		s, err := l.lowerStmt(stmtID, l.unit.Global)
		if err != nil {
			return nil, err
		}
		l.unit.Orphans = append(l.unit.Orphans, s)
	}
	return l.unit, nil
}

type lowerer struct {
	b       *ast.Builder
	strings *source.Interner
	unit    *asr.TranslationUnit
}

func (l *lowerer) name(id source.StringID) string {
	if id == source.NoStringID {
		return ""
	}
	return l.strings.MustLookup(id)
}
