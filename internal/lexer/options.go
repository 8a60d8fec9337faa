package lexer

import (
	"easel/internal/token"
)

// Reporter: тонкий интерфейс, чтобы не тянуть diag сюда.
type Reporter interface {
	Report(pos token.Pos, msg string)
}

type Options struct {
	Reporter Reporter // может быть nil, тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) report(pos token.Pos, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(pos, msg)
	}
}
