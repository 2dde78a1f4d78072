package compiler

import "github.com/aretw0/brainloop/pkg/domain"

// Token is a recognised command together with its byte offset in the source.
type Token struct {
	Cmd    domain.Command
	Offset int
}

// Tokenize maps each command character of src to a Token.
// Every other character is commentary and is dropped.
func Tokenize(src string) []Token {
	tokens := make([]Token, 0, len(src))
	for i, c := range src {
		if cmd, ok := domain.CommandFor(c); ok {
			tokens = append(tokens, Token{Cmd: cmd, Offset: i})
		}
	}
	return tokens
}

// Lex returns the ordered command sequence of src. It cannot fail.
func Lex(src string) []domain.Command {
	tokens := Tokenize(src)
	cmds := make([]domain.Command, len(tokens))
	for i, t := range tokens {
		cmds[i] = t.Cmd
	}
	return cmds
}
