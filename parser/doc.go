/*
Package parser implements a recursive-descent parser for lineconf documents.

# Overview

A lineconf document is a sequence of lines. Each line is either a comment or
an assignment of a quoted string to an optional name:

	# database settings
	host="db.internal"
	="anonymous value"

Parsing is a single left-to-right pass over an in-memory input. The result is
a Document holding one Statement per recognized line, in source order.

# Grammar

	document   := statement*
	statement  := comment | assignment
	comment    := "#" text-without-newline "\n"
	assignment := name? "=" expression "\n"
	name       := (alnum | "_")+
	expression := '"' text-without-quote '"'

Alternatives are tried in order and the first one that matches wins. This
applies to statements (comment before assignment) and to expressions, where
new literal forms are appended to the list of expression rules.

# Whitespace

Whitespace between the tokens of a statement is skipped by a single helper.
Around the name, the '=' and the expression any whitespace is absorbed,
newlines included. Before the comment body and before the terminating
newline only inline whitespace is absorbed, because the newline is itself a
token there. Blank lines and whitespace around statements are ignored.

# Errors

Parsing has a single failure mode: the input does not match the grammar.
Every error returned by Parse wraps ErrGrammarMismatch. There is no error
recovery, and a malformed line rejects the whole document.

# Usage

	doc, err := parser.Parse("# comment\nx=\"1\"\n")
	if err != nil {
	    // errors.Is(err, parser.ErrGrammarMismatch) == true
	}
	for _, stmt := range doc {
	    fmt.Println(stmt)
	}
*/
package parser
