/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
    `fmt`
)

// SyntaxError occurs when the textual IR is malformed.
type SyntaxError struct {
    Line   int
    Col    int
    Reason string
}

func (self SyntaxError) Error() string {
    return fmt.Sprintf("Syntax error at line %d, column %d: %s", self.Line, self.Col, self.Reason)
}

type _TokenKind uint8

const (
    _T_eof _TokenKind = iota
    _T_ident
    _T_local
    _T_global
    _T_int
    _T_punct
)

func (self _TokenKind) String() string {
    switch self {
        case _T_eof    : return "end of input"
        case _T_ident  : return "identifier"
        case _T_local  : return "local name"
        case _T_global : return "global name"
        case _T_int    : return "integer"
        case _T_punct  : return "punctuation"
        default        : return "unknown token"
    }
}

type _Token struct {
    kind _TokenKind
    text string
    line int
    col  int
}

func (self _Token) String() string {
    if self.kind == _T_eof {
        return self.kind.String()
    } else {
        return fmt.Sprintf("%q", self.text)
    }
}

type _Lexer struct {
    src  string
    pos  int
    line int
    col  int
}

func newLexer(src string) *_Lexer {
    return &_Lexer {
        src  : src,
        line : 1,
        col  : 1,
    }
}

func (self *_Lexer) errorf(line int, col int, format string, args ...interface{}) SyntaxError {
    return SyntaxError {
        Line   : line,
        Col    : col,
        Reason : fmt.Sprintf(format, args...),
    }
}

func (self *_Lexer) eof() bool {
    return self.pos >= len(self.src)
}

func (self *_Lexer) peek() byte {
    return self.src[self.pos]
}

func (self *_Lexer) advance() {
    if self.src[self.pos] == '\n' {
        self.line++
        self.col = 1
    } else {
        self.col++
    }
    self.pos++
}

func (self *_Lexer) skipSpace() {
    for !self.eof() {
        switch c := self.peek(); {
            case c == ' ' || c == '\t' || c == '\r' || c == '\n': {
                self.advance()
            }

            /* comments last until the end of line */
            case c == ';': {
                for !self.eof() && self.peek() != '\n' {
                    self.advance()
                }
            }

            default: {
                return
            }
        }
    }
}

func isIdentChar(c byte) bool {
    return c == '_' || c == '.' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
    return c >= '0' && c <= '9'
}

func (self *_Lexer) scanWhile(pred func(byte) bool) string {
    p := self.pos
    for !self.eof() && pred(self.peek()) { self.advance() }
    return self.src[p:self.pos]
}

// Next scans the next token.
func (self *_Lexer) Next() (_Token, error) {
    self.skipSpace()
    tk := _Token { line: self.line, col: self.col }

    /* check for EOF */
    if self.eof() {
        tk.kind = _T_eof
        return tk, nil
    }

    /* dispatch by the first character */
    switch c := self.peek(); {
        case c == '%' || c == '@': {
            self.advance()
            if tk.text = self.scanWhile(isIdentChar); tk.text == "" {
                return tk, self.errorf(tk.line, tk.col, "empty name after %q", c)
            } else if c == '%' {
                tk.kind = _T_local
            } else {
                tk.kind = _T_global
            }
        }

        case c == '-' || isDigit(c): {
            p := self.pos
            if self.advance(); c == '-' && (self.eof() || !isDigit(self.peek())) {
                return tk, self.errorf(tk.line, tk.col, "expected digits after '-'")
            }
            self.scanWhile(isDigit)
            tk.kind = _T_int
            tk.text = self.src[p:self.pos]
        }

        case isIdentChar(c): {
            tk.kind = _T_ident
            tk.text = self.scanWhile(isIdentChar)
        }

        case c == '(' || c == ')' || c == '{' || c == '}' || c == ',' || c == '=' || c == ':': {
            self.advance()
            tk.kind = _T_punct
            tk.text = string(c)
        }

        default: {
            return tk, self.errorf(tk.line, tk.col, "unexpected character %q", c)
        }
    }
    return tk, nil
}
