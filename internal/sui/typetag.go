package sui

import (
	"fmt"
	"strings"
)

// TypeTag is a parsed Move type identifier of the form
// package::module::name, optionally carrying one generic parameter:
// package::module::name<param>. Parsing follows this small grammar
// rather than pattern extraction so unusual but valid identifiers
// cannot silently mis-parse.
type TypeTag struct {
	Address string
	Module  string
	Name    string
	Param   *TypeTag // nil when the type takes no parameter
}

// String renders the canonical form of the tag.
func (t TypeTag) String() string {
	base := t.Address + "::" + t.Module + "::" + t.Name
	if t.Param != nil {
		return base + "<" + t.Param.String() + ">"
	}
	return base
}

// TypeParam returns the rendered generic parameter, or an error when
// the type takes none.
func (t TypeTag) TypeParam() (string, error) {
	if t.Param == nil {
		return "", fmt.Errorf("type %s has no type parameter", t.String())
	}
	return t.Param.String(), nil
}

// ParseTypeTag parses a printed Move type signature. The whole input
// must be consumed; trailing characters are an error.
func ParseTypeTag(s string) (TypeTag, error) {
	p := &tagParser{input: s}
	tag, err := p.parse()
	if err != nil {
		return TypeTag{}, fmt.Errorf("parsing type tag %q: %w", s, err)
	}
	if p.pos != len(p.input) {
		return TypeTag{}, fmt.Errorf("parsing type tag %q: trailing characters at offset %d", s, p.pos)
	}
	return tag, nil
}

type tagParser struct {
	input string
	pos   int
}

// parse reads one type tag: address :: ident :: ident [ < tag > ].
func (p *tagParser) parse() (TypeTag, error) {
	addr, err := p.address()
	if err != nil {
		return TypeTag{}, err
	}
	if err := p.expect("::"); err != nil {
		return TypeTag{}, err
	}
	module, err := p.identifier()
	if err != nil {
		return TypeTag{}, err
	}
	if err := p.expect("::"); err != nil {
		return TypeTag{}, err
	}
	name, err := p.identifier()
	if err != nil {
		return TypeTag{}, err
	}

	tag := TypeTag{Address: addr, Module: module, Name: name}

	if p.peek() == '<' {
		p.pos++
		inner, err := p.parse()
		if err != nil {
			return TypeTag{}, err
		}
		if p.peek() != '>' {
			return TypeTag{}, fmt.Errorf("unclosed type parameter at offset %d", p.pos)
		}
		p.pos++
		tag.Param = &inner
	}
	return tag, nil
}

func (p *tagParser) address() (string, error) {
	if !strings.HasPrefix(p.input[p.pos:], "0x") {
		return "", fmt.Errorf("expected 0x address at offset %d", p.pos)
	}
	start := p.pos
	p.pos += 2
	for p.pos < len(p.input) && isHexDigit(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start+2 {
		return "", fmt.Errorf("empty address at offset %d", start)
	}
	return p.input[start:p.pos], nil
}

func (p *tagParser) identifier() (string, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos], p.pos == start) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected identifier at offset %d", start)
	}
	return p.input[start:p.pos], nil
}

func (p *tagParser) expect(tok string) error {
	if !strings.HasPrefix(p.input[p.pos:], tok) {
		return fmt.Errorf("expected %q at offset %d", tok, p.pos)
	}
	p.pos += len(tok)
	return nil
}

func (p *tagParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isIdentChar(c byte, first bool) bool {
	if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
		return true
	}
	return !first && c >= '0' && c <= '9'
}
