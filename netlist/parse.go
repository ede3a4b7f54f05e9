// Package netlist parses the gate-level Verilog subset of this module's
// netlist input format (module/input/output/wire declarations, gate
// instantiations, "//" comments, "endmodule") into a circuit.Circuit.
package netlist

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/faulterr"
)

// ParseFile reads and parses the netlist at path.
func ParseFile(path string) (*circuit.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(faulterr.ErrIO, "open %s: %v", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a netlist from r and returns its finalized, NetId-keyed form.
func Parse(r io.Reader) (*circuit.Circuit, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(faulterr.ErrIO, err.Error())
	}
	p := &parser{l: newLexer(string(src)), b: circuit.NewBuilder()}
	p.tok = p.l.next()
	if err := p.run(); err != nil {
		return nil, err
	}
	if p.moduleName == "" {
		return nil, errors.Wrap(faulterr.ErrParse, "netlist missing module declaration")
	}
	c, err := p.b.Finalize()
	if err != nil {
		return nil, errors.Wrap(faulterr.ErrParse, err.Error())
	}
	return c, nil
}

type parser struct {
	l          *lexer
	tok        token
	b          *circuit.Builder
	moduleName string
}

func (p *parser) advance() { p.tok = p.l.next() }

func (p *parser) errf(format string, args ...interface{}) error {
	return errors.Wrapf(faulterr.ErrParse, "line %d: %s", p.tok.line, fmt.Sprintf(format, args...))
}

func (p *parser) run() error {
	for p.tok.kind != tokEOF {
		if p.tok.kind != tokIdent {
			return p.errf("expected a statement, found %q", p.tok.text)
		}
		keyword := strings.ToLower(p.tok.text)
		switch keyword {
		case "module":
			if err := p.parseModule(); err != nil {
				return err
			}
		case "input":
			if err := p.parseNetDecl(p.b.AddPrimaryInput); err != nil {
				return err
			}
		case "output":
			if err := p.parseNetDecl(p.b.AddPrimaryOutput); err != nil {
				return err
			}
		case "wire":
			if err := p.parseNetDecl(p.b.AddWire); err != nil {
				return err
			}
		case "endmodule":
			p.advance()
			return nil
		default:
			if err := p.parseGate(keyword); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) parseModule() error {
	p.advance() // consume "module"
	if p.tok.kind != tokIdent {
		return p.errf("expected module name, found %q", p.tok.text)
	}
	p.moduleName = p.tok.text
	p.advance()
	if p.tok.kind != tokLParen {
		return p.errf("expected '(' after module name")
	}
	depth := 0
	for {
		switch p.tok.kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				p.advance()
				goto closed
			}
		case tokEOF:
			return p.errf("unterminated module port list")
		}
		p.advance()
	}
closed:
	if p.tok.kind != tokSemi {
		return p.errf("expected ';' after module declaration")
	}
	p.advance()
	return nil
}

func (p *parser) parseNetDecl(add func(string)) error {
	p.advance() // consume "input"/"output"/"wire"
	for {
		if p.tok.kind != tokIdent {
			return p.errf("expected net name, found %q", p.tok.text)
		}
		add(p.tok.text)
		p.advance()
		if p.tok.kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if p.tok.kind != tokSemi {
		return p.errf("expected ';' after net declaration")
	}
	p.advance()
	return nil
}

func (p *parser) parseGate(keyword string) error {
	typ, ok := circuit.GateTypeFromString(keyword)
	if !ok {
		return p.errf("unrecognized statement keyword %q", keyword)
	}
	p.advance() // consume gate type keyword
	if p.tok.kind != tokIdent {
		return p.errf("expected gate instance name, found %q", p.tok.text)
	}
	instName := p.tok.text
	p.advance()
	if p.tok.kind != tokLParen {
		return p.errf("expected '(' after gate instance name %q", instName)
	}
	p.advance()

	var nets []string
	for {
		if p.tok.kind != tokIdent {
			return p.errf("expected net name in gate %q connection list, found %q", instName, p.tok.text)
		}
		nets = append(nets, p.tok.text)
		p.advance()
		if p.tok.kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if p.tok.kind != tokRParen {
		return p.errf("expected ')' to close gate %q connection list", instName)
	}
	p.advance()
	if p.tok.kind != tokSemi {
		return p.errf("expected ';' after gate %q", instName)
	}
	p.advance()

	if len(nets) < 1 {
		return p.errf("gate %q must have an output net", instName)
	}
	output, inputs := nets[0], nets[1:]
	if err := p.b.AddGate(typ, instName, output, inputs); err != nil {
		return errors.Wrapf(err, "gate %q", instName)
	}
	return nil
}
