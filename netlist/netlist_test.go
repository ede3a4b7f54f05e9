package netlist

import (
	"strings"
	"testing"

	"github.com/faultsim/faultsim/circuit"
)

func TestParseSimpleAnd(t *testing.T) {
	src := `
module and2 (a, b, y);
input a, b;
output y;
and g1(y, a, b);
endmodule
`
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if c.NetCount() != 3 {
		t.Fatalf("NetCount() = %d, want 3", c.NetCount())
	}
	if len(c.Gates()) != 1 || c.Gates()[0].Type != circuit.AND {
		t.Fatalf("gates = %+v, want one AND gate", c.Gates())
	}
}

func TestParseXorViaNand(t *testing.T) {
	src := `
module xorn (a, b, y);
	input a, b;
	wire n1, n2, n3;
	output y;
	nand g1(n1, a, b);
	nand g2(n2, a, n1);
	nand g3(n3, b, n1);
	nand g4(y, n2, n3);
endmodule
`
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Gates()) != 4 {
		t.Fatalf("len(Gates()) = %d, want 4", len(c.Gates()))
	}
}

func TestParseIgnoresCommentsAndGateCaseInsensitivity(t *testing.T) {
	src := `
// this is a full comment
module m (a, y); // trailing comment
input a; // single input
output y;
NOT g1(y, a); // uppercase keyword
endmodule
`
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Gates()) != 1 || c.Gates()[0].Type != circuit.NOT {
		t.Fatalf("gates = %+v, want one NOT gate", c.Gates())
	}
}

func TestParseRejectsBadArity(t *testing.T) {
	src := `
module m (a, b, y);
input a, b;
output y;
not g1(y, a, b);
endmodule
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("expected arity error for NOT with two inputs")
	}
}

func TestParseRejectsUnknownGateKeyword(t *testing.T) {
	src := `
module m (a, y);
input a;
output y;
mystery g1(y, a);
endmodule
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("expected error for unknown gate keyword")
	}
}

func TestParseRejectsMissingModuleDeclaration(t *testing.T) {
	src := `
input a;
output y;
buf g1(y, a);
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("expected error for missing module declaration")
	}
}
