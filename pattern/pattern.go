// Package pattern reads and writes the "*.in" pattern file format of this
// module: one pattern per non-empty line, comma-separated net assignments,
// with an optional expected-output section after a "|".
package pattern

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/faulterr"
)

// Row is the parsed form of one pattern line: an assignment for every
// PrimaryInput (invariant P1: exactly one assignment per PrimaryInput, no
// duplicates) plus an optional set of expected primary-output values. A nil
// ProvidedOutputs means the engine must compute the golden reference itself;
// a non-nil one must cover every PrimaryOutput (partial is an error).
type Row struct {
	Inputs          map[circuit.NetId]int
	ProvidedOutputs map[circuit.NetId]int
}

// Load reads and parses the pattern file at path against c.
func Load(path string, c *circuit.Circuit) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(faulterr.ErrIO, "open %s: %v", path, err)
	}
	defer f.Close()
	return Parse(f, c)
}

// Parse reads pattern rows from r, one per non-empty line, resolving net
// names against c.
func Parse(r io.Reader, c *circuit.Circuit) ([]Row, error) {
	nameToID := make(map[string]circuit.NetId, c.NetCount())
	for i, name := range c.NetNames() {
		nameToID[name] = circuit.NetId(i)
	}
	piSet := make(map[circuit.NetId]bool, len(c.PrimaryInputs()))
	for _, pi := range c.PrimaryInputs() {
		piSet[pi] = true
	}
	poSet := make(map[circuit.NetId]bool, len(c.PrimaryOutputs()))
	for _, po := range c.PrimaryOutputs() {
		poSet[po] = true
	}

	var rows []Row
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		row, err := parseLine(line, nameToID, piSet, poSet, len(c.PrimaryOutputs()))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(faulterr.ErrIO, err.Error())
	}
	return rows, nil
}

func parseLine(line string, nameToID map[string]circuit.NetId, piSet, poSet map[circuit.NetId]bool, poCount int) (Row, error) {
	inputPart := line
	outputPart := ""
	if i := strings.IndexByte(line, '|'); i >= 0 {
		inputPart = line[:i]
		outputPart = line[i+1:]
	}

	inputs := make(map[circuit.NetId]int)
	for _, assign := range splitNonEmpty(inputPart, ',') {
		net, val, err := parseAssignment(assign, nameToID)
		if err != nil {
			return Row{}, err
		}
		if !piSet[net] {
			return Row{}, errors.Wrapf(faulterr.ErrUnknownNet, "%q is not a primary input", assign)
		}
		if _, dup := inputs[net]; dup {
			return Row{}, errors.Wrapf(faulterr.ErrParse, "duplicate assignment to %q", assign)
		}
		inputs[net] = val
	}
	if len(inputs) != len(piSet) {
		return Row{}, errors.Wrapf(faulterr.ErrParse, "pattern assigns %d of %d primary inputs", len(inputs), len(piSet))
	}

	var provided map[circuit.NetId]int
	if strings.TrimSpace(outputPart) != "" {
		provided = make(map[circuit.NetId]int)
		for _, assign := range splitNonEmpty(outputPart, ',') {
			net, val, err := parseAssignment(assign, nameToID)
			if err != nil {
				return Row{}, err
			}
			if !poSet[net] {
				return Row{}, errors.Wrapf(faulterr.ErrUnknownNet, "%q is not a primary output", assign)
			}
			provided[net] = val
		}
		if len(provided) != poCount {
			return Row{}, errors.Wrapf(faulterr.ErrMissingExpectedOutput, "expected outputs cover %d of %d primary outputs", len(provided), poCount)
		}
	}

	return Row{Inputs: inputs, ProvidedOutputs: provided}, nil
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	for _, part := range strings.Split(s, string(sep)) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseAssignment(s string, nameToID map[string]circuit.NetId) (circuit.NetId, int, error) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return 0, 0, errors.Wrapf(faulterr.ErrParse, "malformed assignment %q", s)
	}
	name := strings.TrimSpace(s[:eq])
	valStr := strings.TrimSpace(s[eq+1:])
	net, ok := nameToID[name]
	if !ok {
		return 0, 0, errors.Wrapf(faulterr.ErrUnknownNet, "net %q", name)
	}
	switch valStr {
	case "0":
		return net, 0, nil
	case "1":
		return net, 1, nil
	default:
		return 0, 0, errors.Wrapf(faulterr.ErrNonBinaryValue, "net %q has value %q", name, valStr)
	}
}

// Save writes rows in the "*.in" format, one line per row, primary inputs in
// c.PrimaryInputs() (declaration) order.
func Save(w io.Writer, rows []Row, c *circuit.Circuit) error {
	bw := bufio.NewWriter(w)
	pis := c.PrimaryInputs()
	pos := c.PrimaryOutputs()
	for _, row := range rows {
		parts := make([]string, 0, len(pis))
		for _, pi := range pis {
			parts = append(parts, fmt.Sprintf("%s=%d", c.NetName(pi), row.Inputs[pi]))
		}
		line := strings.Join(parts, ", ")
		if row.ProvidedOutputs != nil {
			outParts := make([]string, 0, len(pos))
			for _, po := range pos {
				outParts = append(outParts, fmt.Sprintf("%s=%d", c.NetName(po), row.ProvidedOutputs[po]))
			}
			line += " | " + strings.Join(outParts, ", ")
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return errors.Wrap(faulterr.ErrIO, err.Error())
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(faulterr.ErrIO, err.Error())
	}
	return nil
}
