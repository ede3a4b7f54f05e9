package answer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/faulterr"
)

// Write emits t in the "*.ans" format: a header comment, then one line per
// (pattern, net) in pattern order, netNames order (which must be the
// finalized NetId order — lexicographic net-name order): "p NET_NAME S0 S1".
func Write(w io.Writer, t *Table, netNames []string) error {
	if len(netNames) != t.NetCount() {
		return errors.Errorf("answer: netNames has %d entries, table has %d net columns", len(netNames), t.NetCount())
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "# pattern_index net stuck_at_0_eq stuck_at_1_eq"); err != nil {
		return errors.Wrap(faulterr.ErrIO, err.Error())
	}
	for p := 0; p < t.PatternCount(); p++ {
		rows, err := t.Get(p)
		if err != nil {
			return err
		}
		for net, name := range netNames {
			if _, err := fmt.Fprintf(bw, "%d %s %d %d\n", p, name, bit(rows[net].Stuck0Eq), bit(rows[net].Stuck1Eq)); err != nil {
				return errors.Wrap(faulterr.ErrIO, err.Error())
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(faulterr.ErrIO, err.Error())
	}
	return nil
}

// WriteFile writes t to path, creating or truncating it.
func WriteFile(path string, t *Table, netNames []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(faulterr.ErrIO, "create %s: %v", path, err)
	}
	defer f.Close()
	return Write(f, t, netNames)
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
