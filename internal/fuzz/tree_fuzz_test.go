package fuzztests

import (
	"context"
	"testing"
	"time"

	"stencil/internal/diag"
	"stencil/internal/driver"
	"stencil/internal/source"
	"stencil/internal/testkit"
	"stencil/internal/tree"
)

// expandTimeout is the maximum time allowed for a single input.
// Longer runs point at an infinite loop in recovery or instantiation.
const expandTimeout = 5 * time.Second

func FuzzTreeSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.rs.stn", clampInput(input)))

		bag := diag.NewBag(128)
		unit := tree.Parse(file, diag.BagReporter{Bag: bag}, tree.Options{})
		if err := testkit.CheckTreeSpans(unit.Nodes, file); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}
	})
}

// FuzzExpandNoHang runs the whole pipeline. Successful expansions must
// survive the layout round trip.
func FuzzExpandNoHang(f *testing.F) {
	addCorpusSeeds(f)
	// взаимная рекурсия шаблонов
	f.Add([]byte("#[define(A)] mod __ { B! { mod b; } }\n#[define(B)] mod __ { A! { mod a; } }\nA! { mod x; }\n"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), expandTimeout)
		defer cancel()

		type outcome struct {
			res *driver.Result
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			fs := source.NewFileSet()
			id := fs.AddVirtual("fuzz.rs.stn", input)
			res, err := driver.Expand(ctx, fs, id, driver.Options{VerifyLayout: true})
			done <- outcome{res, err}
		}()

		select {
		case out := <-done:
			if out.err != nil {
				t.Fatalf("expand: %v\ninput: %q", out.err, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("expansion hang detected after %v\ninput (%d bytes): %q",
				expandTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(data []byte, limit int) []byte {
	if len(data) <= limit {
		return data
	}
	return data[:limit]
}
