// Command wirehair-golden dumps (N,id) -> row-shape vectors to CSV, sorted
// by N then id, for interop testing of the deterministic row generator
// against another implementation (spec.md §8 "Determinism / interop").
//
// Grounded on the teacher's cmd/tools/sort_index: plain encoding/csv and
// flag, os.Exit on failure, no logging framework — this is a one-shot
// batch tool, not a long-running service.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/wirehair-go/wirehair/wirehair"
)

func main() {
	var blockCount, added, count int
	var outPath string
	flag.IntVar(&blockCount, "n", 1024, "block count N")
	flag.IntVar(&added, "h", 0, "added/mix column count H (0 = look up from the parameter table)")
	flag.IntVar(&count, "count", 256, "number of consecutive ids starting at 0 to dump")
	flag.StringVar(&outPath, "out", "golden.csv", "output CSV path")
	flag.Parse()

	h := added
	if h == 0 {
		light, dense, ok := wirehair.LookupMatrixParams(blockCount)
		if !ok {
			fmt.Fprintf(os.Stderr, "N=%d is not a tabulated block count\n", blockCount)
			os.Exit(1)
		}
		h = light + dense
	}
	pSeed, _ := wirehair.DerivedSeeds(blockCount)

	rows := make([]wirehair.GoldenRow, 0, count)
	for id := 0; id < count; id++ {
		rows = append(rows, wirehair.GenerateGoldenRow(uint32(id), pSeed, blockCount, h))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", outPath, err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	_ = w.Write([]string{"n", "h", "id", "peel_weight", "peel_a", "peel_x0", "mix_a", "mix_x0"})
	for _, r := range rows {
		_ = w.Write([]string{
			itoa(blockCount), itoa(h), itoa(int(r.ID)),
			itoa(int(r.PeelWeight)), itoa(int(r.PeelA)), itoa(int(r.PeelX0)),
			itoa(int(r.MixA)), itoa(int(r.MixX0)),
		})
	}
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }
