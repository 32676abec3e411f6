package inspect

import (
	"fmt"
	"io"
	"sort"

	"github.com/dyne/rotbuf/internal/log"
	"github.com/dyne/rotbuf/internal/storage"
)

type Report struct {
	Path     string
	Blocks   int
	Records  int
	ByCipher map[string]int
	ByStatus map[string]int
}

// Build reads every block of a saved buffer file, so files written by
// repeated appends are reported as well.
func Build(path string) (*Report, error) {
	blocks, err := storage.ReadBlocks(path)
	if err != nil {
		return nil, err
	}
	r := &Report{
		Path:     storage.Filename(path),
		Blocks:   len(blocks),
		ByCipher: map[string]int{},
		ByStatus: map[string]int{},
	}
	for _, block := range blocks {
		for _, p := range block {
			r.Records++
			r.ByCipher[p.RotType]++
			r.ByStatus[p.Status]++
		}
	}
	return r, nil
}

func Run(path string, w io.Writer, logger *log.Logger) error {
	r, err := Build(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "File: %s\n", r.Path)
	fmt.Fprintf(w, "Blocks: %d\n", r.Blocks)
	fmt.Fprintf(w, "Records: %d\n", r.Records)
	if r.Blocks > 1 {
		fmt.Fprintln(w, "  (written by appends; load reads single-block files only)")
	}
	printCounts(w, "Ciphers:", r.ByCipher)
	printCounts(w, "Statuses:", r.ByStatus)
	if logger != nil {
		logger.Debugf("inspect complete: %s", r.Path)
	}
	return nil
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, title)
	for _, k := range keys {
		fmt.Fprintf(w, "- %s: %d\n", k, counts[k])
	}
}
