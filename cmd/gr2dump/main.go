// Command gr2dump prints the element tree of a Granny2 file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"granny-viewer/internal/granny"
	"granny-viewer/internal/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gr2dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	query := fs.String("filter", "", "only show elements fuzzy-matching `query`")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: gr2dump [-filter query] file.gr2")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "gr2dump: %v\n", err)
		return 1
	}

	file, err := granny.LoadFromBytes(data)
	if err != nil {
		fmt.Fprintf(stderr, "gr2dump: %s: %v\n", path, err)
		return 1
	}

	nodes := render.Filter(render.Elements(file.RootElements), *query)
	title := fmt.Sprintf("%s (%s, v%d, %d-bit)", filepath.Base(path), humanize.Bytes(uint64(len(data))), file.Version, file.PointerSize*8)

	fmt.Fprintln(stdout, render.Text(title, nodes))
	return 0
}
