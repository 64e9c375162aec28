// Command bjpegtoppm decodes a baseline JPEG file to a binary PPM.
// It is a thin demonstration harness for the jpeg package, in the same
// spirit as the teacher's cmd/verify: plain stdlib flag parsing, no
// framework, no logging — errors are printed and the process exits
// non-zero.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pixeldecode/bjpeg"
	"github.com/pixeldecode/bjpeg/ppmsink"
)

func main() {
	in := flag.String("in", "", "path to the input JPEG file")
	out := flag.String("out", "", "path to write the output PPM file")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: bjpegtoppm -in input.jpg -out output.ppm")
		os.Exit(2)
	}

	if err := run(*in, *out); err != nil {
		fmt.Fprintf(os.Stderr, "bjpegtoppm: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	sink := ppmsink.New()
	dec := jpeg.NewDecoder(f, sink)
	if err := dec.Decode(); err != nil {
		return err
	}

	if comment := sink.Comment(); len(comment) > 0 {
		fmt.Fprintf(os.Stderr, "comment: %q\n", comment)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = sink.WriteTo(out)
	return err
}
