package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/portcall/sailsched/internal/extract"
	"github.com/portcall/sailsched/internal/pdftext"
)

// debugextract dumps how one schedule document decodes: the segmented
// lines and tables for a PDF, then every extractor attempt in resolution
// order. Handy when a carrier changes its layout and records stop coming.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: debugextract <file> [service] [year]")
		os.Exit(1)
	}
	path := os.Args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}

	var cfg extract.Config
	if len(os.Args) > 2 {
		cfg.Service = os.Args[2]
	}
	if len(os.Args) > 3 {
		cfg.Year, _ = strconv.Atoi(os.Args[3])
	}

	f := extract.File{Name: filepath.Base(path), Data: data}
	format := extract.DetectFormat(f.Name, f.Data)
	fmt.Println("format:", format)

	if format == extract.FormatPDF {
		doc, err := pdftext.ParseBytes(data)
		if err != nil {
			fmt.Println("parse err:", err)
		}
		if doc != nil {
			for p, page := range doc.Pages {
				fmt.Printf("page %d: %d lines, %d tables\n", p+1, len(page.Lines), len(page.Tables))
				for _, line := range page.Lines {
					fmt.Println("  |", line)
				}
				for t, table := range page.Tables {
					fmt.Printf("  table %d:\n", t+1)
					for _, row := range table {
						fmt.Printf("    %q\n", row)
					}
				}
			}
		}
	}

	recs, attempts := extract.Run(f, extract.Resolve(f, cfg))
	for _, a := range attempts {
		fmt.Printf("attempt %s: %d records, err: %v\n", a.Carrier, a.Records, a.Err)
	}
	for i, r := range recs {
		fmt.Printf("%d. %s\n", i+1, strings.Join(r.Fields(), " | "))
	}
}
