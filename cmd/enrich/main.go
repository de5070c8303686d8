package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/liserjrqlxue/goUtil/fmtUtil"
	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/liserjrqlxue/goUtil/textUtil"

	"GeneSetViz/pkg/geneset"
)

// flag
var (
	query = flag.String(
		"q",
		"",
		"query gene list file",
	)
	annotation = flag.String(
		"a",
		"",
		"annotation file: gene_id, term (.tsv/.csv, optionally .gz)",
	)
	background = flag.String(
		"b",
		"",
		"background gene list file, defaults to all annotated genes",
	)
	outputDir = flag.String(
		"o",
		".",
		"output dir",
	)
	correction = flag.String(
		"fdr",
		"fdr_bh",
		"multiple-testing correction: fdr_bh or none",
	)
	top = flag.Int(
		"top",
		30,
		"terms kept in the bar chart",
	)
	caseSensitive = flag.Bool(
		"cs",
		false,
		"case sensitive gene id matching",
	)
	xlsx = flag.Bool(
		"xlsx",
		false,
		"also write enrichment.xlsx",
	)
	html = flag.Bool(
		"html",
		false,
		"also write enrichment.html bar chart",
	)
)

func main() {
	flag.Parse()
	if *query == "" || *annotation == "" {
		flag.PrintDefaults()
		log.Fatal("-q/-a required!")
	}

	var querySet = geneset.Normalize(
		strings.Join(textUtil.File2Array(*query), "\n"),
		geneset.Newline,
		*caseSensitive,
	)
	if len(querySet) == 0 {
		log.Fatalf("query list [%s]: %v", *query, geneset.ErrEmptyInput)
	}

	index, err := geneset.LoadAnnotation(*annotation, *caseSensitive)
	if err != nil {
		if errors.Is(err, geneset.ErrMalformedAnnotation) {
			log.Fatalf("annotation [%s] must be a two-column table: gene_id, term", *annotation)
		}
		log.Fatal(err)
	}

	var universe = index.Universe()
	if *background != "" {
		universe = geneset.Normalize(
			strings.Join(textUtil.File2Array(*background), "\n"),
			geneset.Newline,
			*caseSensitive,
		)
	}

	records, err := geneset.Enrich(querySet, universe, index, geneset.ParseCorrection(*correction))
	if errors.Is(err, geneset.ErrEmptyOverlap) {
		log.Fatal("query and background share no genes; nothing to test")
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[%s]:[%d query]:[%d universe]:[%d enriched terms]", *annotation, len(querySet), len(universe), len(records))

	var out = osUtil.Create(filepath.Join(*outputDir, "enrichment.csv"))
	defer simpleUtil.DeferClose(out)
	simpleUtil.CheckErr(geneset.EnrichmentTable(records).WriteCSV(out))

	if *xlsx {
		simpleUtil.CheckErr(geneset.SaveXlsx(
			filepath.Join(*outputDir, "enrichment.xlsx"),
			[]geneset.Sheet{{Name: "Enrichment", Table: geneset.EnrichmentTable(records)}},
		))
	}
	if *html {
		var chart = osUtil.Create(filepath.Join(*outputDir, "enrichment.html"))
		defer simpleUtil.DeferClose(chart)
		simpleUtil.CheckErr(geneset.PlotEnrichmentBar(chart, records, "Term Enrichment", *top))
	}

	// top hits to the terminal
	var shown = len(records)
	if shown > *top {
		shown = *top
	}
	for _, r := range records[:shown] {
		fmtUtil.Fprintf(os.Stdout, "%s\t%d/%d\t%.3g\t%.3g\n", r.Term, r.Overlap, r.TermSize, r.PValue, r.AdjustedP)
	}
}
