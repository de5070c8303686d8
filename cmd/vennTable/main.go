package main

import (
	"flag"
	"log"
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
	input = flag.String(
		"i",
		"",
		"comma-separated list files, one per set (2-6)",
	)
	names = flag.String(
		"n",
		"",
		"comma-separated set names, defaults to file basenames",
	)
	outputDir = flag.String(
		"o",
		".",
		"output dir",
	)
	split = flag.String(
		"s",
		"auto",
		"split policy: auto/newline/comma/tab/semicolon/pipe",
	)
	caseSensitive = flag.Bool(
		"cs",
		false,
		"case sensitive matching",
	)
	plot = flag.Bool(
		"plot",
		false,
		"draw venn.png (2-3 sets only)",
	)
	xlsx = flag.Bool(
		"xlsx",
		false,
		"also write result.xlsx",
	)
	html = flag.Bool(
		"html",
		false,
		"also write intersections.html bar chart",
	)
)

func main() {
	flag.Parse()
	if *input == "" {
		flag.PrintDefaults()
		log.Fatal("-i required!")
	}

	var (
		files    = strings.Split(*input, ",")
		nameList []string
		policy   = geneset.ParseDelimiter(*split)
		sets     geneset.SetCollection
	)
	if *names != "" {
		nameList = strings.Split(*names, ",")
		if len(nameList) != len(files) {
			log.Fatalf("-n gives %d names for %d files", len(nameList), len(files))
		}
	}
	for i, f := range files {
		var name = strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if nameList != nil {
			name = nameList[i]
		}
		var raw = strings.Join(textUtil.File2Array(f), "\n")
		var set = geneset.NewNamedSet(name, raw, policy, *caseSensitive)
		if len(set.Members) == 0 {
			log.Fatalf("set [%s]: %v", name, geneset.ErrEmptyInput)
		}
		sets = append(sets, set)
	}

	rows, err := geneset.ComputeIntersections(sets)
	if err != nil {
		log.Fatal(err)
	}
	var exclusive = geneset.Exclusive(sets)

	var interCSV = osUtil.Create(filepath.Join(*outputDir, "intersections.csv"))
	defer simpleUtil.DeferClose(interCSV)
	simpleUtil.CheckErr(geneset.IntersectionTable(rows).WriteCSV(interCSV))

	var exclCSV = osUtil.Create(filepath.Join(*outputDir, "exclusive.csv"))
	defer simpleUtil.DeferClose(exclCSV)
	simpleUtil.CheckErr(geneset.ExclusiveTable(sets, exclusive).WriteCSV(exclCSV))

	if *xlsx {
		simpleUtil.CheckErr(geneset.SaveXlsx(
			filepath.Join(*outputDir, "result.xlsx"),
			[]geneset.Sheet{
				{Name: "Intersections", Table: geneset.IntersectionTable(rows)},
				{Name: "Exclusive", Table: geneset.ExclusiveTable(sets, exclusive)},
			},
		))
	}
	if *html {
		var out = osUtil.Create(filepath.Join(*outputDir, "intersections.html"))
		defer simpleUtil.DeferClose(out)
		simpleUtil.CheckErr(geneset.PlotIntersectionBar(out, rows, "Subset Intersections"))
	}
	if *plot {
		simpleUtil.CheckErr(geneset.DrawVenn(filepath.Join(*outputDir, "venn.png"), sets, "Venn Diagram"))
	}

	for _, s := range sets {
		log.Printf("[%s]:[%d members]", s.Name, len(s.Members))
	}

	// tab-delimited copy for quick terminal inspection
	var txt = osUtil.Create(filepath.Join(*outputDir, "intersections.txt"))
	defer simpleUtil.DeferClose(txt)
	fmtUtil.Fprintf(txt, "%s\t%s\t%s\n", "Sets", "Size", "Elements")
	for _, row := range rows {
		fmtUtil.Fprintf(txt, "%s\t%d\t%s\n", row.Label(), row.Size, strings.Join(row.Elements, ", "))
	}
}
