package main

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"GeneSetViz/pkg/config"
	"GeneSetViz/pkg/geneset"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"join": strings.Join,
		"seq": func(from, to int) []int {
			var out []int
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
	}).ParseFS(templateFiles, "templates/*.html"))

// App wires the engines to the HTTP surface.
type App struct {
	Config  *config.Config
	Store   *RunStore
	Metrics *Metrics
}

// Routes builds the dashboard mux.
func (app *App) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", app.vennHandler)
	mux.HandleFunc("/enrich", app.enrichHandler)
	mux.HandleFunc("GET /download/{id}/{artifact}", app.downloadHandler)
	mux.HandleFunc("GET /chart/{id}/{name}", app.chartHandler)
	mux.HandleFunc("GET /venn/{id}/{image}", app.vennImageHandler)
	if app.Config.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	return mux
}

type setSize struct {
	Name string
	Size int
}

type exclusiveRow struct {
	Name     string
	Elements string
}

type vennPage struct {
	Warning       string
	RunID         string
	SetSizes      []setSize
	Intersections []geneset.IntersectionRow
	Exclusive     []exclusiveRow
	CanDiagram    bool
}

func (app *App) vennHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		app.render(w, "venn.html", vennPage{})
		return
	}
	if err := r.ParseMultipartForm(app.Config.Server.MaxUploadBytes); err != nil {
		app.rejectVenn(w, "could not parse the submitted form")
		return
	}

	var (
		policy        = geneset.ParseDelimiter(r.FormValue("split"))
		caseSensitive = r.FormValue("case_sensitive") == "on"
		sets          geneset.SetCollection
	)
	for i := 1; i <= geneset.MaxSets; i++ {
		name := strings.TrimSpace(r.FormValue(fmt.Sprintf("name%d", i)))
		raw := r.FormValue(fmt.Sprintf("list%d", i))

		if file, header, err := r.FormFile(fmt.Sprintf("file%d", i)); err == nil {
			raw = uploadToText(file, header, policy)
			if name == "" {
				name = header.Filename
			}
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if name == "" {
			name = fmt.Sprintf("Set %d", i)
		}
		sets = append(sets, geneset.NewNamedSet(name, raw, policy, caseSensitive))
	}

	if len(sets) < geneset.MinSets || len(sets) > geneset.MaxSets {
		app.Metrics.AnalysisRunsTotal.WithLabelValues("venn", "rejected").Inc()
		app.rejectVenn(w, fmt.Sprintf("please provide between %d and %d non-empty sets", geneset.MinSets, geneset.MaxSets))
		return
	}
	for _, s := range sets {
		if len(s.Members) == 0 {
			app.Metrics.AnalysisRunsTotal.WithLabelValues("venn", "rejected").Inc()
			app.rejectVenn(w, fmt.Sprintf("set %q is empty after normalization", s.Name))
			return
		}
	}

	start := time.Now()
	rows, err := geneset.ComputeIntersections(sets)
	if err != nil {
		app.Metrics.AnalysisRunsTotal.WithLabelValues("venn", "rejected").Inc()
		app.rejectVenn(w, err.Error())
		return
	}
	exclusive := geneset.Exclusive(sets)
	app.Metrics.AnalysisDuration.WithLabelValues("venn").Observe(time.Since(start).Seconds())
	app.Metrics.AnalysisRunsTotal.WithLabelValues("venn", "ok").Inc()

	run := &Run{
		Config: geneset.AnalysisConfig{
			Split:         policy,
			CaseSensitive: caseSensitive,
			Title:         "Venn Diagram",
		},
		Sets:          sets,
		Intersections: rows,
		Exclusive:     exclusive,
	}
	id := app.Store.Put(run)
	slog.Info("venn run", "id", id, "sets", len(sets), "rows", len(rows))

	page := vennPage{
		RunID:         id,
		Intersections: rows,
		CanDiagram:    len(sets) <= 3,
	}
	for _, s := range sets {
		page.SetSizes = append(page.SetSizes, setSize{Name: s.Name, Size: len(s.Members)})
		page.Exclusive = append(page.Exclusive, exclusiveRow{
			Name:     s.Name,
			Elements: strings.Join(exclusive[s.Name], ", "),
		})
	}
	app.render(w, "venn.html", page)
}

type enrichPage struct {
	Warning string
	RunID   string
	Species []string
	Records []geneset.EnrichmentRecord
}

func (app *App) enrichHandler(w http.ResponseWriter, r *http.Request) {
	page := enrichPage{Species: app.speciesNames()}
	if r.Method == http.MethodGet {
		app.render(w, "enrich.html", page)
		return
	}
	if err := r.ParseMultipartForm(app.Config.Server.MaxUploadBytes); err != nil {
		page.Warning = "could not parse the submitted form"
		app.renderEnrich(w, page, "rejected")
		return
	}

	var (
		policy        = geneset.ParseDelimiter(r.FormValue("split"))
		caseSensitive = r.FormValue("case_sensitive") == "on"
		correction    = geneset.ParseCorrection(r.FormValue("correction"))
	)
	query := geneset.Normalize(r.FormValue("query"), policy, caseSensitive)
	if len(query) == 0 {
		page.Warning = "the query gene list is empty after normalization"
		app.renderEnrich(w, page, "rejected")
		return
	}

	index, err := app.loadAnnotationFromRequest(r, caseSensitive)
	if err != nil {
		page.Warning = annotationWarning(err)
		app.renderEnrich(w, page, "rejected")
		return
	}

	universe := index.Universe()
	if background := geneset.Normalize(r.FormValue("background"), policy, caseSensitive); len(background) > 0 {
		universe = background
	}

	start := time.Now()
	records, err := geneset.Enrich(query, universe, index, correction)
	if errors.Is(err, geneset.ErrEmptyOverlap) {
		page.Warning = "query and background share no genes; nothing to test"
		app.renderEnrich(w, page, "rejected")
		return
	}
	if err != nil {
		page.Warning = err.Error()
		app.renderEnrich(w, page, "error")
		return
	}
	app.Metrics.AnalysisDuration.WithLabelValues("enrichment").Observe(time.Since(start).Seconds())
	app.Metrics.AnalysisRunsTotal.WithLabelValues("enrichment", "ok").Inc()

	topN := app.Config.Analysis.TopN
	if v, err := strconv.Atoi(r.FormValue("top")); err == nil && v > 0 {
		topN = v
	}
	run := &Run{
		Config: geneset.AnalysisConfig{
			Split:         policy,
			CaseSensitive: caseSensitive,
			Correction:    correction,
			TopN:          topN,
			Title:         "Term Enrichment",
		},
		Enrichment: records,
	}
	page.RunID = app.Store.Put(run)
	slog.Info("enrichment run", "id", page.RunID, "records", len(records), "query", len(query))

	page.Records = records
	if len(page.Records) > topN {
		page.Records = page.Records[:topN]
	}
	app.render(w, "enrich.html", page)
}

func (app *App) downloadHandler(w http.ResponseWriter, r *http.Request) {
	run, ok := app.Store.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	artifact := r.PathValue("artifact")
	app.Metrics.DownloadsTotal.WithLabelValues(artifact).Inc()

	var table geneset.Table
	switch artifact {
	case "intersections.csv":
		table = geneset.IntersectionTable(run.Intersections)
	case "exclusive.csv":
		table = geneset.ExclusiveTable(run.Sets, run.Exclusive)
	case "enrichment.csv":
		table = geneset.EnrichmentTable(run.Enrichment)
	case "result.xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="result.xlsx"`)
		if err := geneset.WriteXlsx(w, runSheets(run)); err != nil {
			slog.Error("xlsx download", "err", err)
		}
		return
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact))
	if err := table.WriteCSV(w); err != nil {
		slog.Error("csv download", "artifact", artifact, "err", err)
	}
}

func (app *App) chartHandler(w http.ResponseWriter, r *http.Request) {
	run, ok := app.Store.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var err error
	switch r.PathValue("name") {
	case "intersections.html":
		err = geneset.PlotIntersectionBar(w, run.Intersections, run.Config.Title)
	case "enrichment.html":
		err = geneset.PlotEnrichmentBar(w, run.Enrichment, run.Config.Title, run.Config.TopN)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("chart render", "err", err)
	}
}

func (app *App) vennImageHandler(w http.ResponseWriter, r *http.Request) {
	run, ok := app.Store.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	var format string
	switch r.PathValue("image") {
	case "venn.png":
		format = "png"
		w.Header().Set("Content-Type", "image/png")
	case "venn.svg":
		format = "svg"
		w.Header().Set("Content-Type", "image/svg+xml")
	default:
		http.NotFound(w, r)
		return
	}
	if err := geneset.RenderVenn(w, run.Sets, run.Config.Title, format); err != nil {
		slog.Error("venn render", "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	}
}

func (app *App) render(w http.ResponseWriter, name string, data any) {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render template", "name", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (app *App) rejectVenn(w http.ResponseWriter, warning string) {
	app.render(w, "venn.html", vennPage{Warning: warning})
}

func (app *App) renderEnrich(w http.ResponseWriter, page enrichPage, status string) {
	app.Metrics.AnalysisRunsTotal.WithLabelValues("enrichment", status).Inc()
	app.render(w, "enrich.html", page)
}

func (app *App) speciesNames() []string {
	var names []string
	for name := range app.Config.Species {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadAnnotationFromRequest prefers an uploaded annotation table and falls
// back to the configured species files.
func (app *App) loadAnnotationFromRequest(r *http.Request, caseSensitive bool) (geneset.TermIndex, error) {
	if file, header, err := r.FormFile("annotation"); err == nil {
		defer file.Close()
		return geneset.ReadAnnotation(file, geneset.SepForFile(header.Filename), caseSensitive)
	}

	species, ok := app.Config.Species[r.FormValue("species")]
	if !ok {
		return nil, geneset.ErrMalformedAnnotation
	}
	path := species.GO
	if r.FormValue("source") == "kegg" {
		path = species.KEGG
	}
	return geneset.LoadAnnotation(path, caseSensitive)
}

func annotationWarning(err error) string {
	if errors.Is(err, geneset.ErrMalformedAnnotation) {
		return "annotation must be a two-column table: gene_id, term"
	}
	return fmt.Sprintf("could not load annotation: %v", err)
}

// uploadToText turns an uploaded file into raw text for the normalizer.
// Delimited tables are flattened cell by cell; anything unparseable falls
// back to plain text.
func uploadToText(file multipart.File, header *multipart.FileHeader, policy geneset.Delimiter) string {
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return ""
	}
	name := strings.ToLower(header.Filename)
	if strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") {
		cr := csv.NewReader(bytes.NewReader(data))
		cr.Comma = rune(geneset.SepForFile(name)[0])
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		if rows, err := cr.ReadAll(); err == nil {
			return geneset.FlattenTable(rows)
		}
	}
	return string(data)
}

func runSheets(run *Run) []geneset.Sheet {
	if len(run.Enrichment) > 0 {
		return []geneset.Sheet{
			{Name: "Enrichment", Table: geneset.EnrichmentTable(run.Enrichment)},
		}
	}
	return []geneset.Sheet{
		{Name: "Intersections", Table: geneset.IntersectionTable(run.Intersections)},
		{Name: "Exclusive", Table: geneset.ExclusiveTable(run.Sets, run.Exclusive)},
	}
}
