package geneset

// AnalysisConfig bundles the per-run options the dashboard and CLIs feed into
// the engines. One immutable value per analysis run; there is no process-wide
// state.
type AnalysisConfig struct {
	Split         Delimiter
	CaseSensitive bool
	Correction    Correction
	TopN          int
	Title         string
}

// DefaultAnalysisConfig mirrors the dashboard's initial form state.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Split:         Auto,
		CaseSensitive: false,
		Correction:    FDRBH,
		TopN:          30,
		Title:         "Venn Diagram",
	}
}

// ParseCorrection maps the form/flag value to a Correction scheme.
func ParseCorrection(s string) Correction {
	switch s {
	case "fdr_bh", "fdr", "bh":
		return FDRBH
	default:
		return None
	}
}
