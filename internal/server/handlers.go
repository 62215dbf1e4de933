package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"markcheck/internal/autoclose"
	"markcheck/internal/diag"
	"markcheck/internal/diagfmt"
	"markcheck/internal/observ"
	"markcheck/internal/preview"
	"markcheck/internal/score"
	"markcheck/internal/source"
	"markcheck/internal/version"
)

// bufferName is the path reported in diagnostic locations.
const bufferName = "buffer"

type textRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"` // html | markdown
	Prefix string `json:"prefix,omitempty"` // только для autoclose
}

type ruleJSON struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
}

type analyzeResponse struct {
	Tokens      []diagfmt.TokenOutput    `json:"tokens,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics"`
	Metrics     *score.Metrics           `json:"metrics,omitempty"`
	Timings     *observ.Report           `json:"timings,omitempty"`
}

type autoCloseResponse struct {
	Proposal *autoclose.Proposal `json:"proposal"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
		} else {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		}
		return req, false
	}
	return req, true
}

// markup resolves the request text to the markup the engine checks.
func (s *Server) markup(w http.ResponseWriter, req textRequest) (string, bool) {
	src, err := preview.ParseSource(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", false
	}
	text, err := preview.Markup(req.Text, src)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return "", false
	}
	return text, true
}

// buffer wraps markup in a one-file FileSet so diagnostics can be rendered
// with positions.
func buffer(markup string) (*source.FileSet, *source.File) {
	fs := source.NewFileSetWithBase("")
	id := fs.AddVirtual(bufferName, []byte(markup))
	return fs, fs.Get(id)
}

func diagnosticsJSON(fs *source.FileSet, diags []diag.Diagnostic) []diagfmt.DiagnosticJSON {
	bag := diag.NewBag(0)
	for _, d := range diags {
		bag.Add(d)
	}
	out := diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         diagfmt.PathModeBasename,
		IncludeFixes:     true,
	})
	return out.Diagnostics
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": version.Current()})
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	rules := diag.Rules()
	out := make([]ruleJSON, 0, len(rules))
	for _, info := range rules {
		out = append(out, ruleJSON{ID: string(info.ID), Severity: info.Severity.Label(), Title: info.Title})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": out})
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	text, ok := s.markup(w, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": diagfmt.TokensOutput(s.eng.Tokenize(text))})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	text, ok := s.markup(w, req)
	if !ok {
		return
	}
	fs, f := buffer(text)
	writeJSON(w, http.StatusOK, analyzeResponse{Diagnostics: diagnosticsJSON(fs, s.eng.ValidateFile(f))})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	text, ok := s.markup(w, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Score(text))
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	text, ok := s.markup(w, req)
	if !ok {
		return
	}
	formatted := s.eng.Format(text)
	writeJSON(w, http.StatusOK, map[string]any{"text": formatted, "changed": formatted != text})
}

func (s *Server) handleAutoClose(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	var resp autoCloseResponse
	if p, ok := s.eng.ProposeAutoClose(req.Prefix); ok {
		resp.Proposal = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	text, ok := s.markup(w, req)
	if !ok {
		return
	}
	fs, f := buffer(text)
	res := s.eng.AnalyzeFile(f)
	writeJSON(w, http.StatusOK, analyzeResponse{
		Tokens:      diagfmt.TokensOutput(res.Tokens),
		Diagnostics: diagnosticsJSON(fs, res.Diagnostics),
		Metrics:     &res.Metrics,
		Timings:     &res.Timings,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	src, err := preview.ParseSource(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := preview.Render(s.eng, req.Text, src)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": out})
}
