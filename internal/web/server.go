// Package web serves the report as a single HTML page with its three
// controls, plus a JSON view of each section.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pable/go-chess-report/internal/chart"
	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
	"github.com/pable/go-chess-report/internal/selection"
)

// Server renders one immutable dataset. Every request narrows the prebuilt
// report to its own view; nothing is shared between requests.
type Server struct {
	ds      *model.Dataset
	report  model.Report
	tmpl    *template.Template
	metrics *metrics
	log     *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default is log.Default().
func WithLogger(lg *log.Logger) Option {
	return func(s *Server) { s.log = lg }
}

// New builds a server for ds and its report r.
func New(ds *model.Dataset, r model.Report, opts ...Option) (*Server, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	s := &Server{
		ds:      ds,
		report:  r,
		tmpl:    tmpl,
		metrics: newMetrics(),
		log:     log.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoveryMiddleware(s.log))
	r.Use(loggingMiddleware(s.log))

	r.Get("/", s.handleReport)
	r.Get("/api/sections/{id}", s.handleSection)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())
	return r
}

// view resolves the control values carried in the query string.
func (s *Server) view(q url.Values) report.View {
	return report.ParseView(s.ds, q["outcome"], q.Get("timing"), q.Get("opening"))
}

type sectionView struct {
	ID        string
	Heading   string
	Narrative string
	Finding   string
	Caption   string
	Chart     template.HTML
	ChartNote string
	Table     string
}

type control struct {
	Value   string
	Checked bool
}

type pageData struct {
	Games    int
	Sections []sectionView
	Outcome  []control
	Timing   []control
	Opening  []control
}

func controls(options []string, sel selection.Selection) []control {
	out := make([]control, len(options))
	for i, o := range options {
		checked := sel.IsAll() && o == selection.All
		if !sel.IsAll() && o != selection.All {
			if parsed, err := model.ParseOutcome(o); err == nil {
				checked = sel.Contains(parsed)
			}
		}
		out[i] = control{Value: o, Checked: checked}
	}
	return out
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	defer s.metrics.observe("report")()

	v := s.view(r.URL.Query())
	narrowed := report.Narrow(s.ds, s.report, v)
	options := selection.Options(selection.Available(s.ds.Games))

	data := pageData{
		Games:   len(s.ds.Games),
		Outcome: controls(options, v.Outcomes),
		Timing:  controls(options, v.Timing),
		Opening: controls(options, v.Opening),
	}
	for _, sec := range report.Sections() {
		data.Sections = append(data.Sections, s.renderSection(sec, narrowed, v))
		s.metrics.renders.WithLabelValues(string(sec.ID), "html").Inc()
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "report.html", data); err != nil {
		s.log.Error("render report page", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderSection(sec report.Section, r model.Report, v report.View) sectionView {
	out := sectionView{
		ID:        string(sec.ID),
		Heading:   sec.Heading(),
		Narrative: sec.Narrative,
		Finding:   report.Finding(sec.ID, r),
		Caption:   sec.Caption,
	}
	if chart.HasChart(sec.ID) {
		var svg bytes.Buffer
		switch err := chart.Render(&svg, sec.ID, r, v, chart.SVG); {
		case err == nil:
			out.Chart = template.HTML(svg.String())
		case errors.Is(err, chart.ErrNoData):
			out.ChartNote = report.NoData
		default:
			s.log.Warn("chart failed", "section", sec.ID, "err", err)
			out.ChartNote = report.NoData
		}
	}
	var table bytes.Buffer
	report.PrintSection(&table, sec.ID, r, v)
	out.Table = table.String()
	return out
}

// sectionPayload is the JSON form of one narrowed section.
type sectionPayload struct {
	ID        string   `json:"id"`
	Heading   string   `json:"heading"`
	Narrative string   `json:"narrative"`
	Finding   string   `json:"finding,omitempty"`
	Caption   string   `json:"caption,omitempty"`
	View      viewJSON `json:"view"`
	Data      any      `json:"data"`
}

type viewJSON struct {
	Outcome []string `json:"outcome"`
	Timing  []string `json:"timing"`
	Opening []string `json:"opening"`
}

type openingJSON struct {
	Opening string             `json:"opening"`
	Games   int                `json:"games"`
	Shares  map[string]float64 `json:"shares"`
}

func sectionData(id report.SectionID, r model.Report, v report.View) any {
	switch id {
	case report.SectionOverview:
		return r.Overview
	case report.SectionOutcomes:
		return r.OutcomeByWinner
	case report.SectionLength:
		return map[string]any{"scatter": r.Scatter, "distributions": r.Distributions}
	case report.SectionFirstMove:
		return r.FirstMoves
	case report.SectionRated:
		return r.Rated
	case report.SectionTimeControl:
		return r.TimeControl
	case report.SectionOpenings:
		cols := v.OpeningColumns()
		rows := make([]openingJSON, len(r.Openings))
		for i := range r.Openings {
			o := &r.Openings[i]
			rows[i] = openingJSON{Opening: o.Opening, Games: o.Total, Shares: make(map[string]float64, len(cols))}
			for _, c := range cols {
				rows[i].Shares[string(c)] = o.Proportion(c)
			}
		}
		return rows
	case report.SectionPlayers:
		return r.Players
	}
	return nil
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	defer s.metrics.observe("section")()

	sec, ok := report.Lookup(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, fmt.Sprintf("unknown section %q", chi.URLParam(r, "id")), http.StatusNotFound)
		return
	}
	v := s.view(r.URL.Query())
	narrowed := report.Narrow(s.ds, s.report, v)

	payload := sectionPayload{
		ID:        string(sec.ID),
		Heading:   sec.Heading(),
		Narrative: sec.Narrative,
		Finding:   report.Finding(sec.ID, narrowed),
		Caption:   sec.Caption,
		View: viewJSON{
			Outcome: v.Outcomes.Values(),
			Timing:  v.Timing.Values(),
			Opening: v.Opening.Values(),
		},
		Data: sectionData(sec.ID, narrowed, v),
	}
	s.metrics.renders.WithLabelValues(string(sec.ID), "json").Inc()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("encode section", "section", sec.ID, "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
