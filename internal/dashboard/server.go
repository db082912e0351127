package dashboard

import (
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/MindsetIO/log-stream/internal/parser"
	"github.com/MindsetIO/log-stream/internal/rate"
)

//go:embed templates/*
var templatesFS embed.FS

// Server renders the live record table and serves the JSON API.
type Server struct {
	store     *Store
	rates     *rate.Set
	templates *template.Template
	port      string
}

// NewServer creates a new dashboard server
func NewServer(store *Store, rates *rate.Set, port string) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		store:     store,
		rates:     rates,
		templates: tmpl,
		port:      port,
	}, nil
}

// Start starts the HTTP server. Blocks.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/api/v1/records", s.handleAPIRecords)
	mux.HandleFunc("/api/v1/rates", s.handleAPIRates)

	log.Printf("[DASHBOARD] Starting on %s", s.port)
	return http.ListenAndServe(s.port, mux)
}

// rateRow flattens an estimate for templates and JSON.
type rateRow struct {
	Type    string   `json:"type"`
	RateMin *float64 `json:"rate_min"`
	Count   int      `json:"count"`
	Display string   `json:"-"`
}

func (s *Server) rateRows() []rateRow {
	snap := s.rates.Snapshot(time.Now())
	rows := make([]rateRow, 0, len(snap))
	for _, rt := range []parser.RecordType{parser.TypeUFWBlock, parser.TypeSSHInvalid, rate.AggregateType} {
		if est, ok := snap[rt]; ok {
			rows = append(rows, rateRow{
				Type:    string(rt),
				RateMin: est.RatePerMin,
				Count:   est.Count,
				Display: est.String(),
			})
		}
	}
	return rows
}

// handleDashboard renders the main table page
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Rows":  s.store.Rows(),
		"Rates": s.rateRows(),
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		log.Printf("[DASHBOARD] render: %v", err)
	}
}

// handleAPIRecords returns recent records as JSON
func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	records := make([]*parser.ParsedRecord, 0)
	for _, row := range s.store.Rows() {
		records = append(records, row.Record)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// handleAPIRates returns the current estimates as JSON
func (s *Server) handleAPIRates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.rateRows())
}
