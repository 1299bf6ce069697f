package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"bilan/internal/core"
	"bilan/internal/loader"
	applog "bilan/internal/log"
	"bilan/internal/services"
	"bilan/internal/session"
)

const sessionCookieName = "bilan_session"

// maxUploadBytes caps uploaded CSV size at 16 MB.
const maxUploadBytes = 16 << 20

// detailRow is the JSON shape of one breakdown row in the details endpoint.
type detailRow struct {
	CategoryParent string  `json:"category_parent"`
	Total          float64 `json:"total"`
	NbOperations   int     `json:"nb_operations"`
	Kind           string  `json:"kind,omitempty"`
}

// transactionRow is the JSON shape of one transaction in the drill-down
// endpoint.
type transactionRow struct {
	DateOp         string  `json:"date_op"`
	Month          string  `json:"month"`
	Label          string  `json:"label"`
	Category       string  `json:"category"`
	CategoryParent string  `json:"category_parent"`
	Amount         float64 `json:"amount"`
	Supplier       string  `json:"supplier"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			applog.FieldComponent, applog.ComponentTemplate,
			"error_type", applog.ErrorTypeConfiguration)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentTemplate,
			"template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// readCSVInput extracts the CSV payload from a file upload or the pasted
// csv_text field.
func readCSVInput(r *http.Request) (string, error) {
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		name := strings.ToLower(header.Filename)
		if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".txt") {
			return "", errors.New("only CSV or TXT files are allowed")
		}
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	text := strings.TrimSpace(r.FormValue("csv_text"))
	if text == "" {
		return "", errors.New("upload a CSV file or paste CSV data")
	}
	return text, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.ErrorContext(r.Context(), "Parse form error",
			applog.FieldError, err,
			applog.FieldPath, r.URL.Path,
			applog.FieldOperation, applog.OpParse)
		http.Error(w, "invalid request format", http.StatusBadRequest)
		return
	}

	csvText, err := readCSVInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txns, err := loader.LoadString(csvText)
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV load error",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentLoader,
			applog.FieldOperation, applog.OpLoad)
		http.Error(w, "could not parse CSV: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	opts := services.AnalyzeOptions{
		Cycle:          sanitizeInput(r.FormValue("cycle")),
		FilterAtypical: r.FormValue("filtering_outlier") != "no",
		BreakdownStyle: sanitizeInput(r.FormValue("breakdown_style")),
	}
	if opts.Cycle == "" {
		opts.Cycle = services.CycleCalendar
	}

	result, err := s.svc.Analyze(r.Context(), txns, opts)
	if err != nil {
		if errors.Is(err, core.ErrNoTransactions) {
			http.Error(w, "no usable transactions in CSV", http.StatusUnprocessableEntity)
			return
		}
		slog.ErrorContext(r.Context(), "Analysis failed",
			applog.FieldError, err,
			applog.FieldCycle, opts.Cycle,
			applog.FieldOperation, applog.OpAnalyze)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    result.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if wantsJSON(r) || s.templates == nil {
		writeJSON(w, http.StatusOK, result)
		return
	}

	data := struct {
		Result    *services.AnalysisResult
		Cycle     string
		Style     string
		FormatEur func(float64) string
	}{
		Result:    result,
		Cycle:     opts.Cycle,
		Style:     opts.BreakdownStyle,
		FormatEur: formatEuros,
	}
	if err := s.templates.ExecuteTemplate(w, "results.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Results template execution failed",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentTemplate,
			"template", "results.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	period := strings.TrimSpace(r.URL.Query().Get("period"))
	sessionID := s.sessionID(r)
	if period == "" || sessionID == "" {
		writeJSON(w, http.StatusOK, []detailRow{})
		return
	}

	style := strings.TrimSpace(r.URL.Query().Get("breakdown_style"))
	if style == "" {
		style = services.BreakdownDefault
	}

	cacheKey := sessionID + "|" + period + "|" + style
	rows, found := s.breakdownCache.Get(cacheKey)
	if !found {
		var err error
		rows, err = s.svc.PeriodBreakdown(r.Context(), sessionID, period, style)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				writeJSON(w, http.StatusOK, []detailRow{})
				return
			}
			slog.ErrorContext(r.Context(), "Period breakdown failed",
				applog.FieldError, err,
				applog.FieldSessionID, sessionID,
				applog.FieldPeriod, period,
				applog.FieldBreakdownStyle, style)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.breakdownCache.Set(cacheKey, rows)
	}

	out := make([]detailRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, detailRow{
			CategoryParent: row.Label,
			Total:          row.Total,
			NbOperations:   row.NbOperations,
			Kind:           string(row.Kind),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := strings.TrimSpace(q.Get("period"))
	label := strings.TrimSpace(q.Get("label"))
	kind := core.BreakdownKind(strings.TrimSpace(q.Get("kind")))
	sessionID := s.sessionID(r)
	if period == "" || label == "" || sessionID == "" {
		writeJSON(w, http.StatusOK, []transactionRow{})
		return
	}

	txns, err := s.svc.PeriodTransactions(r.Context(), sessionID, period, kind, label)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeJSON(w, http.StatusOK, []transactionRow{})
			return
		}
		slog.ErrorContext(r.Context(), "Period transactions failed",
			applog.FieldError, err,
			applog.FieldSessionID, sessionID,
			applog.FieldPeriod, period)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out := make([]transactionRow, 0, len(txns))
	for _, tx := range txns {
		out = append(out, transactionRow{
			DateOp:         tx.DateOp.ISO(),
			Month:          tx.Month,
			Label:          tx.Message,
			Category:       tx.Category,
			CategoryParent: tx.CategoryParent,
			Amount:         tx.Amount.Euros(),
			Supplier:       tx.Supplier,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// sessionID resolves the session from the cookie, falling back to an explicit
// query parameter for API clients.
func (s *Server) sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(r.URL.Query().Get("session_id"))
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding JSON response", applog.FieldError, err)
	}
}
