package core

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wpicorr/data/sheets"
	sm "wpicorr/service/models"
)

const (
	DefaultAddr  = ":8080"
	pageTitle    = "Stock Price-WPI Correlation Analysis with Expected Inflation, Price Prediction, and News Sentiment Analysis"
	uploadField  = "stocks"
	missingStock = "Please upload an Excel file."

	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

type ServerSettings struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxUploadBytes  int64
	DefaultLookback string
}

type handlers struct {
	sc       *ServiceContext
	hub      *ProgressHub
	settings ServerSettings
}

func GetHttpServer(sc *ServiceContext, hub *ProgressHub, settings ServerSettings) *http.Server {
	if settings.Addr == "" {
		settings.Addr = DefaultAddr
	}
	if settings.MaxUploadBytes <= 0 {
		settings.MaxUploadBytes = 10 << 20
	}

	server := &http.Server{
		Addr:           settings.Addr,
		Handler:        NewRouter(sc, hub, settings),
		ReadTimeout:    settings.ReadTimeout,
		WriteTimeout:   settings.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	return server
}

func NewRouter(sc *ServiceContext, hub *ProgressHub, settings ServerSettings) http.Handler {
	h := &handlers{sc: sc, hub: hub, settings: settings}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.ping)
		r.Get("/lookbacks", h.lookbacks)
		r.Post("/analysis", h.analysis)
		if hub != nil {
			r.Get("/progress", hub.HandleWebSocket)
		}
	})

	return r
}

type indexPage struct {
	Title           string
	Warning         string
	Lookbacks       []sm.Lookback
	DefaultLookback string
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, http.StatusOK, "")
}

func (h *handlers) renderIndex(w http.ResponseWriter, status int, warning string) {
	page := indexPage{
		Title:           pageTitle,
		Warning:         warning,
		Lookbacks:       sm.Lookbacks(),
		DefaultLookback: h.settings.DefaultLookback,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, "index.html", page); err != nil {
		h.sc.logger().Error().Err(err).Msg("failed to render index page")
	}
}

func (h *handlers) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (h *handlers) lookbacks(w http.ResponseWriter, r *http.Request) {
	res := sm.LookbackResources()
	writeJSON(w, http.StatusOK, sm.GetServiceResponseOk(&res))
}

func (h *handlers) analysis(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatMarkdown && format != FormatHTML {
		writeJSON(w, http.StatusBadRequest, sm.GetServiceResponseError("format must be json, markdown or html"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.settings.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.settings.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.badRequest(w, format, "unable to read upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.sc.logger().Warn().Err(err).Msg("analysis requested without an upload")
		if format == FormatHTML {
			h.renderIndex(w, http.StatusBadRequest, missingStock)
			return
		}
		writeJSON(w, http.StatusBadRequest, sm.GetServiceResponseWarning(missingStock))
		return
	}
	defer file.Close()

	stocks, err := sheets.LoadStockRequests(header.Filename, file)
	if err != nil {
		h.badRequest(w, format, err.Error())
		return
	}

	lookback := r.FormValue("lookback")
	if lookback == "" {
		lookback = h.settings.DefaultLookback
	}

	expected := 0.0
	if raw := strings.TrimSpace(r.FormValue("expectedInflation")); raw != "" {
		expected, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			h.badRequest(w, format, "expected inflation must be a number")
			return
		}
	}

	request := sm.AnalysisRequest{Stocks: stocks, Lookback: lookback, ExpectedInflation: expected}
	report, err := h.sc.RunAnalysis(r.Context(), request)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			h.badRequest(w, format, err.Error())
			return
		}
		h.sc.logger().Error().Err(err).Msg("analysis failed")
		writeJSON(w, http.StatusInternalServerError, sm.GetServiceResponseError(err.Error()))
		return
	}

	switch format {
	case FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(RenderMarkdown(report)))
	case FormatHTML:
		body, err := RenderHTML(report)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, sm.GetServiceResponseError(err.Error()))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		page := struct {
			Title string
			Body  template.HTML
		}{Title: pageTitle, Body: template.HTML(body)}
		if err := templates.ExecuteTemplate(w, "report.html", page); err != nil {
			h.sc.logger().Error().Err(err).Msg("failed to render report page")
		}
	default:
		writeJSON(w, http.StatusOK, sm.GetServiceResponseOk(sm.MapReport(report)))
	}
}

func (h *handlers) badRequest(w http.ResponseWriter, format, message string) {
	if format == FormatHTML {
		h.renderIndex(w, http.StatusBadRequest, message)
		return
	}
	writeJSON(w, http.StatusBadRequest, sm.GetServiceResponseError(message))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
