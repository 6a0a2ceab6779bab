package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/liveatc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ShutdownTimeout is how long in-flight requests get to finish on shutdown.
const ShutdownTimeout = 5 * time.Second

// maxMetarBody caps the size of a POST /metar request body.
const maxMetarBody = 4 << 10

// Server serves the airport store and on-demand syncs as JSON.
type Server struct {
	router chi.Router
	logger *slog.Logger

	Airports liveatc.AirportService
	Syncer   liveatc.AirportSyncer
	Finder   liveatc.AirportFinder
}

// NewServer creates a Server with its routes registered.
func NewServer(airports liveatc.AirportService, syncer liveatc.AirportSyncer, finder liveatc.AirportFinder, logger *slog.Logger) *Server {
	s := &Server{
		logger:   logger,
		Airports: airports,
		Syncer:   syncer,
		Finder:   finder,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.logRequests,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}),
		middleware.Timeout(60*time.Second),
	)

	r.Get("/healthcheck", s.handleHealthcheck)
	r.Route("/airports", func(r chi.Router) {
		r.Get("/", s.handleAirportList)
		r.Get("/{icao}", s.handleAirportView)
		r.Post("/{icao}", s.handleAirportSync)
	})
	r.Get("/stream", s.handleStream)
	r.Post("/metar", s.handleMetar)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "LiveATC API is running",
	})
}

func (s *Server) handleAirportList(w http.ResponseWriter, r *http.Request) {
	var filter liveatc.AirportFilter
	q := r.URL.Query()
	if country := q.Get("country"); country != "" {
		filter.Country = &country
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		s.writeError(w, r, liveatc.Errorf(liveatc.EINVALID, "invalid limit %q", q.Get("limit")))
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		s.writeError(w, r, liveatc.Errorf(liveatc.EINVALID, "invalid offset %q", q.Get("offset")))
		return
	}

	airports, err := s.Airports.FindAirports(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if airports == nil {
		airports = []*liveatc.Airport{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"airports": airports,
		"total":    len(airports),
	})
}

func (s *Server) handleAirportView(w http.ResponseWriter, r *http.Request) {
	icao, err := liveatc.NormalizeICAO(chi.URLParam(r, "icao"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	airport, err := s.Airports.FindAirportByICAO(r.Context(), icao)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, airport)
}

func (s *Server) handleAirportSync(w http.ResponseWriter, r *http.Request) {
	icao, err := liveatc.NormalizeICAO(chi.URLParam(r, "icao"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	airport, err := s.Syncer.SyncAirport(r.Context(), icao)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, airport)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		s.writeError(w, r, liveatc.Errorf(liveatc.EINVALID, "page query parameter required"))
		return
	}

	src, ok := s.Finder.ResolveStreamURL(r.Context(), page)
	if !ok {
		s.writeError(w, r, liveatc.Errorf(liveatc.ENOTFOUND, "no stream found on %s", page))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": src})
}

// metarRequest is the body of POST /metar.
type metarRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleMetar(w http.ResponseWriter, r *http.Request) {
	var req metarRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMetarBody)).Decode(&req); err != nil {
		s.writeError(w, r, liveatc.Errorf(liveatc.EINVALID, "invalid METAR request body"))
		return
	}

	metar, err := liveatc.ParseMetar(req.Query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, metar)
}

// logRequests logs one line per request after the response is written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(begin),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

// writeError writes an application error as JSON with a matching status.
// Internal errors are logged and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := liveatc.ErrorCode(err), liveatc.ErrorMessage(err)
	if code == liveatc.EINTERNAL {
		s.logger.Error("http error",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	writeJSON(w, ErrorStatusCode(code), map[string]string{"error": message})
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	liveatc.EINCOMPLETE:  http.StatusUnprocessableEntity,
	liveatc.EINTERNAL:    http.StatusInternalServerError,
	liveatc.EINVALID:     http.StatusBadRequest,
	liveatc.ENOTFOUND:    http.StatusNotFound,
	liveatc.EUNAVAILABLE: http.StatusBadGateway,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid")
	}
	return n, nil
}
