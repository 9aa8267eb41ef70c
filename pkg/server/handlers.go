package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/toparity/pkg/buildinfo"
	"github.com/matzehuels/toparity/pkg/errors"
	"github.com/matzehuels/toparity/pkg/pipeline"
)

// ConvertRequest is the body of POST /api/v1/convert.
type ConvertRequest struct {
	// Automaton is the input in HOA or JSON format.
	Automaton   string   `json:"automaton"`
	InputFormat string   `json:"input_format,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Pretty      bool     `json:"pretty,omitempty"`
	Cleanup     bool     `json:"cleanup,omitempty"`
	Simplify    bool     `json:"simplify,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`
	MaxStates   int      `json:"max_states,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`
}

// ConvertResponse is the body of a successful conversion. Text formats are
// returned verbatim; pdf and png are base64 encoded.
type ConvertResponse struct {
	ID        string            `json:"id"`
	CacheHit  bool              `json:"cache_hit"`
	Stats     pipeline.Stats    `json:"stats"`
	Artifacts map[string]string `json:"artifacts"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes an error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if s.opts.Server.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.Server.MaxBodyBytes)
	}

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.New(errors.ErrCodeLimitExceeded, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Automaton == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "automaton is required"))
		return
	}

	opts := s.convertOptions(req)
	ctx := r.Context()
	if d := s.opts.Server.ConvertTimeout.Duration; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	res, err := s.runner.Convert(ctx, []byte(req.Automaton), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := ConvertResponse{
		ID:        res.ID,
		CacheHit:  res.CacheHit,
		Stats:     res.Stats,
		Artifacts: make(map[string]string, len(res.Artifacts)),
	}
	for format, data := range res.Artifacts {
		if format == pipeline.FormatPDF || format == pipeline.FormatPNG {
			resp.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
			continue
		}
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// convertOptions maps a request onto pipeline options, enforcing the
// server's limits.
func (s *Server) convertOptions(req ConvertRequest) pipeline.Options {
	opts := pipeline.Options{
		InputFormat: req.InputFormat,
		Formats:     req.Formats,
		PrettyPrint: req.Pretty,
		Cleanup:     req.Cleanup,
		Simplify:    req.Simplify,
		Detailed:    req.Detailed,
		MaxSets:     s.opts.Convert.MaxSets,
		MaxStates:   req.MaxStates,
		Refresh:     req.Refresh,
	}
	if opts.InputFormat == "" {
		opts.InputFormat = pipeline.FormatAuto
	}
	if limit := s.opts.Convert.MaxStates; limit > 0 && (opts.MaxStates == 0 || opts.MaxStates > limit) {
		opts.MaxStates = limit
	}
	return opts
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", requestIDFrom(r.Context()), "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: errors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
