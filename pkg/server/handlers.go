package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/boxtree/pkg/buildinfo"
	"github.com/matzehuels/boxtree/pkg/errors"
	boxio "github.com/matzehuels/boxtree/pkg/io"
	"github.com/matzehuels/boxtree/pkg/pipeline"
	"github.com/matzehuels/boxtree/pkg/render/sink"
	"github.com/matzehuels/boxtree/pkg/store"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, hit, err := s.runner.Layout(r.Context(), doc.Tree, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, err := pipeline.TreeHash(doc.Tree)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := uuid.NewString()
	data, err := sink.RenderJSON(res, sink.WithJSONID(id), sink.WithJSONCompact())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	if _, err := s.store.Put(r.Context(), &store.Document{ID: id, TreeHash: hash, Layout: data}); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/layouts/"+id)
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeRaw(w, http.StatusCreated, sink.ContentType(sink.FormatJSON), data)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, sink.ContentType(sink.FormatJSON), doc.Layout)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := sink.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}

	res, err := s.runner.Execute(r.Context(), doc.Tree, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.RenderHit))
	writeRaw(w, http.StatusOK, sink.ContentType(format), res.Artifacts[format])
}

// decode reads a tree document from the request body and merges its
// settings into the server defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*boxio.Document, pipeline.Options, error) {
	opts := s.defaults
	opts.Logger = s.logger

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	doc, err := boxio.ReadTree(body, boxio.FormatJSON)
	if err != nil {
		return nil, opts, err
	}
	if m := r.URL.Query().Get("measurer"); m != "" {
		opts.Measurer = m
	}
	opts.Config = doc.Apply(opts.Config)
	return doc, opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, "application/json", data)
}

func writeRaw(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
