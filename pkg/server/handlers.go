package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/bundle"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/pipeline"
)

const maxRequestBody = 64 << 10

type versionResponse struct {
	Version string `json:"version"`
	Cached  bool   `json:"cached"`
}

type moduleJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
	Size        int    `json:"size"`
}

type modulesResponse struct {
	Modules []moduleJSON `json:"modules"`
}

type generateRequest struct {
	Modules []string `json:"modules"`
	Minify  bool     `json:"minify"`
}

type generateResponse struct {
	Modules        []string `json:"modules"`
	Filename       string   `json:"filename"`
	Minify         bool     `json:"minify"`
	Size           int      `json:"size"`
	OriginalSize   int      `json:"original_size"`
	SavingsPercent float64  `json:"savings_percent,omitempty"`
	SavingsText    string   `json:"savings_text,omitempty"`
	DownloadRef    string   `json:"download_ref"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if s.version == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "version lookup is not configured"))
		return
	}
	v, cached, err := catalog.Version(r.Context(), s.version, sessionFrom(r.Context()))
	if err != nil {
		s.logger.Warn("fetch library version", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versionResponse{Version: v, Cached: cached})
}

func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	modules, err := s.catalog.Modules(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := modulesResponse{Modules: make([]moduleJSON, len(modules))}
	for i, m := range modules {
		resp.Modules[i] = moduleJSON{
			Name:        m.Name,
			Description: m.Description,
			Default:     m.IncludedByDefault,
			Size:        m.Size,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	view, err := s.catalog.Load(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	state := "miss"
	if view.FromCache {
		state = "hit"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Zbuilder-Cache", state)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, view.Fragment)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	out, err := s.runner.Execute(r.Context(), pipeline.Options{
		Modules: req.Modules,
		Bundle:  bundle.Options{Minify: req.Minify},
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if out.Bundle == nil {
		writeError(w, errors.New(errors.ErrCodeEmptySelection, "select at least one module"))
		return
	}
	res := out.Bundle
	resp := generateResponse{
		Modules:      res.Modules,
		Filename:     res.Filename,
		Minify:       res.Minify,
		Size:         len(res.Output()),
		OriginalSize: len(res.Combined),
		DownloadRef:  res.DownloadRef,
	}
	if res.Minify {
		resp.SavingsPercent = res.SavingsPercent
		resp.SavingsText = res.SavingsText()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.downloads == nil || !blob.ValidID(id) {
		writeError(w, errors.New(errors.ErrCodeBundleNotFound, "bundle %q not found", id))
		return
	}
	b, err := s.downloads.Get(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, errors.Wrap(errors.ErrCodeBundleNotFound, err, "bundle %q", id))
			return
		}
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load bundle"))
		return
	}
	w.Header().Set("Content-Type", b.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Data)
}
