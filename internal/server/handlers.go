// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/internal/wikitext"
	"github.com/pdiddy/citelink/pkg/types"
)

const maxBodyBytes = 8 << 20

type citationsRequest struct {
	Document string `json:"document"`
	Page     string `json:"page"`
}

type citationEntry struct {
	Index      int                     `json:"index"`
	Citation   types.Citation          `json:"citation"`
	Candidates []types.AuthorCandidate `json:"candidates"`
}

type citationsResponse struct {
	Page      string          `json:"page,omitempty"`
	Citations []citationEntry `json:"citations"`
	Message   string          `json:"message,omitempty"`
}

type applyRequest struct {
	Document string         `json:"document"`
	Citation types.Citation `json:"citation"`
	Index    int            `json:"index"`
	Title    string         `json:"title"`
}

type applyResponse struct {
	Document string         `json:"document"`
	Citation types.Citation `json:"citation"`
}

type refRequest struct {
	Ref string `json:"ref"`
}

type summaryRequest struct {
	Summary  string `json:"summary"`
	Modified int    `json:"modified"`
	Tag      string `json:"tag,omitempty"`
}

type searchRequest struct {
	Query string `json:"query"`
	Page  string `json:"page"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleCitations lists the citations of a document that have unlinked authors.
func (s *Server) handleCitations(w http.ResponseWriter, r *http.Request) {
	var req citationsRequest
	if !decode(w, r, &req) {
		return
	}

	resp := citationsResponse{Page: types.NormalizeTitle(req.Page), Citations: []citationEntry{}}
	for i, c := range wikitext.FindCitations(req.Document) {
		cands := s.extractor.Candidates(c)
		if len(cands) == 0 {
			continue
		}
		resp.Citations = append(resp.Citations, citationEntry{Index: i, Citation: c, Candidates: cands})
	}
	if len(resp.Citations) == 0 {
		resp.Message = "no citations with linkable authors found"
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleApply writes one author link into the submitted document.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Index < 1 {
		jsonError(w, "index must be a positive author position", http.StatusBadRequest)
		return
	}

	cand := types.AuthorCandidate{Index: req.Index}
	for _, c := range s.extractor.Candidates(req.Citation) {
		if c.Index == req.Index {
			cand = c
			break
		}
	}

	c := req.Citation
	doc, err := s.extractor.Apply(req.Document, &c, cand, req.Title)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applyResponse{Document: doc, Citation: c})
}

func (s *Server) handleRef(w http.ResponseWriter, r *http.Request) {
	var req refRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, wikitext.ParseRef(req.Ref))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Modified < 1 {
		jsonError(w, "modified must be at least 1", http.StatusBadRequest)
		return
	}
	tag := req.Tag
	if tag == "" {
		tag = s.tag
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"summary": wikitext.MergeEditSummary(req.Summary, req.Modified, tag),
	})
}

// handleSearch proxies an author search to the wiki.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		jsonError(w, "search is not configured", http.StatusNotImplemented)
		return
	}
	var req searchRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}
	hits, err := s.searcher.Search(r.Context(), types.SearchRequest{
		Query:        req.Query,
		Limit:        s.search.Limit,
		Namespace:    s.search.Namespace,
		ExcludeTitle: req.Page,
	})
	if err != nil {
		s.writeError(w, apperr.Wrap(apperr.SearchFailed, err, "searching %q", req.Query))
		return
	}
	if hits == nil {
		hits = []types.SearchHit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"hits": hits})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps coded errors to HTTP statuses.
func statusFor(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.StaleCitation:
		return http.StatusConflict
	case apperr.InvalidRequest, apperr.InvalidFilter:
		return http.StatusBadRequest
	case apperr.SearchFailed, apperr.WikiAPI:
		return http.StatusBadGateway
	case apperr.NoCitations:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Warn("request failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"code":  string(apperr.CodeOf(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
