package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/patterns"
	"github.com/matzehuels/datasprout/pkg/pipeline"
	"github.com/matzehuels/datasprout/pkg/store"
)

// ModeExcel is the only supported output mode.
const ModeExcel = "excel"

// archiveTimeFormat is the timestamp layout of archive file names.
const archiveTimeFormat = "2006-01-02-15-04-05"

func (s *Server) handleSprawl(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kgName := q.Get("kg")
	if kgName == "" {
		s.writeError(w, http.StatusBadRequest, "kg parameter is not set")
		return
	}
	mode := q.Get("mode")
	if mode == "" {
		s.writeError(w, http.StatusBadRequest, "mode parameter is not set")
		return
	}

	opts, err := s.sprawlOptions(kgName, mode, q.Get)
	if err != nil {
		s.fail(w, err)
		return
	}

	data, hit, err := s.Runner.Archive(r.Context(), opts)
	if err != nil {
		s.fail(w, err)
		return
	}

	name := fmt.Sprintf("datasprout-sprawl-%s-%s-%s.zip", kgName, mode, s.now().Format(archiveTimeFormat))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment;filename="+name)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// sprawlOptions turns request parameters into pipeline options.
func (s *Server) sprawlOptions(kgName, mode string, get func(string) string) (pipeline.Options, error) {
	path, ok := s.Graphs[kgName]
	if !ok {
		return pipeline.Options{}, errors.New(errors.ErrCodeNotFound, "a knowledge graph named %s is not registered", kgName)
	}
	if mode != ModeExcel {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidMode, "mode %s is not supported", mode)
	}

	seed, err := strconv.ParseUint(get("randomSeed"), 10, 64)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "randomSeed must be a non-negative integer")
	}
	n, err := strconv.Atoi(get("numberOfWorkbooks"))
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "numberOfWorkbooks must be an integer")
	}

	var raw map[string]bool
	if err := json.Unmarshal([]byte(get("patterns")), &raw); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "patterns must be a JSON object of booleans")
	}
	toggles, err := patterns.TogglesFromDisplay(raw)
	if err != nil {
		return pipeline.Options{}, err
	}

	lang := get("lang")
	if lang == "" {
		lang = pipeline.DefaultLocale
	}

	return pipeline.Options{
		Dataset:                 kgName,
		Input:                   path,
		Patterns:                &toggles,
		Seed:                    seed,
		NumberOfWorkbooks:       n,
		Locale:                  lang,
		SkipExpectedModel:       !flag(get("writeExpectedModel")),
		SkipProvenanceModel:     !flag(get("writeProvenanceModel")),
		SkipProvenanceCSV:       !flag(get("writeProvenanceCSV")),
		SkipSummary:             !flag(get("writeGenerationSummaryJson")),
		ProvenanceAsCellComment: flag(get("provenanceAsCellComment")),
		Logger:                  s.Logger,
	}, nil
}

// flag is true only for a case-insensitive "true".
func flag(v string) bool {
	return strings.EqualFold(v, "true")
}

// GraphInfo describes a registered knowledge graph.
type GraphInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (s *Server) handleGraphs(w http.ResponseWriter, _ *http.Request) {
	out := make([]GraphInfo, 0, len(s.Graphs))
	for _, n := range s.GraphNames() {
		out = append(out, GraphInfo{Name: n, Path: s.Graphs[n]})
	}
	s.writeJSON(w, out)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.Runner.Store == nil {
		s.writeError(w, http.StatusNotFound, "no run store is configured")
		return
	}
	q := store.Query{Dataset: r.URL.Query().Get("kg"), Mode: r.URL.Query().Get("mode")}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		q.Limit = n
	}
	recs, err := s.Runner.Store.List(r.Context(), q)
	if err != nil {
		s.fail(w, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	s.writeJSON(w, recs)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.Logger.Warn("writing response failed", "err", err)
	}
}
