package server

import (
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-lab-console/catalog"
)

func pageRequestFrom(r *http.Request) catalog.PageRequest {
	q := r.URL.Query()
	return catalog.PageRequest{
		Page:      queryInt(r, "page", 0),
		Size:      queryInt(r, "size", 0),
		Sort:      q.Get("sort"),
		Direction: q.Get("direction"),
	}
}

// LabAreasHandler lists lab areas (GET /catalog/lab-areas)
// ?active=true returns every active area, ?q= searches.
func (s *Server) LabAreasHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("active") == "true":
			areas, err := s.catalog.ActiveLabAreas(r.Context())
			if err != nil {
				s.handleServiceError(w, r, "ActiveLabAreas", err)
				return
			}
			writeJSON(w, http.StatusOK, areas)
		case q.Get("q") != "":
			page, err := s.catalog.SearchLabAreas(r.Context(), q.Get("q"), pageRequestFrom(r))
			if err != nil {
				s.handleServiceError(w, r, "SearchLabAreas", err)
				return
			}
			writeJSON(w, http.StatusOK, page)
		default:
			page, err := s.catalog.ListLabAreas(r.Context(), pageRequestFrom(r))
			if err != nil {
				s.handleServiceError(w, r, "ListLabAreas", err)
				return
			}
			writeJSON(w, http.StatusOK, page)
		}
	}
}

// ExamsHandler lists exams (GET /catalog/exams)
// Filters: ?area=<id>, ?q=, ?perfiles=true, ?active=true.
func (s *Server) ExamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var (
			result any
			err    error
		)
		switch {
		case q.Get("perfiles") == "true":
			result, err = s.catalog.Profiles(r.Context())
		case q.Get("active") == "true":
			result, err = s.catalog.ActiveExams(r.Context())
		case q.Get("area") != "":
			areaID, convErr := strconv.ParseInt(q.Get("area"), 10, 64)
			if convErr != nil {
				writeJSONError(w, "invalid area", http.StatusBadRequest)
				return
			}
			result, err = s.catalog.ExamsByArea(r.Context(), areaID, pageRequestFrom(r))
		case q.Get("q") != "":
			result, err = s.catalog.SearchExams(r.Context(), q.Get("q"), pageRequestFrom(r))
		default:
			result, err = s.catalog.ListExams(r.Context(), pageRequestFrom(r))
		}
		if err != nil {
			s.handleServiceError(w, r, "Exams", err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// SubExamsHandler lists the sub-exams of an exam (GET /catalog/exams/{id}/sub-exams)
func (s *Server) SubExamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		subs, err := s.catalog.SubExamsByExam(r.Context(), id)
		if err != nil {
			s.handleServiceError(w, r, "SubExamsByExam", err)
			return
		}
		writeJSON(w, http.StatusOK, subs)
	}
}
