package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/oracle"
	"github.com/ontoplan/ontoplan/pkg/planning"
)

type planRequest struct {
	Query string `json:"query"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	StepID  int    `json:"step_id,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Kind: "bad_request", Message: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, errorBody{Kind: "bad_request", Message: "query is required"})
		return
	}

	result, err := s.pipeline.Run(r.Context(), req.Query)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writePipelineError maps the pipeline error taxonomy onto HTTP statuses:
// contract violations by the oracles are 422, transport and garbled-reply
// failures are 502, anything else is 500.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	var malformedPlan *planning.MalformedPlanError
	var syntaxErr *planning.CodeGenSyntaxError
	var transportErr *oracle.TransportError
	var replyErr *oracle.MalformedReplyError

	switch {
	case errors.As(err, &malformedPlan):
		writeError(w, http.StatusUnprocessableEntity, errorBody{
			Kind:    "malformed_plan",
			Message: malformedPlan.Error(),
			StepID:  malformedPlan.StepID,
		})
	case errors.As(err, &syntaxErr):
		writeError(w, http.StatusUnprocessableEntity, errorBody{
			Kind:    "codegen_syntax",
			Message: syntaxErr.Error(),
		})
	case errors.As(err, &transportErr):
		writeError(w, http.StatusBadGateway, errorBody{
			Kind:    "oracle_transport",
			Message: transportErr.Error(),
		})
	case errors.As(err, &replyErr):
		writeError(w, http.StatusBadGateway, errorBody{
			Kind:    "oracle_reply",
			Message: replyErr.Error(),
		})
	default:
		s.logger.Error("pipeline failed", "error", err)
		writeError(w, http.StatusInternalServerError, errorBody{
			Kind:    "internal",
			Message: "pipeline failed",
		})
	}
}

func (s *Server) handleOntology(w http.ResponseWriter, _ *http.Request) {
	relations := make([]*ontology.RelationSchema, 0, s.layer.RelationCount())
	for _, name := range s.layer.EntityNames() {
		relations = append(relations, s.layer.RelationsFrom(name)...)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entities":  planning.EntitiesToDict(s.layer.Entities()),
		"relations": planning.RelationsToDict(relations),
	})
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": planning.ToolsToDict(s.layer.Tools()),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, errorResponse{Error: body})
}
