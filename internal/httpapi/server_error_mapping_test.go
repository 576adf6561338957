package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/ebm"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/llm"
	"github.com/rodrigocostacamargos/TalkToEBM/pkg/types"
)

type statusError struct {
	msg  string
	code int
}

func (e statusError) Error() string   { return e.msg }
func (e statusError) StatusCode() int { return e.code }

func TestWriteServiceError_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"feature range", ebm.FeatureRangeError{Index: 7, Count: 2}, http.StatusBadRequest},
		{"unknown model", llm.UnknownModelError{ID: "gpt-9"}, http.StatusBadRequest},
		{"missing key", llm.KeyNotConfiguredError{Provider: "deepseek", EnvVar: "DEEPSEEK_API_KEY"}, http.StatusServiceUnavailable},
		{"http error", statusError{msg: "gone", code: http.StatusGone}, http.StatusGone},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			status := writeServiceError(w, tc.err)
			if status != tc.want || w.Code != tc.want {
				t.Fatalf("status=%d code=%d want=%d", status, w.Code, tc.want)
			}
			var e types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
				t.Fatalf("json: %v", err)
			}
			if e.Code != tc.want || e.Error == "" {
				t.Fatalf("payload=%+v", e)
			}
		})
	}
}

// Requests that fail inside the service still return the mapped status
// through the full handler stack.
func TestDescribeGraphHandler_RangeError(t *testing.T) {
	svc := loadedService()
	svc.graphErr = ebm.FeatureRangeError{Index: 9, Count: 2}
	r := NewMux(svc)
	w := postJSON(t, r, "/api/describe_graph", `{"feature_index":9}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestDescribeModelHandler_MissingKey(t *testing.T) {
	svc := loadedService()
	svc.modelErr = llm.KeyNotConfiguredError{Provider: "openai", EnvVar: "OPENAI_API_KEY"}
	r := NewMux(svc)
	w := postJSON(t, r, "/api/describe_model", `{"model":"gpt-5.1"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}
