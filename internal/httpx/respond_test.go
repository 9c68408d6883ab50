package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-care-backend/internal/tabular"
)

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&tabular.ValidationError{Violations: []tabular.Violation{{Field: "x", Message: "bad"}}}, http.StatusUnprocessableEntity},
		{fmt.Errorf("update: %w", tabular.ErrImmutableRecord), http.StatusConflict},
		{&tabular.QuotaError{Err: errors.New("limit")}, http.StatusTooManyRequests},
		{&tabular.UnavailableError{Err: errors.New("down")}, http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(rec, tc.err)
		if rec.Code != tc.want {
			t.Errorf("Error(%v) status = %d, want %d", tc.err, rec.Code, tc.want)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
	}
}
