// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/sessions", "201"))

	RecordAPIRequest("POST", "/api/v1/sessions", "201", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/sessions", "201"))
	if after != before+1 {
		t.Errorf("api_requests_total = %v, want %v", after, before+1)
	}
}

func TestRecordUpstreamCall(t *testing.T) {
	tests := []struct {
		service   string
		operation string
		outcome   string
	}{
		{"suggest", "chat_completion", "ok"},
		{"suggest", "chat_completion", "format"},
		{"omdb", "lookup_title", "not_found"},
		{"omdb", "get_by_id", "network"},
	}
	for _, tt := range tests {
		c := UpstreamRequestsTotal.WithLabelValues(tt.service, tt.operation, tt.outcome)
		before := testutil.ToFloat64(c)
		RecordUpstreamCall(tt.service, tt.operation, tt.outcome, 200*time.Millisecond)
		if got := testutil.ToFloat64(c); got != before+1 {
			t.Errorf("%s/%s/%s = %v, want %v", tt.service, tt.operation, tt.outcome, got, before+1)
		}
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("unverified"))

	RecordRecommendation("unverified", 3)
	RecordRecommendation("unverified", 0)

	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("unverified")); got != before+2 {
		t.Errorf("recommendations_total{unverified} = %v, want %v", got, before+2)
	}
}

func TestCollectorsLint(t *testing.T) {
	problems, err := testutil.CollectAndLint(RetriesExhausted)
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	for _, p := range problems {
		t.Errorf("lint problem on %s: %s", p.Metric, p.Text)
	}
}
