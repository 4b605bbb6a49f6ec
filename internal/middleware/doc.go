// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

/*
Package middleware provides infrastructure HTTP middleware shared by the API
router.

Key Components:

  - RequestID: request ID and correlation ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation

Both are plain func(http.Handler) http.Handler and plug straight into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests by chi route pattern
("/api/v1/sessions/{id}/generate"), so it must run inside a chi router to
produce useful labels. Outside one every request is labelled "unmatched".
*/
package middleware
