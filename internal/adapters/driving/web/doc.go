// Package web serves the failcast browser UI and JSON API.
//
// Routes:
//
//	GET  /                        upload form
//	POST /predict                 multipart upload (field "file")
//	GET  /results/:id             preview, results, chart and warning
//	GET  /results/:id/download    annotated CSV
//	GET  /results/:id/chart.png   risk trend chart
//	GET  /about                   model features
//	GET  /api/model               model description as JSON
//	POST /api/predict             raw CSV body, JSON response
//	GET  /metrics                 pipeline metrics as JSON
//	GET  /healthz                 liveness
//
// Predictions live in the result cache only. Nothing uploaded is written to disk.
package web
