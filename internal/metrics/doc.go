// Package metrics provides observability hooks for pipeline runs.
//
// Components receive a Recorder through dependency injection. The default is
// NoopRecorder; PrometheusRecorder is swapped in when a metrics textfile or
// listen address is configured:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	res, err := pipeline.Run(ctx, pipeline.Options{Recorder: rec, ...})
//	_ = metrics.WriteTextfile(path, reg)
package metrics
