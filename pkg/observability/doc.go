/*
Package observability turns vessel lifecycle hooks into logs and Prometheus metrics.

Metrics and LogHooks both produce domain.LifecycleHooks; Chain combines several
sets so a single engine can feed a logger and a registry at the same time:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Chain(observability.LogHooks(logger), metrics.Hooks())
	eng := vessel.New(vessel.WithLifecycleHooks(hooks))
*/
package observability
