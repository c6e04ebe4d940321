// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"context"
	"fmt"

	log "github.com/go-pkgz/lgr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

var (
	TogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joetasks_toggles_total",
		Help: "Toggle requests by outcome.",
	}, []string{"result"})

	ToggleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "joetasks_toggle_duration_seconds",
		Help:    "Time from toggle request receipt to response.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	})

	TasksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joetasks_tasks_created_total",
		Help: "Tasks successfully created.",
	})

	TasksDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joetasks_tasks_deleted_total",
		Help: "Tasks successfully deleted.",
	})

	TasksTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "joetasks_tasks_total",
		Help: "Total number of tasks in the database.",
	})
)

// Toggle outcomes used as the "result" label of TogglesTotal.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// TaskCounter reports the current number of tasks.
type TaskCounter interface {
	Count(ctx context.Context) (int64, error)
}

// RefreshTasks sets TasksTotal from c. Failures are logged and leave the gauge as is.
func RefreshTasks(ctx context.Context, c TaskCounter) {
	n, err := c.Count(ctx)
	if err != nil {
		log.Printf("[WARN] count tasks: %v", err)
		return
	}
	TasksTotal.Set(float64(n))
}

// StartRefresher re-reads the task count on the cron schedule spec until ctx
// is done. Other instances sharing the database change the count too.
func StartRefresher(ctx context.Context, c TaskCounter, spec string) error {
	sched := cron.New()
	if _, err := sched.AddFunc(spec, func() { RefreshTasks(ctx, c) }); err != nil {
		return fmt.Errorf("schedule task count refresh %q: %w", spec, err)
	}
	sched.Start()
	go func() {
		<-ctx.Done()
		<-sched.Stop().Done()
		log.Printf("[DEBUG] task count refresher stopped")
	}()
	return nil
}
