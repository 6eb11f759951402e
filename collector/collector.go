package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/common"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/oqtopus-team/oqtopus-bench/features"
	"github.com/oqtopus-team/oqtopus-bench/generator"
	"github.com/oqtopus-team/oqtopus-bench/log"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const TaskName = "collector"

// Result summarises one collection run. Failures holds every failed file;
// a run with failures still saves the records that succeeded.
type Result struct {
	RunID      string          `json:"run_id"`
	StartedAt  strfmt.DateTime `json:"started_at"`
	FinishedAt strfmt.DateTime `json:"finished_at"`
	Planned    int             `json:"planned"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Failures   []string        `json:"failures,omitempty"`
	Err        error           `json:"-"`
}

type Collector struct {
	plan      Plan
	generator core.Generator
	store     core.RecordStore
	metrics   *slog.Logger
}

// NewCollector returns a collector saving into store. metrics may be nil.
func NewCollector(plan Plan, g core.Generator, store core.RecordStore, metrics *slog.Logger) (*Collector, error) {
	if err := plan.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid plan")
	}
	if metrics == nil {
		metrics = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Collector{plan: plan, generator: g, store: store, metrics: metrics}, nil
}

type outcome struct {
	mu       sync.Mutex
	records  []core.FeatureRecord
	failures []string
	errs     error
}

func (o *outcome) success(r core.FeatureRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, r)
}

func (o *outcome) failure(name string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, name)
	o.errs = multierr.Append(o.errs, errors.Wrap(err, name))
}

// Run generates every planned file with the configured number of workers and
// saves the feature records. It returns early only when ctx is cancelled.
func (c *Collector) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     uuid.New().String(),
		StartedAt: strfmt.DateTime(time.Now()),
	}
	reqs, err := c.plan.Requests()
	if err != nil {
		return nil, err
	}
	res.Planned = len(reqs)
	zap.L().Info(fmt.Sprintf("collector run %s: %d files with %d workers", res.RunID, len(reqs), c.plan.Workers))
	if c.plan.QASMDir != "" {
		if err := common.EnsureDir(c.plan.QASMDir); err != nil {
			return nil, err
		}
	}

	q, err := newTaskQueue(reqs)
	if err != nil {
		return nil, err
	}
	out := &outcome{}
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < c.plan.Workers; i++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				req, ok := q.next()
				if !ok {
					return nil
				}
				c.process(res.RunID, req, out)
			}
		})
	}
	if err := g.Wait(); err != nil {
		zap.L().Warn(fmt.Sprintf("collector run %s is cancelled/reason:%s", res.RunID, err))
		return nil, err
	}

	sort.Slice(out.records, func(i, j int) bool { return out.records[i].Filename < out.records[j].Filename })
	sort.Strings(out.failures)
	res.Succeeded = len(out.records)
	res.Failed = len(out.failures)
	res.Failures = out.failures
	res.Err = out.errs
	if len(out.records) > 0 {
		if err := c.store.Save(out.records); err != nil {
			zap.L().Error(fmt.Sprintf("failed to save records/reason:%s", err))
			return nil, err
		}
	}
	res.FinishedAt = strfmt.DateTime(time.Now())
	zap.L().Info(fmt.Sprintf("collector run %s: %d succeeded, %d failed", res.RunID, res.Succeeded, res.Failed))
	return res, nil
}

func (c *Collector) process(runID string, req *core.BenchmarkRequest, out *outcome) {
	start := time.Now()
	name, rec, err := c.collect(req)
	attrs := []any{
		log.MetricsKeyRunID, runID,
		log.MetricsKeyFilename, name,
		log.MetricsKeyDuration, time.Since(start).Milliseconds(),
	}
	if err != nil {
		zap.L().Warn(fmt.Sprintf("failed to collect %s/reason:%s", name, err))
		c.metrics.Info(log.MetricsMessage, append(attrs, log.MetricsKeyStatus, "failed", log.MetricsKeyError, err.Error())...)
		out.failure(name, err)
		return
	}
	c.metrics.Info(log.MetricsMessage, append(attrs,
		log.MetricsKeyStatus, "succeeded",
		log.MetricsKeyNumQubits, rec.NumQubits,
		log.MetricsKeyDepth, rec.Depth)...)
	zap.L().Debug(fmt.Sprintf("collected %s", common.PlainJsonString(rec.String())))
	out.success(rec)
}

func (c *Collector) collect(req *core.BenchmarkRequest) (string, core.FeatureRecord, error) {
	name, err := generator.Filename(req)
	if err != nil {
		return req.String(), core.FeatureRecord{}, err
	}
	if compiler := req.CompilerSettings.Compiler(); !c.generator.IsAcceptableCompiler(compiler) {
		return name, core.FeatureRecord{}, fmt.Errorf("compiler %s is not accepted by the generator", compiler)
	}
	circ, err := c.generator.Generate(req)
	if err != nil {
		return name, core.FeatureRecord{}, err
	}
	if c.plan.QASMDir != "" {
		if err := c.saveQASM(circ, name); err != nil {
			return name, core.FeatureRecord{}, err
		}
	}
	rec, err := features.Extract(name, circ)
	return name, rec, err
}

func (c *Collector) saveQASM(circ *circuit.Circuit, name string) error {
	format, err := circuit.ParseQASMFormat(c.plan.QASMFormat)
	if err != nil {
		return err
	}
	h, err := generator.QASMHeader(circ)
	if err != nil {
		return err
	}
	path, err := circ.SaveQASM(c.plan.QASMDir, name, format, h)
	if err != nil {
		return errors.Wrap(err, "save qasm")
	}
	zap.L().Debug(fmt.Sprintf("wrote %s", path))
	return nil
}

// RunWithSignals runs the collector as the task of a run group that stops on
// SIGINT or SIGTERM.
func (c *Collector) RunWithSignals(parent context.Context) (*Result, error) {
	rc := core.NewRunContext(parent)
	rc.AddSignalHandler()
	var res *Result
	rc.AddTask(TaskName, func(ctx context.Context) error {
		var err error
		res, err = c.Run(ctx)
		return err
	})
	if err := rc.Run(); err != nil {
		return nil, err
	}
	return res, nil
}
