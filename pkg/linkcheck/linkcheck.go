package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/otwartedane/mcod/pkg/audit"
	"github.com/otwartedane/mcod/pkg/formats"
	"github.com/otwartedane/mcod/pkg/logging"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

const userAgent = "mcod-linkchecker/1.0"

// Target is a link to check. A target without a format gets its
// format detected from the response once the link is ok.
type Target struct {
	ID     uint
	URL    string
	Format string
}

// Result is the outcome of checking one target
type Result struct {
	Target
	Status     model.LinkStatus
	StatusCode int
	Err        error
	Detected   formats.Detection
}

// Summary counts the outcomes of a run
type Summary struct {
	Checked  int `json:"checked"`
	Ok       int `json:"ok"`
	Broken   int `json:"broken"`
	Detected int `json:"detected"`
}

// Checker checks links with bounded concurrency
type Checker struct {
	client      *http.Client
	concurrency int
	logger      *zap.Logger
	now         func() time.Time
}

// NewChecker creates a Checker. A zero timeout keeps the client's own.
func NewChecker(client *http.Client, concurrency int, timeout time.Duration, logger *zap.Logger) *Checker {
	if client == nil {
		client = &http.Client{}
	}
	if timeout > 0 {
		c := *client
		c.Timeout = timeout
		client = &c
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Checker{
		client:      client,
		concurrency: concurrency,
		logger:      logging.OrNop(logger),
		now:         time.Now,
	}
}

// Check probes every target and returns the results in input order. It
// fails only when ctx is cancelled.
func (c *Checker) Check(ctx context.Context, targets []Target) ([]Result, error) {
	results := make([]Result, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, t := range targets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = c.checkOne(ctx, t)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Checker) checkOne(ctx context.Context, t Target) Result {
	res := Result{Target: t, Status: model.LinkStatusBroken}

	code, err := c.probe(ctx, http.MethodHead, t.URL)
	if err == nil && (code == http.StatusMethodNotAllowed || code == http.StatusNotImplemented) {
		code, err = c.probe(ctx, http.MethodGet, t.URL)
	}
	res.StatusCode = code
	res.Err = err
	if err == nil && code < http.StatusBadRequest {
		res.Status = model.LinkStatusOk
	}
	if res.Status == model.LinkStatusOk && t.Format == "" {
		res.Detected = c.detect(ctx, t)
	}
	c.logger.Debug("link checked",
		zap.Uint("resource", t.ID),
		zap.String("url", t.URL),
		zap.Int("code", code),
		zap.Stringer("status", res.Status),
		zap.Error(err))
	return res
}

func (c *Checker) detect(ctx context.Context, t Target) formats.Detection {
	d, err := formats.Sniff(ctx, c.client, t.URL)
	if err != nil {
		c.logger.Debug("format detection failed", zap.Uint("resource", t.ID), zap.Error(err))
		return formats.Detection{Source: formats.SourceNone}
	}
	return d
}

func (c *Checker) probe(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// CheckResources checks the links of the resources returned by
// ResourcesToCheck and stores the outcome of each one
func (c *Checker) CheckResources(ctx context.Context, resources store.ResourcesStore, datasetID *uint) (Summary, error) {
	list, err := resources.ResourcesToCheck(ctx, datasetID)
	if err != nil {
		return Summary{}, fmt.Errorf("listing resources: %w", err)
	}
	targets := make([]Target, 0, len(list))
	for _, r := range list {
		targets = append(targets, Target{ID: r.ID, URL: r.Link, Format: r.Format})
	}

	results, err := c.Check(ctx, targets)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	checkedAt := c.now().UTC()
	for _, r := range results {
		if err := resources.UpdateLinkStatus(ctx, r.ID, r.Status, checkedAt); err != nil {
			return sum, fmt.Errorf("updating resource %d: %w", r.ID, err)
		}
		if r.Detected.Format != "" {
			d := r.Detected
			if err := resources.UpdateFormat(ctx, r.ID, d.Format, d.MediaType, formats.OpennessScore(d.Format)); err != nil {
				return sum, fmt.Errorf("updating format of resource %d: %w", r.ID, err)
			}
			sum.Detected++
		}
		sum.Checked++
		if r.Status == model.LinkStatusOk {
			sum.Ok++
		} else {
			sum.Broken++
		}
	}

	c.logger.Info("link check finished",
		zap.Int("checked", sum.Checked),
		zap.Int("ok", sum.Ok),
		zap.Int("broken", sum.Broken),
		zap.Int("detected", sum.Detected))
	audit.Log(audit.LinkCheckEvent{Checked: sum.Checked, Ok: sum.Ok, Broken: sum.Broken})
	return sum, nil
}
