package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/logingood/cdp-cucm/ios"
	"github.com/logingood/cdp-cucm/metrics"
	"github.com/logingood/cdp-cucm/models"
	"go.uber.org/zap"
)

var (
	ErrMissingDescription = errors.New("no description for device")
	ErrApplyFailed        = errors.New("switch rejected interface descriptions")
)

type Discoverer interface {
	Neighbors(ctx context.Context) (models.Neighbors, error)
}

type DescriptionSource interface {
	DescriptionsFromList(ctx context.Context, devices []string) (map[string]string, error)
}

type Configurer interface {
	ConfigureDescription(ctx context.Context, iface models.Interface, description string) error
}

type Recorder interface {
	Write(record *models.UpdateRecord)
}

// Plan is what one switch should look like. Missing holds the phones CUCM
// had no description for.
type Plan struct {
	Switch  string                   `json:"switch"`
	Updates []models.InterfaceUpdate `json:"updates"`
	Missing []string                 `json:"missing,omitempty"`
}

type Runner struct {
	logger     *zap.Logger
	switchName string
	discoverer Discoverer
	source     DescriptionSource
	configurer Configurer
	recorder   Recorder
	metrics    *metrics.Metrics
}

type Option func(*Runner)

func WithRecorder(r Recorder) Option {
	return func(runner *Runner) {
		runner.recorder = r
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(runner *Runner) {
		runner.metrics = m
	}
}

func New(logger *zap.Logger, switchName string, discoverer Discoverer, source DescriptionSource, configurer Configurer, opts ...Option) *Runner {
	r := &Runner{
		logger:     logger.With(zap.String("switch", switchName)),
		switchName: switchName,
		discoverer: discoverer,
		source:     source,
		configurer: configurer,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plan discovers the phones on the switch and looks up their descriptions.
func (r *Runner) Plan(ctx context.Context) (*Plan, error) {
	neighbors, err := r.discoverer.Neighbors(ctx)
	if err != nil {
		return nil, err
	}
	r.metrics.Neighbors(r.switchName, len(neighbors))

	names := neighbors.Names()
	descriptions, err := r.source.DescriptionsFromList(ctx, names)
	if err != nil {
		r.metrics.Lookups("error", 1)
		return nil, err
	}
	r.metrics.Lookups("ok", len(descriptions))

	plan := &Plan{Switch: r.switchName, Updates: []models.InterfaceUpdate{}}
	for _, name := range names {
		description, ok := descriptions[name]
		if !ok {
			plan.Missing = append(plan.Missing, name)
			continue
		}
		plan.Updates = append(plan.Updates, models.InterfaceUpdate{
			Switch:      r.switchName,
			DeviceName:  name,
			Interface:   neighbors[name],
			Description: description,
		})
	}
	sort.Strings(plan.Missing)

	r.logger.Info("planned interface descriptions", zap.Int("updates", len(plan.Updates)), zap.Int("missing", len(plan.Missing)))
	return plan, nil
}

// Apply writes every planned description to the switch. A rejected write is
// reported and the rest are still attempted, anything else stops the run.
func (r *Runner) Apply(ctx context.Context, w io.Writer, plan *Plan) error {
	if len(plan.Missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingDescription, strings.Join(plan.Missing, ", "))
	}

	failed := 0
	for _, u := range plan.Updates {
		fmt.Fprintf(w, "configuring %s\n", u.Interface)
		err := r.configurer.ConfigureDescription(ctx, u.Interface, u.Description)
		r.record(u, err)

		var statusErr *ios.StatusError
		switch {
		case err == nil:
			r.metrics.Update("applied")
			fmt.Fprintln(w, true)
		case errors.As(err, &statusErr):
			r.metrics.Update("rejected")
			fmt.Fprintln(w, false)
			failed++
		default:
			r.metrics.Update("error")
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrApplyFailed, failed, len(plan.Updates))
	}
	return nil
}

// Run plans the switch and then either prints the configuration or applies
// it.
func (r *Runner) Run(ctx context.Context, w io.Writer, apply bool, format Format) error {
	start := time.Now()
	err := r.run(ctx, w, apply, format)

	result := "ok"
	if err != nil {
		result = "error"
	}
	r.metrics.Run(result, time.Since(start))
	return err
}

func (r *Runner) run(ctx context.Context, w io.Writer, apply bool, format Format) error {
	plan, err := r.Plan(ctx)
	if err != nil {
		return err
	}
	if apply {
		return r.Apply(ctx, w, plan)
	}
	for _, name := range plan.Missing {
		r.logger.Debug("skipping device without description", zap.String("device", name))
	}
	return Print(w, plan, format)
}

func (r *Runner) record(u models.InterfaceUpdate, err error) {
	if r.recorder == nil {
		return
	}
	rec := &models.UpdateRecord{
		Time:        time.Now().UTC().UnixMilli(),
		Switch:      r.switchName,
		DeviceName:  u.DeviceName,
		Interface:   u.Interface.String(),
		Description: u.Description,
		Applied:     err == nil,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	r.recorder.Write(rec)
}
