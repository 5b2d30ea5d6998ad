// Package engine orchestrates one subject's calibration: resolve the
// required layers, evaluate each, fuse the scores, and build the
// certificate. Calibration is a pure function of (subject, evidence,
// loaded configuration); the engine holds no mutable state, so any
// number of subjects may be calibrated concurrently against one shared
// read-only Config.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pthm/calgate/internal/certificate"
	"github.com/pthm/calgate/internal/config"
	"github.com/pthm/calgate/internal/decision"
	"github.com/pthm/calgate/internal/evidence"
	"github.com/pthm/calgate/internal/fusion"
	"github.com/pthm/calgate/internal/layers"
	"github.com/pthm/calgate/internal/registry"
)

// SkipError signals the subject must be skipped, not scored: the
// registry excludes its method from calibration.
type SkipError struct {
	MethodID string
	Status   registry.Status
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("method %s skipped: registry status %q", e.MethodID, e.Status)
}

// Engine evaluates subjects against one loaded configuration.
type Engine struct {
	cfg              *config.Config
	now              func() time.Time
	validatorVersion string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the timestamp source, letting tests pin it.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithValidatorVersion stamps certificates with the running version.
func WithValidatorVersion(v string) Option {
	return func(e *Engine) { e.validatorVersion = v }
}

// New creates an engine over a validated configuration.
func New(cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:              cfg,
		now:              time.Now,
		validatorVersion: "dev",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config exposes the engine's loaded configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Calibrate runs the full pipeline for one subject and returns its
// certificate. An excluded method yields a SkipError; missing evidence
// yields an evidence.MissingFieldError; configuration-class failures
// yield a layers.ConfigError.
func (e *Engine) Calibrate(ctx context.Context, sub layers.Subject, bundle *evidence.Bundle) (*certificate.Certificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	method, ok := e.cfg.MethodSpec(sub.MethodID)
	if !ok {
		return nil, fmt.Errorf("method %s is not declared in the calibration config", sub.MethodID)
	}
	if sub.Role == "" {
		sub.Role = method.Role
	}
	if sub.Role != method.Role {
		return nil, fmt.Errorf("subject role %s does not match declared role %s for method %s",
			sub.Role, method.Role, sub.MethodID)
	}

	entry := e.cfg.Registry.Get(sub.MethodID)
	if entry.Status == registry.StatusExcluded {
		return nil, &SkipError{MethodID: sub.MethodID, Status: entry.Status}
	}

	active := e.cfg.ActiveLayers(method)
	inputs := layers.Inputs{
		Rubric:   e.cfg.Rubric,
		Entry:    entry,
		Compat:   method.Compat,
		Evidence: bundle,
	}

	scores := make(map[layers.Layer]layers.Score, len(active))
	for _, l := range active {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := layers.Evaluate(l, sub, inputs)
		if err != nil {
			return nil, err
		}
		scores[l] = score
	}

	fcfg, ok := e.cfg.Fusion[sub.Role]
	if !ok {
		return nil, layers.Configf("role %s has no fusion configuration", sub.Role)
	}
	fused, err := fusion.Fuse(scores, fcfg)
	if err != nil {
		return nil, err
	}

	var interplay *evidence.InterplayGroup
	if bundle != nil && bundle.Congruence != nil {
		interplay = bundle.Congruence.Interplay
	}

	return certificate.Build(certificate.BuildInput{
		Subject:          sub,
		Node:             sub.MethodID,
		Scores:           scores,
		Fusion:           fused,
		FusionConfig:     fcfg,
		Required:         active,
		ConfigVersion:    e.cfg.Version,
		ConfigHash:       e.cfg.Hash,
		ValidatorVersion: e.validatorVersion,
		Interplay:        interplay,
		Now:              e.now(),
	})
}

// Validate calibrates a subject and turns the certificate into a gate
// decision. Skips and evidence failures become decisions; config
// errors propagate and abort the run.
func (e *Engine) Validate(ctx context.Context, sub layers.Subject, bundle *evidence.Bundle) (decision.Result, error) {
	cert, err := e.Calibrate(ctx, sub, bundle)
	if err != nil {
		return e.decideFromError(sub, err)
	}

	threshold := e.cfg.Thresholds.ForRole(sub.Role)
	opts := decision.Options{
		ConditionalBand:  e.cfg.Thresholds.ConditionalBand,
		AttributionFloor: e.cfg.Thresholds.AttributionFloor,
	}
	return decision.Decide(cert, threshold, opts), nil
}

// decideFromError maps calibration failures to their decision
// semantics: exclusion skips, missing evidence fails closed, and
// everything else (config errors included) aborts.
func (e *Engine) decideFromError(sub layers.Subject, err error) (decision.Result, error) {
	var skip *SkipError
	if errors.As(err, &skip) {
		return decision.Skip(sub.MethodID, string(skip.Status),
			"method is excluded from calibration by the intrinsic registry"), nil
	}

	var missing *evidence.MissingFieldError
	if errors.As(err, &missing) {
		res := decision.Result{
			MethodID:      sub.MethodID,
			Decision:      decision.Fail,
			Score:         0,
			Threshold:     e.cfg.Thresholds.ForRole(sub.Role),
			FailureReason: reasonForLayerTag(missing.Layer),
			FailureDetail: err.Error(),
			Recommendations: []string{
				fmt.Sprintf("supply the %q evidence field for layer %s and recalibrate", missing.Field, missing.Layer),
			},
		}
		return res, nil
	}

	return decision.Result{}, err
}

func reasonForLayerTag(tag string) decision.FailureReason {
	l, err := layers.Parse(tag)
	if err != nil {
		return decision.ScoreBelowThreshold
	}
	switch {
	case l == layers.Base:
		return decision.BaseLayerLow
	case l == layers.Chain:
		return decision.ChainLayerFail
	case l == layers.Unit:
		return decision.UnitLayerFail
	case l == layers.Congruence:
		return decision.CongruenceFail
	case l.Contextual():
		return decision.ContextualFail
	case l == layers.Meta:
		return decision.MetaLayerFail
	default:
		return decision.ScoreBelowThreshold
	}
}
