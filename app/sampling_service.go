package app

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"hypersample/domain/core"
	"hypersample/domain/sample"
	"hypersample/domain/space"
	"hypersample/internal"
	"hypersample/internal/errors"
	"hypersample/internal/render"
	"hypersample/internal/sampler"
	"hypersample/ports"
)

// SamplingService draws hyperparameter samples and renders them as commands
type SamplingService struct {
	rngPort     ports.RNGPort
	renderer    *render.Renderer
	logger      *internal.Logger
	maxAttempts int
}

// SamplingRequest defines the inputs for one sampling run
type SamplingRequest struct {
	Space *space.Space
	// Name tags every rendered command (--img_prefix)
	Name string
	// Count of samples; zero requests the full capacity of the space
	Count         int
	Discriminator string
	Seed          int64
	RunID         core.RunID // optional tag, generated if empty; does not affect the draws
}

// SamplingResult contains the samples and their rendered commands
type SamplingResult struct {
	RunID       core.RunID
	Capacity    int
	Samples     []*sample.Sample
	Commands    []string
	Fingerprint core.Hash
	RuntimeMs   int64
}

// NewSamplingService creates a sampling service
func NewSamplingService(rngPort ports.RNGPort, renderer *render.Renderer, logger *internal.Logger) *SamplingService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SamplingService{
		rngPort:     rngPort,
		renderer:    renderer,
		logger:      logger,
		maxAttempts: sampler.DefaultMaxAttempts,
	}
}

// SetMaxAttempts bounds consecutive duplicate draws per sample
func (s *SamplingService) SetMaxAttempts(n int) {
	s.maxAttempts = n
}

// Run samples the requested space and renders one command per sample
func (s *SamplingService) Run(ctx context.Context, req SamplingRequest) (*SamplingResult, error) {
	startTime := time.Now()

	if req.Space == nil {
		return nil, errors.InvalidInput("parameter space is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.InvalidInput("run name is required")
	}
	if req.Count < 0 {
		return nil, errors.InvalidInput("sample count cannot be negative")
	}

	runID := req.RunID
	if runID == "" {
		runID = core.NewRunID()
	}

	capacity := req.Space.Capacity()
	count := req.Count
	if count == 0 {
		count = capacity
	}

	s.logger.Info("run %s: sampling %d of %d combinations (%s), seed=%d",
		runID, count, capacity, req.Space.CapacityBreakdown(), req.Seed)

	stream, err := s.rngPort.Stream(ctx, "sampler", req.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sampler stream")
	}

	smp := sampler.NewSampler(stream)
	smp.SetMaxAttempts(s.maxAttempts)
	smp.SetLogger(s.logger)

	samples, err := smp.Sample(req.Space, count, req.Discriminator)
	if err != nil {
		s.logger.Error("run %s: %v", runID, err)
		return nil, Classify(err)
	}

	commands := make([]string, len(samples))
	var canonical strings.Builder
	for i, smpl := range samples {
		commands[i] = s.renderer.Render(req.Name, smpl)
		canonical.WriteString(smpl.Canonical())
		canonical.WriteByte('\n')
	}

	result := &SamplingResult{
		RunID:       runID,
		Capacity:    capacity,
		Samples:     samples,
		Commands:    commands,
		Fingerprint: core.NewHash([]byte(canonical.String())),
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}

	s.logger.Info("run %s: collected %d samples in %dms (fingerprint %s)",
		runID, len(samples), result.RuntimeMs, result.Fingerprint.Short())

	return result, nil
}

// Classify attaches an application error code to domain sampling errors
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, core.ErrCapacityExceeded):
		return errors.WithCode(errors.CodeCapacityExceeded, err)
	case stderrors.Is(err, core.ErrUnsatisfiable):
		return errors.WithCode(errors.CodeUnsatisfiable, err)
	case stderrors.Is(err, core.ErrMalformedDependency):
		return errors.WithCode(errors.CodeMalformedDependency, err)
	case stderrors.Is(err, core.ErrInvalidTargetCount), core.IsDeclarationError(err):
		return errors.WithCode(errors.CodeInvalidInput, err)
	default:
		return err
	}
}
