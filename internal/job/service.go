package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/maauso/recut/internal/edit"
	"github.com/maauso/recut/internal/export"
)

// Static errors for render jobs.
var (
	// ErrOutputLocked is returned when another render holds the output path.
	ErrOutputLocked = errors.New("output is locked by another render")
	// ErrInvalidRequest is returned when a request is missing a path or analysis.
	ErrInvalidRequest = errors.New("invalid render request")
)

// DefaultMaxConcurrent is the number of renders run at once unless
// configured otherwise.
const DefaultMaxConcurrent = 2

// Renderer edits one file. *edit.Editor implements it.
type Renderer interface {
	Edit(ctx context.Context, inputPath string, analysis *edit.AnalysisResult, outputPath string) (*edit.EditReport, error)
}

// ReportExporter writes report files. *export.Exporter implements it.
type ReportExporter interface {
	Export(ctx context.Context, report *export.Report, targets []export.Target) error
}

var (
	_ Renderer       = (*edit.Editor)(nil)
	_ ReportExporter = (*export.Exporter)(nil)
)

// Request describes one render.
type Request struct {
	InputPath  string
	OutputPath string
	Analysis   *edit.AnalysisResult
	Exports    []export.Target
}

func (r Request) validate() error {
	switch {
	case r.InputPath == "":
		return fmt.Errorf("%w: input path is required", ErrInvalidRequest)
	case r.OutputPath == "":
		return fmt.Errorf("%w: output path is required", ErrInvalidRequest)
	case r.Analysis == nil:
		return fmt.Errorf("%w: analysis is required", ErrInvalidRequest)
	}
	return nil
}

// RenderService runs renders with bounded concurrency and at most one
// writer per output path.
type RenderService struct {
	repo     Repository
	renderer Renderer
	exporter ReportExporter
	logger   *slog.Logger

	sem chan struct{}
	wg  sync.WaitGroup
}

// ServiceOption is a function that configures a RenderService.
type ServiceOption func(*RenderService)

// WithMaxConcurrent sets how many renders may run at once. Values below 1
// are ignored.
func WithMaxConcurrent(n int) ServiceOption {
	return func(s *RenderService) {
		if n > 0 {
			s.sem = make(chan struct{}, n)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *RenderService) {
		s.logger = l
	}
}

// NewRenderService creates a RenderService. exporter may be nil when no
// request asks for exports.
func NewRenderService(repo Repository, renderer Renderer, exporter ReportExporter, opts ...ServiceOption) *RenderService {
	s := &RenderService{
		repo:     repo,
		renderer: renderer,
		exporter: exporter,
		sem:      make(chan struct{}, DefaultMaxConcurrent),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// MaxConcurrent returns the render slot count.
func (s *RenderService) MaxConcurrent() int {
	return cap(s.sem)
}

// Submit persists a queued job and renders it in the background. If ctx
// is cancelled before a render slot frees up the job is cancelled; once
// the render has started it runs to completion.
func (s *RenderService) Submit(ctx context.Context, req Request) (*Job, error) {
	job, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.run(ctx, job, req)
	}()

	return job.Clone(), nil
}

// Run renders req on the calling goroutine and returns the finished job.
// The returned error is the render failure, if any; the job records it too.
func (s *RenderService) Run(ctx context.Context, req Request) (*Job, error) {
	job, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	runErr := s.run(ctx, job, req)
	return job.Clone(), runErr
}

// Wait blocks until every submitted job has finished.
func (s *RenderService) Wait() {
	s.wg.Wait()
}

// GetJob retrieves a job by ID.
func (s *RenderService) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.FindByID(ctx, id)
}

// ListJobs returns every job, oldest first.
func (s *RenderService) ListJobs(ctx context.Context) ([]*Job, error) {
	return s.repo.List(ctx)
}

func (s *RenderService) create(ctx context.Context, req Request) (*Job, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	job := New(req.InputPath, req.OutputPath)
	paths := make([]string, 0, len(req.Exports))
	for _, t := range req.Exports {
		paths = append(paths, t.Path)
	}
	job.SetExportPaths(paths)

	s.logger.Info("render job created",
		slog.String("job_id", job.ID),
		slog.String("input", req.InputPath),
		slog.String("output", req.OutputPath),
		slog.Int("removals", len(req.Analysis.Removals)),
		slog.Int("exports", len(req.Exports)),
	)

	if err := s.repo.Save(ctx, job); err != nil {
		s.logger.Error("failed to save job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return job, nil
}

func (s *RenderService) run(ctx context.Context, job *Job, req Request) error {
	cancel := func() error {
		_ = job.Cancel()
		s.persist(job)
		s.logger.Info("render job cancelled before start", slog.String("job_id", job.ID))
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	}
	if ctx.Err() != nil {
		return cancel()
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return cancel()
	}
	defer func() { <-s.sem }()

	if err := job.Start(); err != nil {
		return err
	}
	s.persist(job)

	// A started render is not interrupted by the caller's cancellation.
	runCtx := context.WithoutCancel(ctx)

	report, err := s.render(runCtx, job, req)
	if err != nil {
		_ = job.Fail(err.Error())
		s.persist(job)
		s.logger.Error("render job failed",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	_ = job.Complete(report)
	s.persist(job)
	s.logger.Info("render job completed",
		slog.String("job_id", job.ID),
		slog.Int("edits", len(report.Edits)),
		slog.Float64("removed_seconds", report.RemovedDuration()),
	)
	return nil
}

func (s *RenderService) render(ctx context.Context, job *Job, req Request) (*edit.EditReport, error) {
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lockPath := req.OutputPath + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, req.OutputPath)
	}
	// The lock file is never removed so every render locks the same inode.
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release output lock",
				slog.String("job_id", job.ID),
				slog.String("error", err.Error()),
			)
		}
	}()

	job.UpdateProgress(10)
	s.persist(job)

	report, err := s.renderer.Edit(ctx, req.InputPath, req.Analysis, req.OutputPath)
	if err != nil {
		return nil, err
	}

	if len(req.Exports) > 0 {
		job.UpdateProgress(80)
		s.persist(job)

		if s.exporter == nil {
			return nil, errors.New("exports requested but no exporter configured")
		}
		if err := s.exporter.Export(ctx, report, req.Exports); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (s *RenderService) persist(job *Job) {
	if err := s.repo.Save(context.Background(), job); err != nil {
		s.logger.Error("failed to save job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
	}
}
