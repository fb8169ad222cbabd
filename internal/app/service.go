// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the site.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tripboard/internal/adapters/repository"
	"github.com/okian/tripboard/internal/adapters/sessionstore"
	"github.com/okian/tripboard/internal/domain/feedback"
	"github.com/okian/tripboard/internal/domain/inflight"
	"github.com/okian/tripboard/internal/domain/itinerary"
	"github.com/okian/tripboard/internal/domain/model"
	"github.com/okian/tripboard/internal/domain/session"
	"github.com/okian/tripboard/pkg/logger"
	"github.com/okian/tripboard/pkg/metrics"
)

// Reset kinds used as metric labels.
const (
	resetSwitch = "switch"
	resetFull   = "reset"
)

// Service implements the feedback flow for every browser session.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	sessions sessionstore.Store
	tracker  inflight.Tracker
	locks    *keyedMutex

	// Configuration
	demo        bool
	demoLatency time.Duration
	organizer   string
	sleep       func(ctx context.Context, d time.Duration) error
	newID       func() string

	// State
	started bool
	records atomic.Pointer[[]model.FeedbackRecord]

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the feedback store. It is not used in demo mode.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithSessionStore sets where sessions live between requests.
func WithSessionStore(store sessionstore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithTracker sets the in-flight submission tracker.
func WithTracker(t inflight.Tracker) Option {
	return func(s *Service) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithDemoMode bypasses the store entirely when on. The value is fixed for
// the lifetime of the service.
func WithDemoMode(on bool) Option {
	return func(s *Service) {
		s.demo = on
	}
}

// WithDemoLatency sets the simulated submission delay used in demo mode.
func WithDemoLatency(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.demoLatency = d
		}
	}
}

// WithOrganizer sets the name shown as the reader of private feedback.
func WithOrganizer(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.organizer = name
		}
	}
}

// WithSleeper replaces the demo-mode delay function.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		demoLatency: time.Second,
		organizer:   "Doug",
		sleep:       sleepCtx,
		newID:       uuid.NewString,
		locks:       newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	empty := []model.FeedbackRecord{}
	s.records.Store(&empty)
	return s
}

// Start fills in missing components and performs the initial read.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if !s.demo && s.store == nil {
		return ErrNoStore
	}
	if s.sessions == nil {
		s.sessions = sessionstore.NewMemoryStore()
	}
	if s.tracker == nil {
		s.tracker = inflight.NewInMemoryTracker()
	}

	s.logger.Info(ctx, "starting feedback service...", logger.Bool("demo", s.demo))
	s.LoadExisting(ctx)
	s.started = true
	s.logger.Info(ctx, "feedback service started",
		logger.Int("records", len(s.Records())),
		logger.Duration("demoLatency", s.demoLatency),
	)
	return nil
}

// Stop closes the store and the session store.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping feedback service...")
	if s.store != nil {
		if err := s.store.Close(ctx); err != nil {
			s.logger.Warn(ctx, "closing feedback store", logger.Error(err))
		}
	}
	if err := s.sessions.Close(); err != nil {
		s.logger.Warn(ctx, "closing session store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "feedback service stopped")
}

// DemoMode reports whether submissions are simulated.
func (s *Service) DemoMode() bool { return s.demo }

// Organizer returns the name of the person who reads private feedback.
func (s *Service) Organizer() string { return s.organizer }

// LoadExisting re-reads every record into the shared snapshot. In demo mode
// it does nothing. A failed read is logged and the previous snapshot kept,
// which is empty until a read succeeds.
func (s *Service) LoadExisting(ctx context.Context) []model.FeedbackRecord {
	if s.demo {
		return s.Records()
	}
	recs, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "error loading feedback", logger.Error(err))
		return s.Records()
	}
	if recs == nil {
		recs = []model.FeedbackRecord{}
	}
	s.records.Store(&recs)
	metrics.UpdateRecordsInSnapshot(len(recs))
	return recs
}

// Records returns the latest snapshot, newest first. Callers must not
// modify it.
func (s *Service) Records() []model.FeedbackRecord {
	return *s.records.Load()
}

// Feedback projects the snapshot onto one section.
func (s *Service) Feedback(sectionID string) ([]feedback.SectionView, error) {
	if !itinerary.IsKnown(sectionID) {
		return nil, fmt.Errorf("%w: %q", feedback.ErrUnknownSection, sectionID)
	}
	return feedback.Project(s.Records(), sectionID), nil
}

// AllFeedback projects the snapshot onto every section that has feedback.
func (s *Service) AllFeedback() map[string][]feedback.SectionView {
	return feedback.ProjectAll(s.Records(), itinerary.IDs())
}

// Open returns the session for id, or a fresh one when id is empty or
// unknown. A fresh session triggers a read of the store and comes back on
// identity selection. Callers should hand the returned ID to the browser.
func (s *Service) Open(ctx context.Context, id string) (*session.Session, error) {
	if id != "" {
		sess, err := s.sessions.Get(ctx, id)
		if err == nil {
			s.unstick(ctx, sess)
			return sess, nil
		}
		if !errors.Is(err, sessionstore.ErrNotFound) {
			return nil, fmt.Errorf("open session: %w", err)
		}
	}

	sess := session.New(s.newID())
	s.LoadExisting(ctx)
	if err := sess.Loaded(); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.RefreshActiveSessions(ctx)
	return sess, nil
}

// Session returns the stored session for id.
func (s *Service) Session(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.unstick(ctx, sess)
	return sess, nil
}

// unstick clears a Submitting flag that no running submission owns. The flag
// is left behind when the outcome of a submission could not be saved.
func (s *Service) unstick(ctx context.Context, sess *session.Session) {
	if !sess.Submitting || s.tracker.Held(ctx, sess.ID) {
		return
	}
	s.logger.Warn(ctx, "clearing stale submission", logger.String("session", sess.ID))
	sess.AbandonSubmit()
}

// StartSession resolves the identity and opens the form.
func (s *Service) StartSession(ctx context.Context, id, selection, custom string) (*session.Session, error) {
	sess, err := s.mutate(ctx, id, func(sess *session.Session) error {
		return sess.Start(selection, custom)
	})
	if err == nil {
		metrics.RecordIdentityStart()
	}
	return sess, err
}

// UpdateSection writes one feedback field for one section.
func (s *Service) UpdateSection(ctx context.Context, id, sectionID string, field feedback.Field, value string) (*session.Session, error) {
	return s.mutate(ctx, id, func(sess *session.Session) error {
		return sess.SetSection(sectionID, field, value)
	})
}

// UpdateDetail writes one lodging, dietary or private field.
func (s *Service) UpdateDetail(ctx context.Context, id string, field session.DetailField, value string) (*session.Session, error) {
	return s.mutate(ctx, id, func(sess *session.Session) error {
		return sess.SetDetail(field, value)
	})
}

// ApplyForm folds a whole-form post into the session.
func (s *Service) ApplyForm(ctx context.Context, id string, in session.FormInput) (*session.Session, error) {
	return s.mutate(ctx, id, func(sess *session.Session) error {
		return sess.ApplyForm(in)
	})
}

// SwitchPerson discards the form and returns to identity selection.
func (s *Service) SwitchPerson(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.mutate(ctx, id, (*session.Session).SwitchPerson)
	if err == nil {
		metrics.RecordReset(resetSwitch)
	}
	return sess, err
}

// Reset clears the session after a submission.
func (s *Service) Reset(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.mutate(ctx, id, (*session.Session).Reset)
	if err == nil {
		metrics.RecordReset(resetFull)
	}
	return sess, err
}

// Submit stores the session's feedback as one new record.
//
// The session lock is held only while the submission begins and ends, not
// during the store call. A second Submit for the same session while one is
// running fails with ErrSubmitInFlight. On a write failure the session stays
// on the form with a notice and the returned error wraps repository.ErrWrite.
func (s *Service) Submit(ctx context.Context, id string) (*session.Session, error) {
	if !s.tracker.Acquire(ctx, id) {
		metrics.RecordSubmission(metrics.SubmissionRejected)
		return nil, ErrSubmitInFlight
	}
	defer s.tracker.Release(ctx, id)

	var rec model.FeedbackRecord
	sess, err := s.mutate(ctx, id, func(sess *session.Session) error {
		// This call holds the tracker, so any earlier flag is stale.
		if sess.Submitting {
			s.logger.Warn(ctx, "clearing stale submission", logger.String("session", id))
			sess.AbandonSubmit()
		}
		if err := sess.BeginSubmit(); err != nil {
			return err
		}
		rec = sess.Record()
		return nil
	})
	if err != nil {
		return sess, err
	}

	writeErr := s.persist(ctx, rec)

	// The outcome must be recorded even if the caller went away.
	sess, err = s.mutate(context.WithoutCancel(ctx), id, func(sess *session.Session) error {
		return sess.FinishSubmit(writeErr)
	})
	if err != nil {
		return sess, err
	}
	return sess, writeErr
}

func (s *Service) persist(ctx context.Context, rec model.FeedbackRecord) error {
	if s.demo {
		s.logger.Info(ctx, "demo mode - would submit",
			logger.String("person", rec.PersonName),
			logger.Int("sections", len(rec.SectionFeedback)),
		)
		s.logger.Debug(ctx, "demo submission", logger.Any("record", rec))
		if err := s.sleep(ctx, s.demoLatency); err != nil {
			metrics.RecordSubmission(metrics.SubmissionFailed)
			return fmt.Errorf("%w: %w", repository.ErrWrite, err)
		}
		metrics.RecordSubmission(metrics.SubmissionDemo)
		return nil
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		if !errors.Is(err, repository.ErrWrite) {
			err = fmt.Errorf("%w: %w", repository.ErrWrite, err)
		}
		s.logger.Error(ctx, "error submitting", logger.String("person", rec.PersonName), logger.Error(err))
		metrics.RecordSubmission(metrics.SubmissionFailed)
		return err
	}
	metrics.RecordSubmission(metrics.SubmissionStored)
	s.LoadExisting(ctx)
	return nil
}

// mutate loads the session under its lock, applies fn and saves the result.
// The session is saved even when fn fails, since fn may have recorded input
// (e.g. a rejected identity selection). fn's error is returned alongside.
func (s *Service) mutate(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	fnErr := fn(sess)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, fnErr
}

// RefreshActiveSessions updates the active session gauge from the session
// store.
func (s *Service) RefreshActiveSessions(ctx context.Context) {
	n, err := s.sessions.Count(ctx)
	if err != nil {
		s.logger.Warn(ctx, "counting sessions", logger.Error(err))
		return
	}
	metrics.UpdateActiveSessions(n)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
