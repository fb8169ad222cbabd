package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/tripboard/internal/adapters/repository"
	"github.com/okian/tripboard/internal/adapters/sessionstore"
	service "github.com/okian/tripboard/internal/app"
	"github.com/okian/tripboard/internal/domain/feedback"
	"github.com/okian/tripboard/internal/domain/model"
	"github.com/okian/tripboard/internal/domain/session"
	"github.com/okian/tripboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// countingStore records calls and can be told to fail.
type countingStore struct {
	mu        sync.Mutex
	records   []model.FeedbackRecord
	lists     atomic.Int64
	inserts   atomic.Int64
	failList  error
	failWrite error
	block     chan struct{}
}

func (c *countingStore) ListAll(context.Context) ([]model.FeedbackRecord, error) {
	c.lists.Add(1)
	if c.failList != nil {
		return nil, c.failList
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.FeedbackRecord, len(c.records))
	for i, r := range c.records {
		out[len(c.records)-1-i] = r
	}
	return out, nil
}

func (c *countingStore) Insert(_ context.Context, rec model.FeedbackRecord) error {
	c.inserts.Add(1)
	if c.block != nil {
		<-c.block
	}
	if c.failWrite != nil {
		return c.failWrite
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
	return nil
}

func (c *countingStore) Close(context.Context) error { return nil }

// flakySessions fails the next save of a session that reached success.
type flakySessions struct {
	*sessionstore.MemoryStore
	failSuccess atomic.Bool
}

func (f *flakySessions) Save(ctx context.Context, sess *session.Session) error {
	if sess.State == session.StateSuccess && f.failSuccess.CompareAndSwap(true, false) {
		return errors.New("connection reset")
	}
	return f.MemoryStore.Save(ctx, sess)
}

func noSleep(context.Context, time.Duration) error { return nil }

func startService(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{service.WithLogger(logger.Nop())}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func sentimentOf(s model.Sentiment) *model.Sentiment { return &s }

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.DemoMode(), ShouldBeFalse)
			So(svc.Organizer(), ShouldEqual, "Doug")
			So(svc.Records(), ShouldBeEmpty)
		})
	})

	Convey("Given a service without a store outside demo mode", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()))

		Convey("Then starting it fails", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoStore), ShouldBeTrue)
		})
	})
}

func TestService_Open(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		store := &countingStore{}
		svc := startService(service.WithStore(store))
		defer svc.Stop(ctx)
		listsAfterStart := store.lists.Load()

		Convey("When opening without an id", func() {
			sess, err := svc.Open(ctx, "")

			Convey("Then a fresh session is on identity selection", func() {
				So(err, ShouldBeNil)
				So(sess.ID, ShouldNotBeEmpty)
				So(sess.State, ShouldEqual, session.StateIdentity)
				So(store.lists.Load(), ShouldEqual, listsAfterStart+1)
			})

			Convey("And opening again with that id", func() {
				again, err := svc.Open(ctx, sess.ID)

				Convey("Then the same session comes back without a read", func() {
					So(err, ShouldBeNil)
					So(again.ID, ShouldEqual, sess.ID)
					So(store.lists.Load(), ShouldEqual, listsAfterStart+1)
				})
			})
		})

		Convey("When opening with an unknown id", func() {
			sess, err := svc.Open(ctx, "expired")

			Convey("Then a new session is created", func() {
				So(err, ShouldBeNil)
				So(sess.ID, ShouldNotEqual, "expired")
			})
		})

		Convey("When reading a session that does not exist", func() {
			_, err := svc.Session(ctx, "missing")
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)

			_, err = svc.UpdateSection(ctx, "missing", "food", feedback.FieldComment, "x")
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
		})
	})
}

func TestService_LoadExisting(t *testing.T) {
	Convey("Given a store whose initial read fails", t, func() {
		ctx := context.Background()
		store := &countingStore{failList: repository.ErrRead}
		svc := startService(service.WithStore(store))

		Convey("Then the service starts with an empty snapshot", func() {
			So(svc.Records(), ShouldBeEmpty)
		})

		Convey("Then a new session still reaches identity selection", func() {
			sess, err := svc.Open(ctx, "")
			So(err, ShouldBeNil)
			So(sess.State, ShouldEqual, session.StateIdentity)
		})
	})

	Convey("Given a demo-mode service", t, func() {
		store := &countingStore{}
		svc := startService(service.WithDemoMode(true), service.WithStore(store))

		Convey("Then the store is never read", func() {
			_, err := svc.Open(context.Background(), "")
			So(err, ShouldBeNil)
			So(store.lists.Load(), ShouldEqual, 0)
		})
	})
}

func TestService_Feedback(t *testing.T) {
	Convey("Given a store with two prior food records", t, func() {
		store := &countingStore{records: []model.FeedbackRecord{
			{PersonName: "Valerie", SectionFeedback: []model.SectionFeedback{{SectionID: "food"}}},
			{PersonName: "Ronit", SectionFeedback: []model.SectionFeedback{
				{SectionID: "food", Sentiment: sentimentOf(model.SentimentConcern), Comment: model.Text("nuts allergy")},
			}},
		}}
		svc := startService(service.WithStore(store))

		Convey("When projecting food", func() {
			views, err := svc.Feedback("food")

			Convey("Then exactly the record with content is returned", func() {
				So(err, ShouldBeNil)
				So(views, ShouldResemble, []feedback.SectionView{
					{Name: "Ronit", Sentiment: model.SentimentConcern, Comment: "nuts allergy"},
				})
				So(svc.AllFeedback(), ShouldContainKey, "food")
			})
		})

		Convey("When projecting an unknown section", func() {
			_, err := svc.Feedback("tuesday")
			So(errors.Is(err, feedback.ErrUnknownSection), ShouldBeTrue)
		})
	})
}

func TestService_Submit(t *testing.T) {
	Convey("Given a service backed by a store", t, func() {
		ctx := context.Background()
		store := &countingStore{}
		svc := startService(service.WithStore(store))

		sess, err := svc.Open(ctx, "")
		So(err, ShouldBeNil)
		id := sess.ID

		Convey("When Valerie approves the overview and picks the house", func() {
			_, err := svc.StartSession(ctx, id, "Valerie", "")
			So(err, ShouldBeNil)
			_, err = svc.UpdateSection(ctx, id, "overview", feedback.FieldSentiment, "ok")
			So(err, ShouldBeNil)
			_, err = svc.UpdateDetail(ctx, id, session.DetailLodgingPreference, "house")
			So(err, ShouldBeNil)

			sess, err := svc.Submit(ctx, id)

			Convey("Then exactly one record is inserted with only what she entered", func() {
				So(err, ShouldBeNil)
				So(sess.State, ShouldEqual, session.StateSuccess)
				So(store.inserts.Load(), ShouldEqual, 1)

				rec := store.records[0]
				So(rec.PersonName, ShouldEqual, "Valerie")
				So(rec.SectionFeedback, ShouldHaveLength, 1)
				So(rec.SectionFeedback[0].SectionID, ShouldEqual, "overview")
				So(*rec.SectionFeedback[0].Sentiment, ShouldEqual, model.SentimentOK)
				So(rec.SectionFeedback[0].Comment, ShouldBeNil)
				So(*rec.LodgingPreference, ShouldEqual, model.LodgingHouse)
				So(rec.PrivateBudget, ShouldBeNil)
				So(rec.PrivatePace, ShouldBeNil)
				So(rec.PrivateKids, ShouldBeNil)
				So(rec.PrivateOther, ShouldBeNil)
			})

			Convey("Then the snapshot is re-read and includes the new record", func() {
				So(svc.Records(), ShouldHaveLength, 1)
				views, _ := svc.Feedback("overview")
				So(views, ShouldHaveLength, 1)
				So(views[0].Name, ShouldEqual, "Valerie")
			})
		})

		Convey("When submitting before choosing an identity", func() {
			_, err := svc.Submit(ctx, id)

			Convey("Then the transition is refused and nothing is inserted", func() {
				So(errors.Is(err, session.ErrInvalidTransition), ShouldBeTrue)
				So(store.inserts.Load(), ShouldEqual, 0)
			})
		})
	})
}

func TestService_SubmitFailure(t *testing.T) {
	Convey("Given a store whose insert fails", t, func() {
		ctx := context.Background()
		store := &countingStore{failWrite: errors.New("connection refused")}
		svc := startService(service.WithStore(store))

		sess, _ := svc.Open(ctx, "")
		id := sess.ID
		_, _ = svc.StartSession(ctx, id, "Ronit", "")
		_, _ = svc.UpdateSection(ctx, id, "food", feedback.FieldComment, "nuts allergy")
		_, _ = svc.UpdateDetail(ctx, id, session.DetailPrivateBudget, "tight this year")
		before, _ := svc.Session(ctx, id)

		Convey("When submitting", func() {
			after, err := svc.Submit(ctx, id)

			Convey("Then a write error is returned and the form is kept", func() {
				So(errors.Is(err, repository.ErrWrite), ShouldBeTrue)
				So(after.State, ShouldEqual, session.StateForm)
				So(after.Submitting, ShouldBeFalse)
				So(after.Notice, ShouldEqual, session.FailureNotice)
				So(after.Details, ShouldResemble, before.Details)
				So(after.Draft, ShouldResemble, before.Draft)
				So(after.UserName, ShouldEqual, "Ronit")
			})

			Convey("Then a retry is possible", func() {
				store.failWrite = nil
				again, err := svc.Submit(ctx, id)
				So(err, ShouldBeNil)
				So(again.State, ShouldEqual, session.StateSuccess)
				So(store.inserts.Load(), ShouldEqual, 2)
			})
		})
	})
}

func TestService_DemoSubmit(t *testing.T) {
	Convey("Given a demo-mode service", t, func() {
		ctx := context.Background()
		store := &countingStore{}
		var slept []time.Duration
		svc := startService(
			service.WithDemoMode(true),
			service.WithStore(store),
			service.WithDemoLatency(1500*time.Millisecond),
			service.WithSleeper(func(_ context.Context, d time.Duration) error {
				slept = append(slept, d)
				return nil
			}),
		)

		sess, _ := svc.Open(ctx, "")
		_, _ = svc.StartSession(ctx, sess.ID, "Tal & Doug & Fam", "")

		Convey("When submitting", func() {
			done, err := svc.Submit(ctx, sess.ID)

			Convey("Then it succeeds after the delay without touching the store", func() {
				So(err, ShouldBeNil)
				So(done.State, ShouldEqual, session.StateSuccess)
				So(slept, ShouldResemble, []time.Duration{1500 * time.Millisecond})
				So(store.inserts.Load(), ShouldEqual, 0)
				So(store.lists.Load(), ShouldEqual, 0)
			})
		})

		Convey("When the caller gives up during the delay", func() {
			cancelled := startService(service.WithDemoMode(true), service.WithDemoLatency(time.Hour))
			s, _ := cancelled.Open(ctx, "")
			_, _ = cancelled.StartSession(ctx, s.ID, "Ronit", "")

			cctx, cancel := context.WithCancel(ctx)
			cancel()
			after, err := cancelled.Submit(cctx, s.ID)

			Convey("Then the session returns to the form with a notice", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(after.State, ShouldEqual, session.StateForm)
				So(after.Submitting, ShouldBeFalse)
				So(after.Notice, ShouldEqual, session.FailureNotice)
			})
		})
	})
}

func TestService_SubmitInFlight(t *testing.T) {
	Convey("Given a submission blocked inside the store", t, func() {
		ctx := context.Background()
		store := &countingStore{block: make(chan struct{})}
		svc := startService(service.WithStore(store))

		sess, _ := svc.Open(ctx, "")
		_, _ = svc.StartSession(ctx, sess.ID, "Valerie", "")

		firstDone := make(chan error, 1)
		go func() {
			_, err := svc.Submit(ctx, sess.ID)
			firstDone <- err
		}()
		for store.inserts.Load() == 0 {
			time.Sleep(time.Millisecond)
		}

		Convey("When the same session submits again", func() {
			_, err := svc.Submit(ctx, sess.ID)

			Convey("Then it is rejected and the first one still completes", func() {
				So(errors.Is(err, service.ErrSubmitInFlight), ShouldBeTrue)

				current, _ := svc.Session(ctx, sess.ID)
				So(current.Submitting, ShouldBeTrue)

				close(store.block)
				So(<-firstDone, ShouldBeNil)
				So(store.inserts.Load(), ShouldEqual, 1)

				final, _ := svc.Session(ctx, sess.ID)
				So(final.State, ShouldEqual, session.StateSuccess)
			})
		})

		Convey("When the session tries to switch person meanwhile", func() {
			_, err := svc.SwitchPerson(ctx, sess.ID)

			Convey("Then it is refused", func() {
				So(errors.Is(err, session.ErrInvalidTransition), ShouldBeTrue)
				close(store.block)
				So(<-firstDone, ShouldBeNil)
			})
		})
	})
}

func TestService_SubmitOutcomeNotSaved(t *testing.T) {
	Convey("Given a session store that drops the save after a stored submission", t, func() {
		ctx := context.Background()
		store := &countingStore{}
		sessions := &flakySessions{MemoryStore: sessionstore.NewMemoryStore()}
		svc := startService(service.WithStore(store), service.WithSessionStore(sessions))

		sess, _ := svc.Open(ctx, "")
		_, _ = svc.StartSession(ctx, sess.ID, "Valerie", "")
		_, _ = svc.UpdateSection(ctx, sess.ID, "food", feedback.FieldSentiment, "ok")
		sessions.failSuccess.Store(true)

		_, err := svc.Submit(ctx, sess.ID)
		So(err, ShouldNotBeNil)
		So(store.inserts.Load(), ShouldEqual, 1)

		Convey("When the session is read back", func() {
			current, err := svc.Session(ctx, sess.ID)

			Convey("Then it is no longer marked as submitting and keeps its inputs", func() {
				So(err, ShouldBeNil)
				So(current.State, ShouldEqual, session.StateForm)
				So(current.Submitting, ShouldBeFalse)
				entry, ok := current.Draft.Get("food")
				So(ok, ShouldBeTrue)
				So(entry.Sentiment, ShouldEqual, "ok")
			})
		})

		Convey("When the person switches", func() {
			after, err := svc.SwitchPerson(ctx, sess.ID)

			Convey("Then the switch goes through", func() {
				So(err, ShouldBeNil)
				So(after.State, ShouldEqual, session.StateIdentity)
			})
		})

		Convey("When the form is reset", func() {
			after, err := svc.Reset(ctx, sess.ID)

			Convey("Then the reset goes through", func() {
				So(err, ShouldBeNil)
				So(after.State, ShouldEqual, session.StateIdentity)
			})
		})

		Convey("When the person submits again", func() {
			after, err := svc.Submit(ctx, sess.ID)

			Convey("Then a second record is stored and success follows", func() {
				So(err, ShouldBeNil)
				So(after.State, ShouldEqual, session.StateSuccess)
				So(store.inserts.Load(), ShouldEqual, 2)
			})
		})
	})
}

func TestService_Reset(t *testing.T) {
	Convey("Given a session that submitted", t, func() {
		ctx := context.Background()
		svc := startService(service.WithDemoMode(true), service.WithSleeper(noSleep))

		sess, _ := svc.Open(ctx, "")
		initial := *sess
		_, _ = svc.StartSession(ctx, sess.ID, "other", "Cousin Sam")
		_, _ = svc.UpdateSection(ctx, sess.ID, "lodging", feedback.FieldComment, "need a crib")
		_, _ = svc.UpdateDetail(ctx, sess.ID, session.DetailPrivateOther, "surprise party")
		_, err := svc.Submit(ctx, sess.ID)
		So(err, ShouldBeNil)

		Convey("When it is reset", func() {
			after, err := svc.Reset(ctx, sess.ID)

			Convey("Then it equals the fresh session", func() {
				So(err, ShouldBeNil)
				So(*after, ShouldResemble, initial)
			})
		})
	})
}
