package orchestrator

import (
	"context"
	"errors"
	"time"

	"ai-twin-be/pkg/analytics"
	"ai-twin-be/pkg/apperror"
	"ai-twin-be/pkg/llm"
	"ai-twin-be/pkg/persona"
	"ai-twin-be/pkg/rag/response"
	"ai-twin-be/pkg/store"
)

const sessionSaveTimeout = 5 * time.Second

// Turn is a prepared turn that passed every gate and is ready to generate.
type Turn struct {
	o     *Orchestrator
	state *turnState
}

// Mood is the resolved mood the reply will be generated in.
func (t *Turn) Mood() persona.MoodConfig {
	return t.state.mood
}

// Result summarizes a completed turn.
type Result struct {
	Reply      string
	Truncated  bool
	Mood       string
	ChunksUsed int
	UsedFAQ    bool
}

type streamEvent struct {
	token string
	err   error
}

// Stream is an open generation whose first token has already arrived.
type Stream struct {
	turn   *Turn
	cancel context.CancelFunc
	events <-chan streamEvent
	done   <-chan struct{}
	first  string
}

// Start opens the generation stream and waits for the first token, so
// upstream failures surface before anything is written to the visitor.
func (t *Turn) Start(ctx context.Context) (*Stream, error) {
	o := t.o
	var (
		genCtx context.Context
		cancel context.CancelFunc
	)
	if o.opts.GenerationTimeout > 0 {
		genCtx, cancel = context.WithTimeout(ctx, o.opts.GenerationTimeout)
	} else {
		genCtx, cancel = context.WithCancel(ctx)
	}

	events := make(chan streamEvent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(events)
		err := o.deps.LLM.ChatStream(genCtx, t.state.modelMessages(), func(token string) error {
			select {
			case events <- streamEvent{token: token}:
				return nil
			case <-genCtx.Done():
				return genCtx.Err()
			}
		}, llm.WithTemperature(float64(t.state.mood.Temperature)))
		if err != nil {
			select {
			case events <- streamEvent{err: err}:
			case <-genCtx.Done():
			}
		}
	}()

	ev, open := <-events
	switch {
	case !open:
		cancel()
		<-done
		return nil, apperror.New(apperror.KindUpstreamFailure, "the language model returned an empty reply")
	case ev.err != nil:
		cancel()
		<-done
		return nil, t.classify(ev.err)
	}

	return &Stream{turn: t, cancel: cancel, events: events, done: done, first: ev.token}, nil
}

// WriteTo forwards whole sentences to write until generation ends or the word
// limit is reached, then persists the turn. A write error means the visitor
// is gone: generation is cancelled and nothing is persisted.
func (s *Stream) WriteTo(write func(string) error) (*Result, error) {
	defer func() {
		s.cancel()
		<-s.done
	}()

	t := s.turn
	limiter := response.NewSentenceLimiter(t.o.opts.LengthPolicy.HardMaxWords, write)

	feed := func(token string) (stop bool, err error) {
		if err := limiter.Write(token); err != nil {
			if errors.Is(err, response.ErrLimitReached) {
				return true, nil
			}
			return true, err
		}
		return false, nil
	}

	stop, err := feed(s.first)
	for !stop && err == nil {
		ev, open := <-s.events
		if !open {
			break
		}
		if ev.err != nil {
			return nil, t.classify(ev.err)
		}
		stop, err = feed(ev.token)
	}
	if err != nil {
		t.o.deps.Logger.Warn(module, "Client went away mid-stream, turn not persisted", map[string]interface{}{
			"session_id": t.state.req.SessionID,
			"error":      err.Error(),
		})
		return nil, err
	}
	if err := limiter.Close(); err != nil {
		return nil, err
	}

	res := &Result{
		Reply:      limiter.Text(),
		Truncated:  limiter.Truncated(),
		Mood:       t.state.mood.ID,
		ChunksUsed: t.state.outcome.ChunksUsed,
		UsedFAQ:    len(t.state.faqHits) > 0,
	}
	t.persist(res)
	return res, nil
}

// Run is Start followed by WriteTo.
func (t *Turn) Run(ctx context.Context, write func(string) error) (*Result, error) {
	s, err := t.Start(ctx)
	if err != nil {
		return nil, err
	}
	return s.WriteTo(write)
}

func (t *Turn) classify(err error) error {
	kind := apperror.KindOf(err)
	switch kind {
	case apperror.KindUpstreamRateLimit:
		msg := t.state.mood.RateLimitMessage
		if msg == "" {
			msg = "I'm getting a lot of questions right now. Please try again in a moment."
		}
		return apperror.Wrap(kind, msg, err)
	case apperror.KindInternal:
		return apperror.Wrap(apperror.KindUpstreamFailure, "failed to generate response", err)
	}
	return err
}

// persist runs only after a normally completed stream. Failures are logged,
// the reply has already been delivered.
func (t *Turn) persist(res *Result) {
	st := t.state
	o := t.o
	now := o.deps.Now()

	compliance := response.CheckMoodCompliance(res.Reply, st.mood.ID)
	if !compliance.Compliant {
		o.deps.Logger.Warn(module, "Reply drifted from mood", map[string]interface{}{
			"mood":   st.mood.ID,
			"reason": compliance.Reason,
			"score":  compliance.Score,
		})
	}

	if st.session != nil && o.deps.Sessions != nil {
		st.session.Append(
			store.Message{Role: store.RoleUser, Content: st.raw, Timestamp: now, Mood: st.mood.ID},
			store.Message{Role: store.RoleAssistant, Content: res.Reply, Timestamp: now, Mood: st.mood.ID},
		)
		st.session.Mood = st.mood.ID
		st.session.Feedback = st.prefs
		st.session.UpdatedAt = now

		// Detached from the request: the visitor may already have disconnected.
		ctx, cancel := context.WithTimeout(context.Background(), sessionSaveTimeout)
		defer cancel()
		if err := o.deps.Sessions.Save(ctx, st.session); err != nil {
			o.deps.Logger.Error(module, "Failed to save session", map[string]interface{}{
				"session_id": st.session.ID,
				"error":      err.Error(),
			})
		}
	}

	rec := analytics.Record{
		SessionID:       st.req.SessionID,
		UserQuery:       st.raw,
		AIResponse:      res.Reply,
		Mood:            st.mood.ID,
		ChunksUsed:      st.outcome.ChunksUsed,
		TopScore:        st.outcome.TopScore,
		AverageScore:    st.outcome.AverageScore,
		Categories:      st.outcome.Categories,
		UsedFAQ:         res.UsedFAQ,
		Truncated:       res.Truncated,
		ComplianceScore: compliance.Score,
		ResponseTime:    now.Sub(st.started),
		CompletedAt:     now,
	}
	if st.signal != nil && st.signal.IsProfessional {
		rec.HadFeedback = true
		rec.FeedbackType = st.signal.Type
	}
	o.deps.Analytics.Record(context.Background(), rec)
}
