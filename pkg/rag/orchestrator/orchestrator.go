package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-twin-be/internal/pkg/logger"
	"ai-twin-be/pkg/analytics"
	"ai-twin-be/pkg/apperror"
	"ai-twin-be/pkg/llm"
	"ai-twin-be/pkg/persona"
	"ai-twin-be/pkg/rag/faq"
	"ai-twin-be/pkg/rag/feedback"
	"ai-twin-be/pkg/rag/preprocess"
	"ai-twin-be/pkg/rag/prompt"
	"ai-twin-be/pkg/rag/response"
	"ai-twin-be/pkg/rag/retrieval"
	"ai-twin-be/pkg/rag/validator"
	"ai-twin-be/pkg/store"

	"golang.org/x/sync/errgroup"
)

const (
	module = "ORCHESTRATOR"

	// maxRequestMessages bounds how much client-supplied history is replayed
	// to the model.
	maxRequestMessages = 10

	declineTemplate = "Sorry, I couldn't find specific information about that. Would you like me to %s?"
)

// Options are the per-deployment pipeline knobs.
type Options struct {
	Retrieval         retrieval.Options
	FAQMaxResults     int
	GenerationTimeout time.Duration
	LengthPolicy      response.LengthPolicy
}

func DefaultOptions() Options {
	return Options{
		Retrieval:         retrieval.DefaultOptions(),
		FAQMaxResults:     2,
		GenerationTimeout: 50 * time.Second,
		LengthPolicy:      response.DefaultLengthPolicy(),
	}
}

// Deps are the collaborators of one Orchestrator. Sessions and Analytics may
// be nil.
type Deps struct {
	Persona      *persona.Persona
	Preprocessor *preprocess.Preprocessor
	Detector     *feedback.Detector
	Validator    *validator.Validator
	FAQ          *faq.Matcher
	Retriever    *retrieval.Retriever
	LLM          llm.Streamer
	Sessions     store.SessionStore
	Analytics    analytics.Sink
	Logger       logger.ILogger
	// Trace receives the per-stage pipeline trace. Defaults to Logger.
	Trace logger.ILogger
	Now   func() time.Time
}

// Orchestrator runs one chat turn through the RAG pipeline.
type Orchestrator struct {
	deps Deps
	opts Options
}

func New(deps Deps, opts Options) *Orchestrator {
	if deps.Analytics == nil {
		deps.Analytics = analytics.NopSink{}
	}
	if deps.Trace == nil {
		deps.Trace = deps.Logger
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Preprocessor == nil {
		deps.Preprocessor = preprocess.NewPreprocessor()
	}
	if deps.Detector == nil {
		deps.Detector = feedback.NewDetector()
	}
	if deps.Validator == nil {
		deps.Validator = validator.NewValidator()
	}
	return &Orchestrator{deps: deps, opts: opts}
}

// Request is one inbound chat turn. The last message is the new user turn.
type Request struct {
	Messages  []store.Message
	Mood      string
	SessionID string
}

// turnState carries everything the stages learn about one turn.
type turnState struct {
	req        Request
	started    time.Time
	session    *store.Session
	history    []store.Message
	raw        string
	pre        preprocess.Result
	query      string
	signal     *feedback.Signal
	prefs      store.FeedbackPreferences
	continues  bool
	meta       bool
	validation validator.ValidationResult
	faqHits    []faq.Entry
	outcome    retrieval.Outcome
	mood       persona.MoodConfig
	system     string
}

type stage struct {
	name string
	run  func(ctx context.Context, t *turnState) StageResult
}

// Prepare runs every stage up to prompt composition. A terminal StageResult
// means the turn ends here and Turn is nil. Nothing is persisted by Prepare.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (*Turn, StageResult) {
	t := &turnState{req: req, started: o.deps.Now()}
	if n := len(req.Messages); n > 0 {
		t.raw = req.Messages[n-1].Content
	}
	o.loadSession(ctx, t)

	stages := []stage{
		{"preprocess", o.preprocess},
		{"feedback", o.checkFeedback},
		{"validate", o.validateOrBypass},
		{"retrieve", o.retrieve},
		{"compose", o.compose},
	}
	for _, st := range stages {
		res := st.run(ctx, t)
		o.deps.Trace.Debug(module, "Stage "+st.name, map[string]interface{}{
			"session_id": req.SessionID,
			"status":     res.Status.String(),
			"kind":       res.Kind,
		})
		if res.Terminal() {
			o.deps.Logger.Info(module, fmt.Sprintf("Turn ended at %s", st.name), map[string]interface{}{
				"session_id": req.SessionID,
				"status":     res.Status.String(),
				"kind":       res.Kind,
				"query":      t.query,
			})
			return nil, res
		}
	}

	return &Turn{o: o, state: t}, ok()
}

func (o *Orchestrator) loadSession(ctx context.Context, t *turnState) {
	if t.req.SessionID != "" && o.deps.Sessions != nil {
		s, err := o.deps.Sessions.Load(ctx, t.req.SessionID)
		if err != nil {
			o.deps.Logger.Warn(module, "Session load failed, continuing with a fresh session", map[string]interface{}{
				"session_id": t.req.SessionID,
				"error":      err.Error(),
			})
			s = store.NewSession(t.req.SessionID)
		}
		t.session = s
		t.history = s.Messages
		t.prefs = s.Feedback.Clone()
		return
	}

	if n := len(t.req.Messages); n > 1 {
		t.history = t.req.Messages[:n-1]
	}
}

func (o *Orchestrator) preprocess(ctx context.Context, t *turnState) StageResult {
	t.pre = o.deps.Preprocessor.Preprocess(t.raw)
	t.query = t.pre.Corrected
	if len(t.pre.Changes) > 0 {
		o.deps.Trace.Info(module, "Query corrected", map[string]interface{}{
			"original":  t.pre.Original,
			"corrected": t.pre.Corrected,
			"changes":   t.pre.Changes,
		})
	}
	return ok()
}

func (o *Orchestrator) checkFeedback(ctx context.Context, t *turnState) StageResult {
	if o.deps.Detector.IsUnprofessional(t.query) {
		return rejected(apperror.KindUnprofessional, o.deps.Detector.RejectionMessage(t.query))
	}

	t.signal = o.deps.Detector.Detect(t.query)
	if t.signal == nil {
		return ok()
	}
	if !t.signal.IsProfessional {
		o.deps.Logger.Info(module, "Ignored non-professional style request", map[string]interface{}{
			"trigger": t.signal.Trigger,
		})
		return ok()
	}

	t.prefs = feedback.Apply(t.prefs, t.signal, o.deps.Now())
	t.continues = true
	o.deps.Trace.Info(module, "Applied visitor preference", map[string]interface{}{
		"type":        t.signal.Type,
		"instruction": t.signal.Instruction,
	})
	return ok()
}

func (o *Orchestrator) validateOrBypass(ctx context.Context, t *turnState) StageResult {
	t.meta = validator.IsMetaQuery(t.query)

	// Follow-ups and preference changes skip the topic gate, never the blocklist.
	if t.continues || validator.IsContinuation(t.query, len(t.history)) {
		if o.deps.Validator.IsBlocked(t.query) {
			return rejected(apperror.KindInvalidQuery, validator.ReasonBlocked)
		}
		t.continues = true
		t.validation = validator.ValidationResult{IsValid: true, Category: validator.CategoryFollowUp, Confidence: 1.0}
		return ok()
	}

	t.validation = o.deps.Validator.Validate(t.query)
	if !t.validation.IsValid {
		return rejected(apperror.KindInvalidQuery, t.validation.Reason)
	}
	return ok()
}

func (o *Orchestrator) retrieve(ctx context.Context, t *turnState) StageResult {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t.faqHits = o.deps.FAQ.FindRelevant(t.query, o.opts.FAQMaxResults)
		return nil
	})
	g.Go(func() error {
		t.outcome = o.deps.Retriever.Search(gctx, validator.EnhanceQuery(t.query), o.opts.Retrieval)
		return nil
	})
	_ = g.Wait()

	o.deps.Trace.Info(module, "Retrieval metrics", map[string]interface{}{
		"query":         t.query,
		"chunks_used":   t.outcome.ChunksUsed,
		"top_score":     t.outcome.TopScore,
		"average_score": t.outcome.AverageScore,
		"faq_hits":      len(t.faqHits),
	})

	if t.outcome.ChunksUsed > 0 || len(t.faqHits) > 0 || t.continues || t.meta ||
		t.validation.Category == validator.CategoryGreeting {
		return ok()
	}
	suggestion := o.deps.Persona.DeclineSuggestion(t.validation.Category)
	return declined(apperror.KindInsufficientContext, fmt.Sprintf(declineTemplate, suggestion))
}

func (o *Orchestrator) compose(ctx context.Context, t *turnState) StageResult {
	moodID := t.req.Mood
	if moodID == "" && t.session != nil {
		moodID = t.session.Mood
	}
	t.mood = o.deps.Persona.Mood(moodID)

	t.system = prompt.Compose(prompt.Input{
		Mood:                t.mood,
		Persona:             o.deps.Persona,
		History:             t.history,
		FAQBlock:            faq.Block(t.faqHits),
		Retrieval:           t.outcome,
		Meta:                t.meta,
		LengthPolicy:        o.opts.LengthPolicy,
		FeedbackInstruction: feedback.BuildInstruction(t.prefs),
	})
	return ok()
}

// modelMessages is the system prompt followed by the recent client turns.
// Client-supplied system messages are dropped.
func (t *turnState) modelMessages() []llm.Message {
	msgs := []llm.Message{{Role: llm.RoleSystem, Content: t.system}}

	var turns []store.Message
	for _, m := range t.req.Messages {
		if m.Role == store.RoleUser || m.Role == store.RoleAssistant {
			turns = append(turns, m)
		}
	}
	if len(turns) > maxRequestMessages {
		turns = turns[len(turns)-maxRequestMessages:]
	}
	for _, m := range turns {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: strings.TrimSpace(m.Content)})
	}
	return msgs
}
