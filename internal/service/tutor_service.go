package service

import (
	"context"
	"dyslexiatutor/internal/cache"
	"dyslexiatutor/internal/config"
	"dyslexiatutor/internal/model"
	"dyslexiatutor/internal/observe"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// tagOnlyReply is spoken when the tutor's reply was nothing but the advance marker.
const tagOnlyReply = "Well done! Let's keep going."

// TutorOptions tunes a TutorService.
type TutorOptions struct {
	// HistoryLimit caps how many trailing turns are sent to the tutor model. <= 0 sends all.
	HistoryLimit     int
	TutorTimeout     time.Duration
	NarrationTimeout time.Duration
	// Metrics receives turn and upstream measurements. nil records nothing.
	Metrics *observe.Metrics
}

// TutorService runs practice sessions: mode selection, learner turns,
// scoring and advancement, and the closing summary.
//
// Each operation holds the session's lock for its whole duration and works on
// a copy of the stored session, saving it only once every external call has
// succeeded. A failed turn leaves score, cursor and history untouched.
type TutorService struct {
	bank        *QuestionBank
	sessions    cache.SessionCache
	locker      cache.SessionLocker
	prompts     PromptBuilder
	interpreter ResponseInterpreter
	tutor       TutorClient
	narrator    NarrationClient
	opts        TutorOptions
	metrics     *observe.Metrics
}

// NewTutorService creates a new tutor service
func NewTutorService(
	bank *QuestionBank,
	sessions cache.SessionCache,
	locker cache.SessionLocker,
	tutor TutorClient,
	narrator NarrationClient,
	aiCfg *config.AIConfig,
	opts TutorOptions,
) *TutorService {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observe.NoopMetrics()
	}
	return &TutorService{
		bank:        bank,
		sessions:    sessions,
		locker:      locker,
		prompts:     NewPromptBuilder(aiCfg),
		interpreter: NewResponseInterpreter(aiCfg),
		tutor:       tutor,
		narrator:    narrator,
		opts:        opts,
		metrics:     metrics,
	}
}

// Landing discards whatever state the session had.
func (s *TutorService) Landing(ctx context.Context, sessionID string) error {
	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	slog.Info("session reset", "session", sessionID)
	return nil
}

// StartMode begins a fresh session in the given mode, replacing any prior state.
func (s *TutorService) StartMode(ctx context.Context, sessionID, rawMode string) (*model.StartModeResponse, error) {
	mode, ok := model.ParseMode(rawMode)
	if !ok {
		return nil, ErrInvalidMode
	}

	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	questions, err := s.bank.Sample(ctx, mode)
	if err != nil {
		return nil, err
	}

	session := model.NewSession(sessionID)
	first := session.Begin(mode, questions)
	greeting := mode.Greeting()

	audioRef, err := s.narrate(ctx, greeting)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.metrics.RecordModeStart(ctx, string(mode))
	slog.Info("mode started", "session", sessionID, "mode", mode, "questions", len(questions))
	return &model.StartModeResponse{
		Greeting: greeting,
		AudioRef: audioRef,
		Question: first,
		Mode:     mode,
	}, nil
}

// SubmitTurn evaluates one learner response against the current question,
// asks the tutor for feedback and decides whether to move on.
func (s *TutorService) SubmitTurn(ctx context.Context, sessionID, response string) (*model.SubmitTurnResponse, error) {
	if strings.TrimSpace(response) == "" {
		return nil, ErrEmptyInput
	}

	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	stored, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	question := stored.CurrentQuestion()
	if question == nil {
		return nil, ErrSessionComplete
	}

	session := stored.Clone()
	correct := s.interpreter.IsCorrect(session.Mode, *question, response)
	session.RecordTurn(model.RoleUser, response)

	prompt := s.prompts.Build(session.Mode, *question, response)
	reply, err := s.generate(ctx, prompt, session.RecentHistory(s.opts.HistoryLimit))
	if err != nil {
		return nil, err
	}

	advance := s.interpreter.ShouldAdvance(response, reply)
	reply = s.interpreter.StripTag(reply)
	if reply == "" {
		reply = tagOnlyReply
	}
	session.RecordTurn(model.RoleAssistant, reply)

	audioRef, err := s.narrate(ctx, reply)
	if err != nil {
		return nil, err
	}

	session.ApplyScoring(*question, correct)

	resp := &model.SubmitTurnResponse{
		Reply:    reply,
		AudioRef: audioRef,
		Correct:  correct,
	}
	if !correct {
		resp.SoundsSimilar = s.interpreter.NearMiss(session.Mode, *question, response)
	}
	if advance {
		if next := session.Advance(); next != nil {
			resp.NextQuestion = next
		} else {
			score, answered := session.Score, session.AnsweredCount
			resp.EndOfSession = true
			resp.Score = &score
			resp.AnsweredCount = &answered
		}
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.metrics.RecordTurn(ctx, string(session.Mode), correct, advance)
	if resp.EndOfSession {
		s.metrics.RecordSessionComplete(ctx, string(session.Mode))
	}
	slog.Info("turn processed",
		"session", sessionID,
		"mode", session.Mode,
		"cursor", session.Cursor,
		"correct", correct,
		"advanced", advance,
		"score", session.Score,
	)
	return resp, nil
}

// FinishSession summarises the session's totals. It does not reset state.
func (s *TutorService) FinishSession(ctx context.Context, sessionID string) (*model.FinishResponse, error) {
	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Great job! You've completed the %s practice. Your score is %d points from %d questions.",
		session.Mode.DisplayName(), session.Score, session.AnsweredCount)

	audioRef, err := s.narrate(ctx, message)
	if err != nil {
		return nil, err
	}

	slog.Info("session finished", "session", sessionID, "mode", session.Mode, "score", session.Score)
	return &model.FinishResponse{
		Message:       message,
		AudioRef:      audioRef,
		Score:         session.Score,
		AnsweredCount: session.AnsweredCount,
	}, nil
}

// Narrate synthesises arbitrary text. It touches no session state.
func (s *TutorService) Narrate(ctx context.Context, text string) (*model.NarrateResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	audioRef, err := s.narrate(ctx, text)
	if err != nil {
		return nil, err
	}
	return &model.NarrateResponse{AudioRef: audioRef}, nil
}

// Snapshot returns a read-only view of the session.
func (s *TutorService) Snapshot(ctx context.Context, sessionID string) (*model.SessionSnapshot, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		session = model.NewSession(sessionID)
	}
	return &model.SessionSnapshot{
		Mode:          session.Mode,
		Phase:         session.Phase(),
		Cursor:        session.Cursor,
		Total:         len(session.Questions),
		Score:         session.Score,
		AnsweredCount: session.AnsweredCount,
		Question:      session.CurrentQuestion(),
	}, nil
}

func (s *TutorService) lock(ctx context.Context, sessionID string) (func(), error) {
	release, err := s.locker.Lock(ctx, sessionID)
	if errors.Is(err, cache.ErrLockNotAcquired) {
		return nil, ErrSessionBusy
	}
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	return release, nil
}

// load returns the session with a selected mode, or ErrNoActiveSession.
func (s *TutorService) load(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.Phase() == model.PhaseAwaitingMode {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

func (s *TutorService) generate(ctx context.Context, prompt string, history []model.Turn) (string, error) {
	ctx, cancel := withOptionalTimeout(ctx, s.opts.TutorTimeout)
	defer cancel()

	start := time.Now()
	reply, err := s.tutor.Generate(ctx, prompt, history)
	s.metrics.RecordUpstream(ctx, "tutor", time.Since(start), err)
	if err != nil {
		slog.Warn("tutor call failed", "error", err)
		return "", &UpstreamError{Service: "tutor", Err: err}
	}
	return reply, nil
}

func (s *TutorService) narrate(ctx context.Context, text string) (string, error) {
	ctx, cancel := withOptionalTimeout(ctx, s.opts.NarrationTimeout)
	defer cancel()

	start := time.Now()
	ref, err := s.narrator.Synthesize(ctx, text)
	s.metrics.RecordUpstream(ctx, "narration", time.Since(start), err)
	if err != nil {
		slog.Warn("narration failed", "error", err)
		return "", &UpstreamError{Service: "narration", Err: err}
	}
	return ref, nil
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
