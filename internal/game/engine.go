package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typeoke/internal/lyrics"
	"github.com/verte-zerg/typeoke/internal/model"
	"github.com/verte-zerg/typeoke/internal/playback"
	"github.com/verte-zerg/typeoke/internal/typing"
)

// ScoreSink persists completed-session scores. Collaborator, not owned here.
type ScoreSink interface {
	SaveScore(ctx context.Context, rec model.ScoreRecord) error
}

// Snapshot is an immutable view of the engine state for rendering. All
// fields describe the same instant; the engine never exposes a torn triple.
type Snapshot struct {
	Track       model.TrackInfo
	Lines       []lyrics.Line
	Target      []rune
	Typed       []rune
	ActiveIndex int
	LineStart   int
	State       playback.State
	Result      typing.Result
	Loading     bool
}

// Engine is the single owner of the (sequence, session, active index)
// triple. Every external event — time samples, keystrokes, lyric
// deliveries — passes through one method here, under one lock, so the
// three always change together.
type Engine struct {
	mu   sync.Mutex
	tun  model.Tunables
	sink ScoreSink

	track  model.TrackInfo
	seq    lyrics.Sequence
	target []rune

	session *typing.Session
	syncer  *playback.Syncer

	loadToken    uuid.UUID
	loading      bool
	pendingSince time.Time
	normalized   bool
	lastResult   typing.Result

	onStall func()
}

// New constructs an engine with the given thresholds and score sink. The
// sink may be nil when scores are not persisted.
func New(tun model.Tunables, sink ScoreSink) *Engine {
	return &Engine{
		tun:     tun,
		sink:    sink,
		session: typing.NewSession(),
		syncer:  playback.NewSyncer(),
	}
}

// OnStall registers the collaborator callback fired when synchronization
// fails and lyrics should be fetched again. Called without the engine lock.
func (e *Engine) OnStall(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStall = fn
}

// BeginLoad starts a new song load and returns its token. Results delivered
// under an older token are stale and will be discarded.
func (e *Engine) BeginLoad(track model.TrackInfo) uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadToken = uuid.New()
	e.loading = true
	e.track = track
	e.installSequence(lyrics.Sequence{})
	return e.loadToken
}

// DeliverLyrics installs the parsed lyrics for a load. It reports whether
// the delivery was accepted; a stale token means a newer load has started
// and the result is dropped. A delivery that parses to zero lines is
// accepted as the valid "no content yet" state.
func (e *Engine) DeliverLyrics(token uuid.UUID, raw string, duration float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if token != e.loadToken {
		return false
	}
	e.loading = false
	seq := lyrics.Parse(raw)
	if duration > 0 {
		e.track.Duration = duration
	}
	e.normalized = false
	if e.track.Duration > 0 {
		seq = e.maybeNormalize(seq, e.track.Duration)
	}
	e.installSequence(seq)
	return true
}

// SetDuration records the authoritative media duration once the player
// knows it, rescaling the current sequence when its provisional timings
// need it.
func (e *Engine) SetDuration(duration float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if duration <= 0 || e.track.Duration == duration {
		return
	}
	e.track.Duration = duration
	if e.seq.Empty() {
		return
	}
	seq := e.maybeNormalize(e.seq, duration)
	e.seq = seq
	e.target = []rune(seq.TargetText())
}

// maybeNormalize rescales provisional timings to the real duration. A
// sequence with explicit inline timestamps is already authoritative and is
// only rescaled when it overruns the media.
func (e *Engine) maybeNormalize(seq lyrics.Sequence, duration float64) lyrics.Sequence {
	if e.normalized || seq.Empty() {
		return seq
	}
	if seq.Timed && seq.Duration() <= duration {
		return seq
	}
	e.normalized = true
	return lyrics.Normalize(seq, duration, e.tun.StartOffset, e.tun.EndOffset)
}

// installSequence replaces the triple wholesale: new sequence, fresh
// session, synchronizer back to Pending. The pending timer restarts from
// the next playing tick. Runs under the engine lock.
func (e *Engine) installSequence(seq lyrics.Sequence) {
	e.seq = seq
	e.target = []rune(seq.TargetText())
	e.session.Reset()
	e.syncer.SetSequence(seq)
	e.pendingSince = time.Time{}
	e.lastResult = typing.Result{}
}

// HandleTick processes one playback-time sample: synchronize, reconcile,
// and apply whatever correction the policy decides.
func (e *Engine) HandleTick(position float64, playing bool, now time.Time) {
	e.mu.Lock()
	e.syncer.Sample(e.seq, position, playback.Options{
		GapLookAhead:   e.tun.GapLookAhead,
		IntroLookAhead: e.tun.IntroLookAhead,
	})

	var stallFn func()
	if playing {
		if e.pendingSince.IsZero() {
			e.pendingSince = now
		}
		active := e.syncer.Active()
		lineStart := e.seq.LineOffset(active)
		stalledFor := now.Sub(e.pendingSince).Seconds()
		action := Reconcile(e.syncer.State(), active, lineStart, e.session.Pos(), position, stalledFor, e.tun)
		switch action.Kind {
		case ActionForceAdvance:
			e.session.ForceAdvance(e.target, action.To)
		case ActionSignalStall:
			e.syncer.Fail()
			e.session.Reset()
			stallFn = e.onStall
		}
	} else {
		// A paused player never stalls; the timer restarts on resume.
		e.pendingSince = time.Time{}
	}
	rec, fired := e.refreshResult(now)
	e.mu.Unlock()

	if stallFn != nil {
		stallFn()
	}
	if fired {
		e.saveScore(rec)
	}
}

func (e *Engine) saveScore(rec model.ScoreRecord) {
	if e.sink == nil {
		return
	}
	if err := e.sink.SaveScore(context.Background(), rec); err != nil {
		// The score is display state either way; persistence failure must
		// not interrupt the session.
		_ = err
	}
}

// HandleRunes feeds keystrokes into the session and detects completion.
func (e *Engine) HandleRunes(runes []rune, now time.Time) {
	e.mu.Lock()
	if len(e.target) == 0 {
		e.mu.Unlock()
		return
	}
	e.session.Type(runes, now)
	rec, fired := e.refreshResult(now)
	e.mu.Unlock()

	if fired {
		e.saveScore(rec)
	}
}

// HandleBackspace removes the last typed rune.
func (e *Engine) HandleBackspace(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Backspace()
	e.refreshResult(now)
}

// Restart resets the typing session for the current sequence, keeping the
// lyrics in place.
func (e *Engine) Restart(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Reset()
	e.syncer.SetSequence(e.seq)
	e.pendingSince = time.Time{}
	e.lastResult = typing.Result{}
}

// refreshResult re-evaluates the session and, on the completion edge,
// builds the score record. Runs under the engine lock.
func (e *Engine) refreshResult(now time.Time) (model.ScoreRecord, bool) {
	res, fired := e.session.Update(e.target, now)
	e.lastResult = res
	if !fired {
		return model.ScoreRecord{}, false
	}
	durationMs := int64(0)
	if e.session.Started() {
		durationMs = now.Sub(e.session.StartedAt()).Milliseconds()
	}
	return model.ScoreRecord{
		PlayedAt:    now,
		Title:       e.track.Title,
		Artist:      e.track.Artist,
		Source:      e.track.Source,
		WPM:         res.WPM,
		Accuracy:    res.Accuracy,
		Errors:      res.Errors,
		TypedRunes:  e.session.Pos(),
		TargetRunes: len(e.target),
		DurationMs:  durationMs,
	}, true
}

// Snapshot returns a consistent view for rendering.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	active := e.syncer.Active()
	typed := make([]rune, len(e.session.Typed()))
	copy(typed, e.session.Typed())
	return Snapshot{
		Track:       e.track,
		Lines:       e.seq.Lines,
		Target:      e.target,
		Typed:       typed,
		ActiveIndex: active,
		LineStart:   e.seq.LineOffset(active),
		State:       e.syncer.State(),
		Result:      e.lastResult,
		Loading:     e.loading,
	}
}
