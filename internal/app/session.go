// Package app runs the gesture mouse: it reads camera frames, classifies the
// hand pose and drives the pointer, one frame at a time.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/gesturemouse/internal/capture"
	"github.com/ayusman/gesturemouse/internal/control"
	"github.com/ayusman/gesturemouse/internal/detector"
	"github.com/ayusman/gesturemouse/internal/gesture"
	"github.com/ayusman/gesturemouse/internal/journal"
	"github.com/ayusman/gesturemouse/internal/render"
)

var (
	// ErrCaptureFailed is returned by Run when the camera cannot deliver a frame.
	ErrCaptureFailed = errors.New("capture failed")
	// ErrPanic wraps a panic recovered from the frame loop.
	ErrPanic = errors.New("frame loop panicked")
)

// Exit reasons recorded in the journal.
const (
	ExitEscape        = "escape"
	ExitCancelled     = "cancelled"
	ExitCaptureFailed = "capture_failed"
	ExitPanic         = "panic"
)

// Publisher receives every dispatched action.
type Publisher interface {
	Publish(a control.Action)
}

// Config wires a Session to its collaborators. Camera, Detector and Actuator
// are required.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Actuator control.Actuator
	// Renderer defaults to a Headless renderer.
	Renderer render.Renderer

	// FrameWidth and FrameHeight are the nominal capture size the fingertip is
	// mapped from. Zero means 640x480.
	FrameWidth  int
	FrameHeight int

	// Journal, when set, records the session and its actions.
	Journal *journal.Journal
	// Publisher, when set, is told about each action.
	Publisher Publisher
	// Preview keeps a JPEG of the latest annotated frame for streaming.
	Preview bool

	Logger *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Frame is the outcome of one Step.
type Frame struct {
	Points  []image.Point
	Result  gesture.Result
	Actions []control.Action
	Paused  bool
	// DetectErr is the detector failure, if any. The frame was treated as
	// having no hand.
	DetectErr error
}

// Session owns the dispatcher state for one run of the controller. Step, Run
// and Close must be called from a single goroutine; Status, Preview and
// SetPaused are safe from any goroutine.
type Session struct {
	id         string
	camera     capture.Camera
	detector   detector.Detector
	renderer   render.Renderer
	dispatcher *control.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	now        func() time.Time
	preview    bool

	journal *journal.Journal
	writer  *journal.Writer

	paused     atomic.Bool
	exitReason string
	closeOnce  sync.Once
	closeErr   error

	mu          sync.RWMutex
	status      Status
	lastPreview []byte
}

// New creates a Session. When a journal is configured but cannot record the
// session, the error is logged and the session runs without it.
func New(cfg Config) (*Session, error) {
	if cfg.Camera == nil || cfg.Detector == nil || cfg.Actuator == nil {
		return nil, errors.New("app: camera, detector and actuator are required")
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.NewHeadless(false)
	}
	if cfg.FrameWidth <= 0 {
		cfg.FrameWidth = capture.DefaultWidth
	}
	if cfg.FrameHeight <= 0 {
		cfg.FrameHeight = capture.DefaultHeight
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	d := control.NewDispatcher(cfg.Actuator, cfg.FrameWidth, cfg.FrameHeight)
	state := d.State()

	s := &Session{
		camera:     cfg.Camera,
		detector:   cfg.Detector,
		renderer:   cfg.Renderer,
		dispatcher: d,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger.Named("session"),
		now:        cfg.Clock,
		preview:    cfg.Preview,
		exitReason: ExitCancelled,
	}

	if cfg.Journal != nil {
		rec, err := cfg.Journal.Sessions().Start(state.ScreenWidth, state.ScreenHeight)
		if err != nil {
			s.logger.Warn("journal unavailable, continuing without it", zap.Error(err))
		} else {
			s.id = rec.ID
			s.journal = cfg.Journal
			s.writer = journal.NewWriter(cfg.Journal.Actions(), s.logger.Named("journal"))
		}
	}
	if s.id == "" {
		s.id = uuid.New().String()
	}

	s.status = Status{
		SessionID:    s.id,
		StartedAt:    s.now(),
		Mode:         gesture.ModeIdle,
		ScreenWidth:  state.ScreenWidth,
		ScreenHeight: state.ScreenHeight,
		Actions:      make(map[control.Kind]int),
	}

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SetPaused suspends or resumes gesture control. A held drag is released on
// the next frame after pausing.
func (s *Session) SetPaused(paused bool) {
	if s.paused.Swap(paused) != paused {
		s.logger.Info("gesture control toggled", zap.Bool("paused", paused))
	}
}

// Paused reports whether gesture control is suspended.
func (s *Session) Paused() bool {
	return s.paused.Load()
}

// Step processes one captured frame: detect, classify, dispatch, then draw
// the overlay onto frame. Detector failures are absorbed and the frame is
// treated as having no hand.
func (s *Session) Step(frame *gocv.Mat) (Frame, error) {
	if frame == nil || frame.Empty() {
		return Frame{}, fmt.Errorf("%w: empty frame", ErrCaptureFailed)
	}

	now := s.now()
	out := Frame{Result: gesture.Idle, Paused: s.paused.Load()}

	if out.Paused {
		if s.dispatcher.Release() {
			out.Actions = append(out.Actions, control.Action{Kind: control.KindMouseUp, Mode: gesture.ModeIdle})
		}
		// An idle frame clears the scroll reference.
		s.dispatcher.Dispatch(gesture.Idle, now)
	} else {
		s.dispatcher.SetFrameSize(frame.Cols(), frame.Rows())
		out.Points, out.DetectErr = s.detect(frame)
		out.Result = gesture.Classify(out.Points)
		out.Actions = s.dispatcher.Dispatch(out.Result, now)
	}

	s.record(out, now)

	s.renderer.Draw(frame, render.Overlay{
		Points:  out.Points,
		Result:  out.Result,
		Pressed: hasKind(out.Actions, control.KindMouseDown),
		Paused:  out.Paused,
	})

	if s.preview {
		s.encodePreview(frame)
	}

	return out, nil
}

// detect returns the pixel keypoints of the first detected hand, or nil.
func (s *Session) detect(frame *gocv.Mat) ([]image.Point, error) {
	hands, err := s.detector.Detect(frame)
	if err != nil {
		s.logger.Warn("hand detection failed", zap.Error(err))
		return nil, err
	}
	if len(hands) == 0 {
		return nil, nil
	}
	return hands[0].Pixels(frame.Cols(), frame.Rows()), nil
}

// record updates the status snapshot and forwards actions to the journal and
// publisher.
func (s *Session) record(out Frame, now time.Time) {
	state := s.dispatcher.State()

	s.mu.Lock()
	s.status.Frames++
	if out.DetectErr != nil {
		s.status.DetectErrors++
	}
	s.status.Paused = out.Paused
	s.status.Hand = out.Result.Hand
	s.status.Mode = out.Result.Mode
	s.status.Fingers = out.Result.Fingers
	s.status.Dragging = state.Dragging
	s.status.CursorX = int(math.Round(state.CursorX))
	s.status.CursorY = int(math.Round(state.CursorY))
	for _, a := range out.Actions {
		s.status.Actions[a.Kind]++
	}
	s.mu.Unlock()

	for _, a := range out.Actions {
		if s.writer != nil {
			s.writer.Write(&journal.Action{
				SessionID: s.id,
				Kind:      string(a.Kind),
				Mode:      a.Mode.String(),
				X:         a.X,
				Y:         a.Y,
				Amount:    a.Amount,
				CreatedAt: now,
			})
		}
		if s.publisher != nil {
			s.publisher.Publish(a)
		}
	}
}

func (s *Session) encodePreview(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		s.logger.Debug("preview encode failed", zap.Error(err))
		return
	}
	data := bytes.Clone(buf.GetBytes())
	buf.Close()

	s.mu.Lock()
	s.lastPreview = data
	s.mu.Unlock()
}

// Run opens the camera and processes frames until the renderer reports the
// exit key, ctx is cancelled, or capture fails. Whatever ends the loop, a held
// drag is released and every collaborator is closed before Run returns. A
// panic in the loop is recovered and returned wrapped in ErrPanic.
func (s *Session) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered panic in frame loop", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("%w: %v", ErrPanic, r)
			s.exitReason = ExitPanic
		}
		s.Close()
	}()

	if err := s.camera.Open(); err != nil {
		s.exitReason = ExitCaptureFailed
		return fmt.Errorf("%w: open camera: %w", ErrCaptureFailed, err)
	}

	s.logger.Info("gesture mouse started, press Esc to exit", zap.String("session_id", s.id))

	for {
		select {
		case <-ctx.Done():
			s.exitReason = ExitCancelled
			s.logger.Info("stopping", zap.NamedError("cause", context.Cause(ctx)))
			return nil
		default:
		}

		quit, err := s.next()
		if err != nil {
			s.exitReason = ExitCaptureFailed
			s.logger.Error("capture failed", zap.Error(err))
			return err
		}
		if quit {
			s.exitReason = ExitEscape
			s.logger.Info("exit key pressed")
			return nil
		}
	}
}

func (s *Session) next() (bool, error) {
	frame, err := s.camera.ReadFrame()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	defer frame.Close()

	if _, err := s.Step(frame); err != nil {
		return false, err
	}
	return s.renderer.Show(frame), nil
}

// Close releases a held drag, then closes the journal writer, renderer,
// detector and camera. Failures are logged and joined. Close is idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.dispatcher.Release() {
			s.logger.Info("released held drag")
			a := control.Action{Kind: control.KindMouseUp, Mode: gesture.ModeIdle}
			s.record(Frame{Result: gesture.Idle, Actions: []control.Action{a}}, s.now())
		}

		var errs []error
		closeLogged := func(name string, fn func() error) {
			if err := fn(); err != nil {
				s.logger.Warn("close failed", zap.String("component", name), zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}

		if s.writer != nil {
			closeLogged("journal writer", s.writer.Close)
			closeLogged("journal session", func() error {
				return s.journal.Sessions().End(s.id, s.exitReason)
			})
		}
		closeLogged("renderer", s.renderer.Close)
		closeLogged("detector", s.detector.Close)
		closeLogged("camera", s.camera.Close)

		s.closeErr = errors.Join(errs...)
		s.logger.Info("session closed", zap.String("reason", s.exitReason))
	})
	return s.closeErr
}

func hasKind(actions []control.Action, kind control.Kind) bool {
	for _, a := range actions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}
