// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/camio-project/camio/asset"
	"github.com/camio-project/camio/lib/clock"
	"github.com/camio-project/camio/lib/credential"
	"github.com/camio-project/camio/transport"
)

// ErrSetup reports a failure during the fail-fast session setup
// sequence (credential, transport, audio, channel, negotiation).
var ErrSetup = errors.New("session setup failed")

// messageChannelLabel is the data channel carrying all protocol
// traffic.
const messageChannelLabel = "oai-events"

// State is the session lifecycle state. Transitions are monotonic
// within one Session instance; StateIdle after StateClosing is
// terminal.
type State int

const (
	// StateIdle is the initial (and, after Closing, terminal) state.
	StateIdle State = iota
	// StateConnecting covers the setup sequence up to negotiation.
	StateConnecting
	// StateAwaitingModel waits for the model to acknowledge the
	// session and receive the drawing assets.
	StateAwaitingModel
	// StateActive is the conversational steady state.
	StateActive
	// StateClosing is the single teardown funnel for stop and all
	// fatal errors.
	StateClosing
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateAwaitingModel:
		return "awaiting-model"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ProtocolChannel is the session's view of the transport message
// channel: send plus inbound-message registration.
type ProtocolChannel interface {
	Channel
	OnMessage(callback func(data []byte))
}

// MediaTransport is the session's view of the media transport. It
// mirrors *transport.Transport (wrapped by [WrapTransport]); tests use
// in-process fakes.
type MediaTransport interface {
	OnAsyncError(callback func(error))
	Connect() error
	AttachLocalAudio(source transport.AudioSource) error
	AttachRemoteAudioSink(sink transport.AudioSink) error
	OpenMessageChannel(name string) (ProtocolChannel, error)
	Negotiate(ctx context.Context, endpoint, bearer string) error
	Close() error
}

// transportAdapter lifts *transport.Transport to MediaTransport
// (OpenMessageChannel returns the concrete channel type).
type transportAdapter struct {
	*transport.Transport
}

func (a transportAdapter) OpenMessageChannel(name string) (ProtocolChannel, error) {
	channel, err := a.Transport.OpenMessageChannel(name)
	if err != nil {
		return nil, err
	}
	return channel, nil
}

// WrapTransport adapts a *transport.Transport to the MediaTransport
// interface the session consumes.
func WrapTransport(t *transport.Transport) MediaTransport {
	return transportAdapter{t}
}

// PointerSource supplies the user's current pointed position and the
// matched hotspot label ("" when none). The hotspot is resolved by the
// UI layer, never inferred here.
type PointerSource interface {
	Current() (Position, string)
}

// TranscriptSink receives the streamed text of model responses for
// display. Called from the event loop; implementations must not block.
type TranscriptSink interface {
	// Reset clears the display for a new response.
	Reset()
	// Append adds a streamed fragment.
	Append(text string)
}

// SessionOptions configures a Session. Transport, Credentials, and
// Assets are required (Assets may be nil only with StrategyNone).
type SessionOptions struct {
	Logger      *slog.Logger
	Clock       clock.Clock
	Transport   MediaTransport
	Credentials credential.Provider
	Assets      *asset.Prepared

	// Pointer supplies live position input. May be nil (treated as
	// never pointing), e.g. in benchmark-only runs.
	Pointer PointerSource

	// Microphone and Speaker are the platform audio endpoints.
	Microphone transport.AudioSource
	Speaker    transport.AudioSink

	// Transcript receives streamed response text. May be nil.
	Transcript TranscriptSink

	// Strategy selects the pointed-position encoding.
	Strategy Strategy

	// CallEndpoint is the SDP signaling URL.
	CallEndpoint string

	// Model and Voice parameterize the session configuration.
	Model string
	Voice string

	// InputTokenLimit, PruneLimitRate, and PruneRemovalRate configure
	// conversation eviction.
	InputTokenLimit  int
	PruneLimitRate   float64
	PruneRemovalRate float64

	// MaxImageBytes bounds encoded position images.
	MaxImageBytes int

	// TestMode enables the benchmark runner and keeps voice-activity
	// detection off.
	TestMode           bool
	BenchmarkQuestions []BenchmarkQuestion
}

// sessionEvent is one unit of work for the event loop: an inbound
// protocol message, an asynchronous transport fault, or a benchmark
// trigger.
type sessionEvent struct {
	data           []byte
	fault          error
	startBenchmark bool
}

// Session orchestrates one end-to-end realtime conversation. Create
// with NewSession, drive with Start and Stop. A Session is single-use:
// after Stop it cannot be restarted.
type Session struct {
	logger       *slog.Logger
	clock        clock.Clock
	transport    MediaTransport
	credentials  credential.Provider
	assets       *asset.Prepared
	pointer      PointerSource
	microphone   transport.AudioSource
	speaker      transport.AudioSink
	transcript   TranscriptSink
	encoder      *PositionEncoder
	conversation *Conversation
	benchmark    *Benchmark

	callEndpoint string
	model        string
	voice        string
	testMode     bool

	events chan sessionEvent
	closed chan struct{}
	once   sync.Once

	// mu guards state, started, terminal, and audioOn, which are read
	// by UI goroutines while the event loop mutates them.
	mu       sync.Mutex
	state    State
	started  bool
	terminal bool
	audioOn  bool

	channel ProtocolChannel

	// Response latency tracking. Event-loop owned.
	requestStart    time.Time
	responseStarted bool

	// Benchmark position override. Event-loop owned.
	benchmarkRunning  bool
	benchmarkPosition Position
	benchmarkHotspot  string
}

// NewSession creates a session from options. The returned session owns
// the transport; callers interact only through Start, Stop, State,
// AudioOn, and RunBenchmark.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if opts.Credentials == nil {
		return nil, fmt.Errorf("credential provider is required")
	}
	if opts.Assets == nil && opts.Strategy != StrategyNone {
		return nil, fmt.Errorf("%w: strategy %q needs prepared assets", ErrResourceMissing, opts.Strategy)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}

	session := &Session{
		logger:       logger,
		clock:        clk,
		transport:    opts.Transport,
		credentials:  opts.Credentials,
		assets:       opts.Assets,
		pointer:      opts.Pointer,
		microphone:   opts.Microphone,
		speaker:      opts.Speaker,
		transcript:   opts.Transcript,
		encoder:      NewPositionEncoder(opts.Strategy, opts.Assets, opts.MaxImageBytes),
		conversation: NewConversation(opts.InputTokenLimit, opts.PruneLimitRate, opts.PruneRemovalRate),
		callEndpoint: opts.CallEndpoint,
		model:        opts.Model,
		voice:        opts.Voice,
		testMode:     opts.TestMode,
		events:       make(chan sessionEvent, 64),
		closed:       make(chan struct{}),
	}
	if opts.TestMode {
		session.benchmark = NewBenchmark(opts.BenchmarkQuestions)
	}
	return session, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AudioOn reports whether audio responses are currently enabled.
func (s *Session) AudioOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioOn
}

// setState advances the lifecycle state. Transitions are monotonic:
// a request to move backward (stale callback after teardown began) is
// ignored, and once teardown has finished the state is pinned at Idle
// for good.
func (s *Session) setState(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal {
		return
	}
	if next < s.state && s.state != StateClosing {
		return
	}
	if s.state == StateClosing && next != StateIdle {
		return
	}
	s.state = next
}

// Start runs the fail-fast setup sequence and launches the event loop.
// Any failure at any step aborts to Closing immediately; no partial
// retry. A credential provider returning an empty key aborts quietly
// (the provider already surfaced its own error).
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("session already started")
	}
	s.started = true
	s.mu.Unlock()

	bearer, err := s.credentials.EphemeralKey(ctx)
	if err != nil {
		s.logger.Error("ephemeral key fetch failed", "component", "credential", "error", err)
		s.Stop()
		return fmt.Errorf("%w: credential: %v", ErrSetup, err)
	}
	if bearer == "" {
		s.Stop()
		return nil
	}

	s.logger.Info("starting realtime session")
	s.setState(StateConnecting)

	// Faults from pion goroutines funnel into the event loop. Must be
	// registered before Connect so no early fault is lost.
	s.transport.OnAsyncError(func(err error) {
		select {
		case s.events <- sessionEvent{fault: err}:
		case <-s.closed:
		}
	})

	fail := func(component string, err error) error {
		s.logger.Error("session setup failed", "component", component, "error", err)
		s.Stop()
		return fmt.Errorf("%w: %s: %v", ErrSetup, component, err)
	}

	if err := s.transport.Connect(); err != nil {
		return fail("peer-connection", err)
	}
	if s.speaker != nil {
		if err := s.transport.AttachRemoteAudioSink(s.speaker); err != nil {
			return fail("remote-audio", err)
		}
	}
	if s.microphone != nil {
		if err := s.transport.AttachLocalAudio(s.microphone); err != nil {
			return fail("local-audio", err)
		}
	}
	channel, err := s.transport.OpenMessageChannel(messageChannelLabel)
	if err != nil {
		return fail("message-channel", err)
	}
	channel.OnMessage(func(data []byte) {
		select {
		case s.events <- sessionEvent{data: data}:
		case <-s.closed:
		}
	})
	s.channel = channel

	if err := s.transport.Negotiate(ctx, s.callEndpoint, bearer); err != nil {
		return fail("negotiation", err)
	}

	go s.run()
	return nil
}

// Stop tears down the transport unconditionally and resets observable
// state. Idempotent; safe from any goroutine and any state.
func (s *Session) Stop() {
	s.once.Do(func() {
		s.setState(StateClosing)
		close(s.closed)

		if err := s.transport.Close(); err != nil {
			s.logger.Warn("transport teardown", "error", err)
		}

		s.mu.Lock()
		s.audioOn = false
		s.state = StateIdle
		s.terminal = true
		s.mu.Unlock()

		s.logger.Info("realtime session closed")
	})
}

// Done returns a channel closed when the session has been torn down.
func (s *Session) Done() <-chan struct{} { return s.closed }

// RunBenchmark triggers a benchmark run. Only valid in test mode once
// the session is established; the run advances on each completed
// response.
func (s *Session) RunBenchmark() {
	if !s.testMode {
		s.logger.Warn("benchmark requested outside test mode")
		return
	}
	select {
	case s.events <- sessionEvent{startBenchmark: true}:
	case <-s.closed:
	}
}

// run is the event loop. All protocol handling happens here, single
// threaded; transport callbacks only enqueue.
func (s *Session) run() {
	for {
		select {
		case <-s.closed:
			return
		case event := <-s.events:
			// Stop may have won the race against an already-queued
			// event. Nothing runs after teardown.
			select {
			case <-s.closed:
				return
			default:
			}
			switch {
			case event.fault != nil:
				s.logger.Error("transport fault", "component", "transport", "error", event.fault)
				s.Stop()
				return
			case event.startBenchmark:
				if err := s.advanceBenchmark(); err != nil {
					s.fatal(err)
					return
				}
			default:
				if fatal := s.handleMessage(event.data); fatal {
					return
				}
			}
		}
	}
}

// fatal logs an error and forces teardown.
func (s *Session) fatal(err error) {
	s.logger.Error("session error", "component", "protocol", "error", err)
	s.Stop()
}

// serverEventHandlers maps inbound event types to handlers. A returned
// error is fatal and forces teardown; unknown types are ignored.
var serverEventHandlers = map[string]func(*Session, *serverEvent) error{
	"session.created":                        (*Session).handleSessionCreated,
	"error":                                  (*Session).handleServerError,
	"input_audio_buffer.speech_started":      (*Session).handleSpeechStarted,
	"input_audio_buffer.committed":           (*Session).handleAudioCommitted,
	"conversation.item.added":                (*Session).handleItemAdded,
	"conversation.item.done":                 (*Session).handleItemDone,
	"response.content_part.added":            (*Session).handleContentPartAdded,
	"response.output_text.delta":             (*Session).handleOutputDelta,
	"response.output_audio_transcript.delta": (*Session).handleOutputDelta,
	"response.output_text.done":              (*Session).handleOutputTextDone,
	"response.output_audio_transcript.done":  (*Session).handleOutputTranscriptDone,
	"response.done":                          (*Session).handleResponseDone,
	"response.function_call_arguments.done":  (*Session).handleFunctionCall,
}

// handleMessage parses and dispatches one inbound message. Reports
// whether the session was torn down.
func (s *Session) handleMessage(data []byte) (fatal bool) {
	event, err := parseServerEvent(data)
	if err != nil {
		s.fatal(err)
		return true
	}

	handler, ok := serverEventHandlers[event.Type]
	if !ok {
		s.logger.Debug("ignoring unrecognized event", "type", event.Type)
		return false
	}
	if err := handler(s, event); err != nil {
		s.fatal(err)
		return true
	}
	return false
}

// handleSessionCreated sends the session configuration and the drawing
// assets in fixed order: structured data, template image, color map
// image. The model builds context incrementally; later sends assume
// earlier ones already landed.
func (s *Session) handleSessionCreated(*serverEvent) error {
	s.logger.Info("realtime session established")
	s.setState(StateAwaitingModel)

	if s.assets == nil {
		return fmt.Errorf("%w: session started without assets", ErrResourceMissing)
	}
	drawing := s.assets.Drawing

	language := asset.DisplayLanguage(drawing.Language)
	if err := sendSessionUpdate(s.channel, NewSessionConfig(language, s.model, s.voice)); err != nil {
		return err
	}
	s.logger.Info("session configuration sent", "language", language)

	if err := sendUserItem(s.channel, []contentPart{
		textPart("Tactile drawing data:"),
		textPart(string(drawing.Data)),
	}); err != nil {
		return err
	}
	if err := sendUserItem(s.channel, []contentPart{
		textPart("Tactile drawing template image:"),
		imagePart(s.assets.Template.DataURL()),
	}); err != nil {
		return err
	}
	if err := sendUserItem(s.channel, []contentPart{
		textPart("Tactile drawing color map image:"),
		imagePart(s.assets.ColorMap.DataURL()),
	}); err != nil {
		return err
	}
	s.logger.Info("drawing assets sent", "drawing", drawing.Name)

	// Turn detection stays off in test mode: the benchmark drives
	// turns explicitly.
	if !s.testMode {
		if err := sendSessionUpdate(s.channel, turnDetectionUpdate()); err != nil {
			return err
		}
		s.logger.Info("voice activity detection enabled")
		return nil
	}

	if s.benchmark.Len() > 0 {
		return s.advanceBenchmark()
	}
	return nil
}

// handleServerError classifies a model-reported error. One code is
// recoverable and ignored; everything else is fatal.
func (s *Session) handleServerError(event *serverEvent) error {
	if event.Error == nil {
		return fmt.Errorf("%w: error event without error body", ErrProtocol)
	}
	if event.Error.Code == errorCodeActiveResponse {
		s.logger.Warn("response already in flight, ignoring", "code", event.Error.Code)
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrProtocol, event.Error.Code, event.Error.Message)
}

// handleSpeechStarted injects the current pointed position ahead of
// the model turn, so the model always reasons over the latest pointing
// context.
func (s *Session) handleSpeechStarted(*serverEvent) error {
	s.setState(StateActive)
	if err := s.sendPointedPosition(); err != nil {
		return err
	}
	return s.sendFictitiousResponse()
}

// handleAudioCommitted requests the model response for the committed
// utterance and starts the latency timer.
func (s *Session) handleAudioCommitted(*serverEvent) error {
	s.setState(StateActive)
	s.logger.Info("audio request committed")
	if err := sendResponseCreate(s.channel, nil); err != nil {
		return err
	}
	s.startResponseTimer()
	return nil
}

func (s *Session) handleItemAdded(event *serverEvent) error {
	if event.Item == nil || event.Item.ID == "" {
		return fmt.Errorf("%w: conversation.item.added without item id", ErrProtocol)
	}
	s.conversation.Track(event.Item.ID)
	return nil
}

// handleItemDone recognizes the image-with-position item by its
// caption fingerprint and records its identifier for supersession.
func (s *Session) handleItemDone(event *serverEvent) error {
	if event.Item == nil {
		return fmt.Errorf("%w: conversation.item.done without item", ErrProtocol)
	}
	item := event.Item
	if item.Type == "message" &&
		len(item.Content) >= 2 &&
		item.Content[0].Type == "input_text" &&
		item.Content[0].Text == positionImageCaption &&
		item.Content[1].Type == "input_image" {
		s.conversation.MarkPositionItem(item.ID)
	}
	return nil
}

func (s *Session) handleContentPartAdded(*serverEvent) error {
	if s.transcript != nil {
		s.transcript.Reset()
	}
	return nil
}

// handleOutputDelta covers both text and audio-transcript deltas: the
// first delta of a response closes the latency measurement.
func (s *Session) handleOutputDelta(event *serverEvent) error {
	s.recordFirstDelta()
	if event.Delta != "" && s.transcript != nil {
		s.transcript.Append(event.Delta)
	}
	return nil
}

func (s *Session) handleOutputTextDone(event *serverEvent) error {
	s.logger.Info("model response", "text", event.Text)
	return nil
}

func (s *Session) handleOutputTranscriptDone(event *serverEvent) error {
	s.logger.Info("model response", "transcript", event.Transcript)
	return nil
}

// handleResponseDone inspects the completed response: a failed status
// is fatal; otherwise token usage drives conversation pruning and, in
// test mode, the benchmark advances.
func (s *Session) handleResponseDone(event *serverEvent) error {
	if event.Response == nil {
		return fmt.Errorf("%w: response.done without response body", ErrProtocol)
	}
	response := event.Response

	if response.Status == "failed" {
		message := "response failed"
		if response.StatusDetails != nil && response.StatusDetails.Error != nil {
			message = response.StatusDetails.Error.Message
		}
		return fmt.Errorf("%w: %s", ErrProtocol, message)
	}

	if response.Usage != nil {
		s.logger.Info("token usage",
			"input_tokens", response.Usage.InputTokens,
			"output_tokens", response.Usage.OutputTokens,
			"total_tokens", response.Usage.TotalTokens)
		s.pruneConversation(response.Usage.InputTokens)
	}

	if s.testMode && s.benchmarkRunning && hasMessageOutput(response) {
		return s.advanceBenchmark()
	}
	return nil
}

// hasMessageOutput reports whether the response produced a message
// (as opposed to a bare function call), which is what the benchmark
// counts as a completed turn.
func hasMessageOutput(response *serverResponse) bool {
	for _, output := range response.Output {
		if output.Type == "message" {
			return true
		}
	}
	return false
}

// handleFunctionCall dispatches the two recognized capabilities.
// Unknown function names are ignored.
func (s *Session) handleFunctionCall(event *serverEvent) error {
	switch event.Name {
	case functionWakeWord:
		return s.enableAudio()
	case functionSleepWord:
		return s.disableAudio()
	default:
		s.logger.Debug("ignoring unknown function call", "name", event.Name)
		return nil
	}
}

// Acknowledgment instructions for the audio toggle capabilities.
const (
	audioAlreadyEnabledInstructions  = "- Do not call any function.\n- Only notify the user that audio is already enabled.\n- Keep the response very short."
	audioAlreadyDisabledInstructions = "- Do not call any function.\n- Only notify the user that audio is already disabled.\n- Keep the response very short."
	audioDisabledInstructions        = "- Do not call any function.\n- Only notify the user that audio has been disabled.\n- Keep the response very short."
)

// enableAudio switches the response modality to audio. Invoking it
// while audio is already on short-circuits to an acknowledgment turn
// rather than re-toggling.
func (s *Session) enableAudio() error {
	s.logger.Info("wake word invoked")
	if s.AudioOn() {
		return sendResponseCreate(s.channel, &responseOpts{
			Instructions: audioAlreadyEnabledInstructions,
		})
	}

	if err := sendSessionUpdate(s.channel, outputModalityUpdate("audio")); err != nil {
		return err
	}
	s.mu.Lock()
	s.audioOn = true
	s.mu.Unlock()
	return sendResponseCreate(s.channel, nil)
}

// disableAudio switches the response modality back to text, with a
// final spoken acknowledgment so the user hears the toggle took
// effect.
func (s *Session) disableAudio() error {
	s.logger.Info("sleep word invoked")
	if !s.AudioOn() {
		return sendResponseCreate(s.channel, &responseOpts{
			Instructions: audioAlreadyDisabledInstructions,
		})
	}

	if err := sendSessionUpdate(s.channel, outputModalityUpdate("text")); err != nil {
		return err
	}
	s.mu.Lock()
	s.audioOn = false
	s.mu.Unlock()
	return sendResponseCreate(s.channel, &responseOpts{
		OutputModalities: []string{"audio"},
		Instructions:     audioDisabledInstructions,
	})
}

// currentPosition resolves the position input: the benchmark override
// while a run is active, otherwise the live pointer source.
func (s *Session) currentPosition() (Position, string) {
	if s.testMode && s.benchmarkRunning {
		return s.benchmarkPosition, s.benchmarkHotspot
	}
	if s.pointer != nil {
		return s.pointer.Current()
	}
	return Position{}, ""
}

// sendPointedPosition encodes and transmits the current pointed
// position. When the payload carries a position image, the previously
// outstanding image item is deleted immediately after the new one is
// queued, keeping at most one outstanding per session.
func (s *Session) sendPointedPosition() error {
	position, hotspot := s.currentPosition()
	payload, err := s.encoder.Encode(position, hotspot)
	if err != nil {
		return err
	}
	if payload == nil {
		return nil
	}

	if err := sendUserItem(s.channel, payload.parts); err != nil {
		return err
	}
	if payload.withImage {
		if previous := s.conversation.PositionItem(); previous != "" {
			s.deleteItem(previous)
		}
	}

	if payload.hotspot != "" {
		s.logger.Info("pointed position sent", "variant", payload.variant, "hotspot", payload.hotspot)
	} else {
		s.logger.Info("pointed position sent", "variant", payload.variant)
	}
	return nil
}

// sendFictitiousResponse injects a placeholder assistant turn so the
// model does not treat the position update as a conversational
// request.
func (s *Session) sendFictitiousResponse() error {
	return sendAssistantItem(s.channel,
		"I must not respond to this request because it is only metadata.")
}

// deleteItem removes a tracked item from the remote conversation. The
// identifier is re-checked against the tracked sequence first: it may
// have been evicted since the caller stored it. Remote rejection is
// logged and ignored (eviction is advisory).
func (s *Session) deleteItem(itemID string) {
	if !s.conversation.Remove(itemID) {
		return
	}
	if err := sendItemDelete(s.channel, itemID); err != nil {
		s.logger.Warn("conversation item delete failed", "item_id", itemID, "error", err)
	}
}

// pruneConversation evicts the oldest evictable items when reported
// input-token usage crosses the configured threshold.
func (s *Session) pruneConversation(inputTokens int) {
	evicted := s.conversation.EvictionBatch(inputTokens)
	if len(evicted) == 0 {
		return
	}
	for _, itemID := range evicted {
		if err := sendItemDelete(s.channel, itemID); err != nil {
			s.logger.Warn("conversation item delete failed", "item_id", itemID, "error", err)
		}
	}
	s.logger.Info("pruned conversation context", "items", len(evicted), "input_tokens", inputTokens)
}

// startResponseTimer begins a latency measurement for the next
// response.
func (s *Session) startResponseTimer() {
	s.requestStart = s.clock.Now()
	s.responseStarted = false
}

// recordFirstDelta closes the latency measurement on the first output
// fragment of a response.
func (s *Session) recordFirstDelta() {
	if s.responseStarted || s.requestStart.IsZero() {
		return
	}
	latency := s.clock.Since(s.requestStart)
	s.logger.Info("model response latency", "latency_ms", latency.Milliseconds())
	if s.testMode && s.benchmark != nil {
		s.benchmark.Record(latency)
	}
	s.responseStarted = true
}

// advanceBenchmark sends the next fixture question, or concludes the
// run when the list is exhausted.
func (s *Session) advanceBenchmark() error {
	question, ok := s.benchmark.Next()
	if !ok {
		mean := s.benchmark.Conclude()
		s.benchmarkRunning = false
		s.logger.Info("benchmark complete", "mean_latency_ms", mean.Milliseconds())
		return nil
	}

	s.benchmarkRunning = true
	s.benchmarkPosition = question.Position
	s.benchmarkHotspot = question.Hotspot

	if err := s.sendPointedPosition(); err != nil {
		return err
	}
	if err := s.sendFictitiousResponse(); err != nil {
		return err
	}
	if question.Question != "" {
		if err := sendUserItem(s.channel, []contentPart{textPart(question.Question)}); err != nil {
			return err
		}
	}
	if err := sendResponseCreate(s.channel, nil); err != nil {
		return err
	}
	s.startResponseTimer()
	return nil
}
