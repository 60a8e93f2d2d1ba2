package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-voice/core/apierror"
	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/core/speechrecognition"
	"go.opentelemetry.io/otel/codes"
)

// AudioSource produces captured microphone audio. Stream delivers audio until
// ctx is done.
type AudioSource interface {
	EncodingInfo() audio.EncodingInfo
	Stream(ctx context.Context, onAudio func(audio []byte)) error
}

// Capability runs one live transcription session per recognition session.
// Sessions are not continuous: a session ends once the utterance ends.
type Capability struct {
	source AudioSource

	language  string
	model     string
	endpoint  string
	lookupEnv func(string) (string, bool)

	mu      sync.Mutex
	session *session
}

func NewCapability(source AudioSource, opts ...CapabilityOption) *Capability {
	c := &Capability{source: source}
	defaultOptions(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Supported reports whether a microphone is available to stream from.
func (c *Capability) Supported() bool {
	return c.source != nil
}

// PermissionDenied reports whether microphone access was already refused, as
// far as the audio source can tell.
func (c *Capability) PermissionDenied(ctx context.Context) bool {
	prober, ok := c.source.(interface {
		PermissionDenied(ctx context.Context) bool
	})
	return ok && prober.PermissionDenied(ctx)
}

func (c *Capability) Start(ctx context.Context, events speechrecognition.CapabilityEvents) error {
	ctx, span := tracer.Start(ctx, "open live transcription")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return fmt.Errorf("transcription session already running")
	}

	if c.PermissionDenied(ctx) {
		err := speechrecognition.ErrorFromCode("not-allowed")
		span.SetStatus(codes.Error, "microphone access denied")
		return err
	}

	apiKey, ok := c.lookupEnv("DEEPGRAM_API_KEY")
	if !ok || apiKey == "" {
		err := apierror.Missing("Deepgram", "DEEPGRAM_API_KEY")
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing api key")
		return err
	}

	encodingInfo := c.source.EncodingInfo()
	encoding, err := convertEncoding(encodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := c.connectWebsocket(ctx, apiKey, encoding)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to connect")
		return err
	}

	sessionCtx, cancel := context.WithCancel(context.Background())
	s := &session{
		conn:      conn,
		events:    events,
		cancel:    cancel,
		lastMsgTs: time.Now(),
	}
	c.session = s

	go s.readAndProcessMessages(func() { c.clearSession(s) })
	go s.generateSilence(sessionCtx, encodingInfo)
	go func() {
		if err := c.source.Stream(sessionCtx, s.sendAudio); err != nil && sessionCtx.Err() == nil {
			logger.Warn("microphone capture failed", "error", err)
			s.fail(captureError(err))
			s.closeConn()
		}
	}()

	return nil
}

func captureError(err error) error {
	if audio.IsPermissionError(err) {
		return speechrecognition.ErrorFromCode("not-allowed")
	}
	return speechrecognition.ErrorFromCode("audio-capture")
}

func (c *Capability) connectWebsocket(ctx context.Context, apiKey string, encoding streamEncoding) (*websocket.Conn, error) {
	listenUrl, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", encoding.name)
	queryParams.Set("sample_rate", strconv.Itoa(encoding.sampleRate))
	queryParams.Set("channels", strconv.Itoa(encoding.channels))
	queryParams.Set("model", c.model)
	queryParams.Set("language", c.language)
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")
	listenUrl.RawQuery = queryParams.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}
	return conn, nil
}

// Stop asks the service to flush the remaining results and close the session.
func (c *Capability) Stop() error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.closeStream()
}

// Abort closes the session without reporting anything further.
func (c *Capability) Abort() error {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()
	if s == nil {
		return nil
	}

	s.abort()
	return nil
}

func (c *Capability) clearSession(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == s {
		c.session = nil
	}
}

type session struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	events  speechrecognition.CapabilityEvents
	cancel  context.CancelFunc
	endOnce sync.Once

	mu        sync.Mutex
	aborted   bool
	closing   bool
	finals    []speechrecognition.Result
	lastMsgTs time.Time
}

func (s *session) sendAudio(audio []byte) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	s.mu.Lock()
	s.lastMsgTs = time.Now()
	closing := s.closing
	s.mu.Unlock()
	if closing {
		return
	}

	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		logger.Debug("failed to write audio to deepgram", "error", err)
	}
}

func (s *session) sendSilence(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	s.mu.Lock()
	closing := s.closing
	s.mu.Unlock()
	if closing {
		return nil
	}

	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (s *session) sendKeepAlive() {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := s.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: "KeepAlive"}); err != nil {
		logger.Debug("failed to send keep alive to deepgram", "error", err)
	}
}

// closeStream asks the service to finish. It is safe to call repeatedly.
func (s *session) closeStream() error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	s.mu.Unlock()

	s.connMu.Lock()
	defer s.connMu.Unlock()
	if err := s.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		return fmt.Errorf("failed to close deepgram stream: %w", err)
	}
	return nil
}

func (s *session) closeConn() {
	s.cancel()
	s.connMu.Lock()
	defer s.connMu.Unlock()
	_ = s.conn.Close()
}

func (s *session) abort() {
	s.mu.Lock()
	s.aborted = true
	s.mu.Unlock()
	s.closeConn()
}

func (s *session) isAborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

func (s *session) fail(err error) {
	if s.isAborted() || s.events.OnError == nil {
		return
	}
	s.events.OnError(err)
}

func (s *session) end() {
	s.endOnce.Do(func() {
		s.cancel()
		if !s.isAborted() && s.events.OnEnd != nil {
			s.events.OnEnd()
		}
	})
}

func (s *session) readAndProcessMessages(onClosed func()) {
	defer s.end()
	defer onClosed()
	defer s.closeConn()

	for {
		msgType, msg, err := s.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			s.mu.Lock()
			expected := s.closing || s.aborted
			s.mu.Unlock()
			if !expected && !(errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure) {
				logger.Warn("failed to read deepgram websocket message", "error", err)
				s.fail(speechrecognition.ErrorFromCode("network"))
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			s.processMessage(msg)
		}
	}
}

func (s *session) processMessage(msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram message", "error", err)
			return
		}

		transcript := ""
		if len(msgResp.Channel.Alternatives) > 0 {
			transcript = strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		}
		s.publishResult(transcript, msgResp.IsFinal)

		if msgResp.IsFinal && msgResp.SpeechFinal {
			s.onSpeechEnded()
		}

	case api.TypeUtteranceEndResponse:
		s.onSpeechEnded()

	case api.TypeSpeechStartedResponse:
		logger.Debug("speech started")
	}
}

func (s *session) publishResult(transcript string, isFinal bool) {
	if s.isAborted() {
		return
	}

	s.mu.Lock()
	resultIndex := len(s.finals)
	results := make([]speechrecognition.Result, 0, len(s.finals)+1)
	results = append(results, s.finals...)
	if transcript != "" {
		result := speechrecognition.Result{Transcript: transcript, IsFinal: isFinal}
		results = append(results, result)
		if isFinal {
			s.finals = append(s.finals, result)
		}
	}
	s.mu.Unlock()

	if s.events.OnResult != nil {
		s.events.OnResult(speechrecognition.ResultEvent{ResultIndex: resultIndex, Results: results})
	}
}

func (s *session) onSpeechEnded() {
	if err := s.closeStream(); err != nil {
		logger.Warn("failed to end transcription session", "error", err)
		s.closeConn()
	}
}
