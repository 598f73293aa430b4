// Package stt adapts the Speech-to-Text v1 SDK to ports.Speech.
package stt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/transcript"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/gcp"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// ServiceName names the breaker and health check.
const ServiceName = "speech"

var (
	_ ports.Speech        = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// Operation is the subset of the SDK's LongRunningRecognizeOperation the
// adapter polls.
type Operation interface {
	Poll(ctx context.Context, opts ...gax.CallOption) (*speechpb.LongRunningRecognizeResponse, error)
	Done() bool
	Name() string
}

// API is the subset of the Speech client the adapter calls.
type API interface {
	LongRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest, opts ...gax.CallOption) (Operation, error)
	Close() error
}

// sdkClient narrows the SDK's concrete operation type.
type sdkClient struct {
	*speech.Client
}

func (c sdkClient) LongRunningRecognize(
	ctx context.Context, req *speechpb.LongRunningRecognizeRequest, opts ...gax.CallOption,
) (Operation, error) {
	op, err := c.Client.LongRunningRecognize(ctx, req, opts...)
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Client implements ports.Speech.
type Client struct {
	api     API
	breaker *gcp.Breaker
	logger  *slog.Logger
}

// New dials Speech-to-Text with opts.
func New(ctx context.Context, breaker *gcp.Breaker, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating speech client: %w", err)
	}
	return NewWithAPI(sdkClient{c}, breaker, logger), nil
}

// NewWithAPI wraps an existing API implementation.
func NewWithAPI(api API, breaker *gcp.Breaker, logger *slog.Logger) *Client {
	return &Client{api: api, breaker: breaker, logger: logger}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.api.Close()
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string { return c.breaker.Name() }

// HealthCheck reports the breaker state.
func (c *Client) HealthCheck(ctx context.Context) error { return c.breaker.HealthCheck(ctx) }

// Transcribe starts recognition of LINEAR16 audio stored in Cloud Storage.
func (c *Client) Transcribe(ctx context.Context, req ports.TranscribeRequest) (ports.Transcription, error) {
	pb := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:              speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:       int32(req.SampleRateHertz), //nolint:gosec // validated by the caller
			LanguageCode:          req.LanguageCode,
			EnableWordTimeOffsets: req.WordTimeOffsets,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: req.Audio.URI()},
		},
	}
	op, err := gcp.Call(c.breaker, func() (Operation, error) {
		return c.api.LongRunningRecognize(ctx, pb)
	})
	if err != nil {
		return nil, fmt.Errorf("starting recognition of %s: %w", req.Audio.URI(), err)
	}
	c.logger.DebugContext(ctx, "recognition started", slog.String("operation", op.Name()))
	return &transcription{op: op, breaker: c.breaker}, nil
}

// transcription polls one operation. A failed operation is not a service
// outage, so only errors fetching its status reach the breaker.
type transcription struct {
	op      Operation
	breaker *gcp.Breaker

	mu       sync.Mutex
	segments []transcript.Segment
}

func (t *transcription) Name() string { return t.op.Name() }

func (t *transcription) Poll(ctx context.Context) (bool, error) {
	var (
		resp  *speechpb.LongRunningRecognizeResponse
		opErr error
	)
	err := t.breaker.Do(func() error {
		r, err := t.op.Poll(ctx)
		if t.op.Done() {
			resp, opErr = r, err
			return nil
		}
		return err
	})
	if err != nil {
		return false, fmt.Errorf("polling %s: %w", t.op.Name(), err)
	}
	if !t.op.Done() {
		return false, nil
	}
	if opErr != nil {
		return true, gcp.TranslateError(opErr)
	}
	t.mu.Lock()
	t.segments = toSegments(resp)
	t.mu.Unlock()
	return true, nil
}

func (t *transcription) Segments() []transcript.Segment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.segments
}

// toSegments keeps the first, most likely alternative of each result.
func toSegments(resp *speechpb.LongRunningRecognizeResponse) []transcript.Segment {
	var out []transcript.Segment
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		alt := alts[0]
		seg := transcript.Segment{Transcript: alt.GetTranscript(), Confidence: alt.GetConfidence()}
		for _, w := range alt.GetWords() {
			seg.Words = append(seg.Words, transcript.Word{
				Word:  w.GetWord(),
				Start: w.GetStartTime().AsDuration(),
				End:   w.GetEndTime().AsDuration(),
			})
		}
		out = append(out, seg)
	}
	return out
}
