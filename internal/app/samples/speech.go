package samples

import (
	"context"
	"fmt"
	"io"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/bucket"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/transcript"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/poll"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// Sample rates Speech-to-Text accepts for LINEAR16 audio.
const (
	minSampleRate = 8000
	maxSampleRate = 48000
)

func registerSpeech(r *Registry, d Deps) {
	transcribe := func(words bool) RunFunc {
		return func(ctx context.Context, args sample.Args, out io.Writer) error {
			req, err := transcribeArgs(args, words)
			if err != nil {
				return err
			}
			return with(ctx, d.Clients.Speech, func(s ports.Speech) error {
				op, err := s.Transcribe(ctx, req)
				if err != nil {
					return err
				}
				printf(out, "Waiting for operation %s", op.Name())
				if _, err := d.Poller.Wait(ctx, op.Name(), poll.WaitFunc(op.Name(), op.Poll)); err != nil {
					printf(out, "Error: %s", err)
					return err
				}
				printSegments(out, op.Segments(), words)
				return nil
			})
		}
	}
	params := []sample.Param{
		param("GCS_URI", "gs://BUCKET/OBJECT of LINEAR16 audio"),
		optional("LANGUAGE", "BCP-47 language code", transcript.DefaultLanguage),
		optional("SAMPLE_RATE", "sample rate in hertz", "16000"),
	}
	r.Register(sample.Sample{
		Name: "transcribe_async_gcs", Product: ProductSpeech,
		Summary: "Transcribe audio in Cloud Storage with a long-running operation.",
		Params:  params,
	}, transcribe(false))
	r.Register(sample.Sample{
		Name: "transcribe_async_words", Product: ProductSpeech,
		Summary: "Transcribe audio in Cloud Storage and print word time offsets.",
		Params:  params,
	}, transcribe(true))
}

func transcribeArgs(a sample.Args, words bool) (ports.TranscribeRequest, error) {
	ref, err := bucket.ParseURI(a.String("GCS_URI"))
	if err != nil {
		return ports.TranscribeRequest{}, err
	}
	if ref.Object == "" {
		return ports.TranscribeRequest{}, domain.NewValidationError("GCS_URI", "must name an object")
	}
	lang := a.String("LANGUAGE")
	if err := transcript.ValidateLanguage(lang); err != nil {
		return ports.TranscribeRequest{}, err
	}
	rate, err := a.Int("SAMPLE_RATE")
	if err != nil {
		return ports.TranscribeRequest{}, err
	}
	if rate < minSampleRate || rate > maxSampleRate {
		return ports.TranscribeRequest{}, domain.NewValidationError("SAMPLE_RATE",
			fmt.Sprintf("must be between %d and %d, got %d", minSampleRate, maxSampleRate, rate))
	}
	return ports.TranscribeRequest{Audio: ref, LanguageCode: lang, SampleRateHertz: rate, WordTimeOffsets: words}, nil
}

func printSegments(out io.Writer, segs []transcript.Segment, words bool) {
	for _, s := range segs {
		printf(out, "Transcript: %s", s.Transcript)
		printf(out, "Confidence: %f", s.Confidence)
		if !words {
			continue
		}
		for _, w := range s.Words {
			printf(out, "Word: %s (start: %s, end: %s)", w.Word, w.Start, w.End)
		}
	}
}
