// Package tts synthesizes per-step narration audio via the OpenAI speech API.
//
// Audio is returned as base64 data URIs ready for embedding in the
// presentation artifact. A step whose synthesis fails plays silently instead
// of failing the whole presentation.
package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"eobtools/internal/logger"
	"eobtools/pkg/models"
)

// Config configures speech synthesis.
type Config struct {
	Model   openai.SpeechModel
	Voice   openai.SpeechVoice
	Timeout time.Duration // per-step synthesis timeout
}

// DefaultConfig returns synthesis defaults.
func DefaultConfig() Config {
	return Config{
		Model:   openai.TTSModel1,
		Voice:   openai.VoiceAlloy,
		Timeout: 60 * time.Second,
	}
}

// StepAudio is the synthesized audio for one narration step.
type StepAudio struct {
	Step    int    `json:"step"`
	DataURI string `json:"data_uri,omitempty"`
}

// Synthesizer converts narration text to speech.
type Synthesizer struct {
	client *openai.Client
	config Config
	log    zerolog.Logger
}

// NewSynthesizer creates a Synthesizer with the OpenAI client from the
// environment. Requires OPENAI_API_KEY; OPENAI_TTS_MODEL and
// OPENAI_TTS_VOICE override the defaults.
func NewSynthesizer() (*Synthesizer, error) {
	const op = "NewSynthesizer"

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%s: OPENAI_API_KEY environment variable is required", op)
	}

	config := DefaultConfig()
	if model := os.Getenv("OPENAI_TTS_MODEL"); model != "" {
		config.Model = openai.SpeechModel(model)
	}
	if voice := os.Getenv("OPENAI_TTS_VOICE"); voice != "" {
		config.Voice = openai.SpeechVoice(voice)
	}

	return NewSynthesizerWithClient(openai.NewClient(apiKey), config), nil
}

// NewSynthesizerWithClient creates a Synthesizer with explicit dependencies
// (for testing).
func NewSynthesizerWithClient(client *openai.Client, config Config) *Synthesizer {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	return &Synthesizer{
		client: client,
		config: config,
		log:    logger.WithComponent("tts"),
	}
}

// Speak synthesizes one piece of text to MP3 bytes.
func (s *Synthesizer) Speak(ctx context.Context, text string) ([]byte, error) {
	const op = "Speak"

	speakCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := s.client.CreateSpeech(speakCtx, openai.CreateSpeechRequest{
		Model:          s.config.Model,
		Voice:          s.config.Voice,
		Input:          text,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: read audio: %w", op, err)
	}
	return audio, nil
}

// SpeakSteps synthesizes audio for every narration step sequentially. Each
// result carries the step number; a failed step has an empty DataURI and is
// logged rather than propagated.
func (s *Synthesizer) SpeakSteps(ctx context.Context, steps []models.NarrationStep) []StepAudio {
	audios := make([]StepAudio, 0, len(steps))
	for _, step := range steps {
		audio := StepAudio{Step: step.StepNumber}
		data, err := s.Speak(ctx, step.Narrative)
		if err != nil {
			s.log.Warn().
				Err(err).
				Int("step", step.StepNumber).
				Msg("Speech synthesis failed for step, continuing without audio")
		} else {
			audio.DataURI = DataURI(data)
		}
		audios = append(audios, audio)
	}
	return audios
}

// DataURI encodes MP3 bytes as a data URI for inline embedding.
func DataURI(audio []byte) string {
	return "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(audio)
}
