package transcribe

import (
	"context"
	"errors"
	"hash/fnv"
)

// Simulated is a deterministic offline backend for development and tests.
// The same audio payload always produces the same transcript, which keeps the
// ingestion dedup behavior observable without real speech-to-text.
type Simulated struct {
	transcripts []string
}

var simulatedTranscripts = []string{
	"I grew up in a small town near the coast.",
	"My grandmother taught me how to bake bread on Sunday mornings.",
	"The year I turned twenty I moved to the city with one suitcase.",
	"We spent every summer by the lake, swimming until sunset.",
	"My first job was sweeping floors in my uncle's workshop.",
	"I remember the day my daughter was born like it was yesterday.",
}

// NewSimulated constructs the simulated backend.
func NewSimulated() *Simulated {
	return &Simulated{transcripts: simulatedTranscripts}
}

// Name identifies the backend in logs.
func (s *Simulated) Name() string { return "simulated" }

// Transcribe picks a canned snippet keyed on the payload contents.
func (s *Simulated) Transcribe(_ context.Context, audio []byte, _ string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("transcribe: audio payload required")
	}
	hasher := fnv.New32a()
	_, _ = hasher.Write(audio)
	return s.transcripts[hasher.Sum32()%uint32(len(s.transcripts))], nil
}
