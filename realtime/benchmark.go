// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BenchmarkQuestion is one scripted fixture entry: the position and
// hotspot to simulate, and the question to ask.
type BenchmarkQuestion struct {
	Position Position
	Hotspot  string
	Question string
}

// benchmarkFixture is the YAML shape of a fixture file. X and Y are
// pointers so an omitted coordinate means "not pointing".
type benchmarkFixture struct {
	Questions []struct {
		X        *int   `yaml:"x"`
		Y        *int   `yaml:"y"`
		Hotspot  string `yaml:"hotspot"`
		Question string `yaml:"question"`
	} `yaml:"questions"`
}

// LoadBenchmarkQuestions reads a fixture file.
func LoadBenchmarkQuestions(path string) ([]BenchmarkQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading benchmark fixtures: %w", err)
	}
	var fixture benchmarkFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parsing benchmark fixtures %s: %w", path, err)
	}

	questions := make([]BenchmarkQuestion, 0, len(fixture.Questions))
	for _, entry := range fixture.Questions {
		question := BenchmarkQuestion{
			Hotspot:  entry.Hotspot,
			Question: entry.Question,
		}
		if entry.X != nil && entry.Y != nil {
			question.Position = Position{X: *entry.X, Y: *entry.Y, Pointing: true}
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// Benchmark replays a scripted question list and records per-question
// response latency. It is reusable: exhausting the list resets it for
// a subsequent run.
type Benchmark struct {
	questions []BenchmarkQuestion
	next      int
	latencies []time.Duration
}

// NewBenchmark creates a runner over the given fixture entries.
func NewBenchmark(questions []BenchmarkQuestion) *Benchmark {
	return &Benchmark{questions: questions}
}

// Len returns the number of fixture entries.
func (b *Benchmark) Len() int { return len(b.questions) }

// Next returns the next fixture entry. ok is false when the list is
// exhausted; the run must conclude with [Benchmark.Conclude].
func (b *Benchmark) Next() (question BenchmarkQuestion, ok bool) {
	if b.next >= len(b.questions) {
		return BenchmarkQuestion{}, false
	}
	question = b.questions[b.next]
	b.next++
	return question, true
}

// Record adds one measured round-trip latency.
func (b *Benchmark) Record(latency time.Duration) {
	b.latencies = append(b.latencies, latency)
}

// Conclude computes the arithmetic mean of the recorded latencies and
// resets the runner so it can be triggered again. The mean is zero
// when no latencies were recorded.
func (b *Benchmark) Conclude() time.Duration {
	var total time.Duration
	for _, latency := range b.latencies {
		total += latency
	}
	var mean time.Duration
	if len(b.latencies) > 0 {
		mean = total / time.Duration(len(b.latencies))
	}
	b.latencies = nil
	b.next = 0
	return mean
}
