// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/pion/webrtc/v4/pkg/media/oggreader"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
)

// opusSampleRate is the clock rate of the Opus RTP streams both
// directions use.
const opusSampleRate = 48000

// OggFileSource reads Opus audio from an Ogg container and replays it
// in real time, page by page. It stands in for a microphone in
// scripted and headless runs.
type OggFileSource struct {
	// Path is the Ogg file to replay.
	Path string

	file        *os.File
	reader      *oggreader.OggReader
	lastGranule uint64
}

// Open implements AudioSource.
func (s *OggFileSource) Open() error {
	file, err := os.Open(s.Path)
	if err != nil {
		return err
	}
	reader, _, err := oggreader.NewWith(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("parsing ogg container %s: %w", s.Path, err)
	}
	s.file = file
	s.reader = reader
	return nil
}

// Read returns the next Opus page, pacing delivery to the page
// duration so the outbound track plays at natural speed.
func (s *OggFileSource) Read() (media.Sample, error) {
	if s.reader == nil {
		return media.Sample{}, io.EOF
	}
	data, header, err := s.reader.ParseNextPage()
	if err != nil {
		return media.Sample{}, err
	}

	// Page duration comes from the granule position delta (samples at
	// the Opus clock rate).
	samples := header.GranulePosition - s.lastGranule
	s.lastGranule = header.GranulePosition
	duration := time.Duration(samples) * time.Second / opusSampleRate

	time.Sleep(duration)
	return media.Sample{Data: data, Duration: duration}, nil
}

// Close implements AudioSource. Unblocks a pending Read by closing the
// underlying file.
func (s *OggFileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.reader = nil
	return err
}

// OggFileSink records the model's audio into an Ogg container. It
// stands in for a playback device in scripted and headless runs.
type OggFileSink struct {
	writer *oggwriter.OggWriter
}

// NewOggFileSink creates the output container at path.
func NewOggFileSink(path string) (*OggFileSink, error) {
	writer, err := oggwriter.New(path, opusSampleRate, 2)
	if err != nil {
		return nil, fmt.Errorf("creating ogg output %s: %w", path, err)
	}
	return &OggFileSink{writer: writer}, nil
}

// WriteRTP implements RTPAudioSink; the transport delivers full
// packets here so the container gets real timestamps.
func (s *OggFileSink) WriteRTP(packet *rtp.Packet) error {
	return s.writer.WriteRTP(packet)
}

// Write implements AudioSink. Never reached: the transport prefers
// WriteRTP on sinks that provide it.
func (s *OggFileSink) Write([]byte) error {
	return fmt.Errorf("ogg sink requires RTP framing")
}

// Close finalizes the container.
func (s *OggFileSink) Close() error {
	return s.writer.Close()
}
