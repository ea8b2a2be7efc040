// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"fmt"
	"io"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
)

// AudioSource supplies encoded microphone audio. Implementations wrap
// a platform capture device; tests use in-memory sources.
type AudioSource interface {
	// Open acquires the capture device. Failure (permission denied,
	// no device) aborts session setup.
	Open() error

	// Read blocks until the next sample is available. Returns io.EOF
	// when the source is exhausted or closed.
	Read() (media.Sample, error)

	// Close releases the capture device. Unblocks any pending Read.
	Close() error
}

// AudioSink plays back the model's audio. Write errors are reported
// through the transport's async error callback and abort the session.
type AudioSink interface {
	// Write plays one encoded audio frame.
	Write(frame []byte) error

	// Close releases the playback device.
	Close() error
}

// RTPAudioSink consumes full RTP packets instead of bare payloads.
// Container writers need the RTP timestamps to place frames; when a
// sink implements this, the transport delivers packets through it and
// never calls Write.
type RTPAudioSink interface {
	AudioSink
	WriteRTP(packet *rtp.Packet) error
}

// AttachLocalAudio opens the microphone source and pumps its samples
// into an outbound audio track. Fails with an error wrapping
// [ErrDevice] when the source cannot be opened; the caller must abort
// the session.
func (t *Transport) AttachLocalAudio(source AudioSource) error {
	connection := t.peerConnection()
	if connection == nil {
		return fmt.Errorf("%w: no peer connection", ErrChannel)
	}

	if err := source.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrDevice, err)
	}

	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus},
		"audio", "camio-microphone",
	)
	if err != nil {
		source.Close()
		return fmt.Errorf("creating local audio track: %w", err)
	}
	if _, err := connection.AddTrack(track); err != nil {
		source.Close()
		return fmt.Errorf("adding local audio track: %w", err)
	}

	done := make(chan struct{})
	t.mu.Lock()
	t.source = source
	t.sourceDone = done
	t.mu.Unlock()

	go t.pumpLocalAudio(source, track, done)
	return nil
}

// pumpLocalAudio copies samples from the capture source to the
// outbound track until the source is exhausted or the transport closes.
func (t *Transport) pumpLocalAudio(source AudioSource, track *webrtc.TrackLocalStaticSample, done chan<- struct{}) {
	defer close(done)
	for {
		sample, err := source.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.reportAsync(fmt.Errorf("%w: reading microphone: %v", ErrDevice, err))
			}
			return
		}
		if err := track.WriteSample(sample); err != nil {
			// Writes fail after teardown; late pump iterations are
			// expected no-ops, not faults.
			if t.peerConnection() == nil {
				return
			}
			t.reportAsync(fmt.Errorf("writing local audio sample: %w", err))
			return
		}
	}
}

// AttachRemoteAudioSink registers playback for inbound audio tracks.
// Playback errors surface through the async error callback, not a
// return value, and must abort the session.
func (t *Transport) AttachRemoteAudioSink(sink AudioSink) error {
	connection := t.peerConnection()
	if connection == nil {
		return fmt.Errorf("%w: no peer connection", ErrChannel)
	}

	t.mu.Lock()
	t.sink = sink
	t.mu.Unlock()

	connection.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		t.logger.Debug("remote track attached", "codec", track.Codec().MimeType)
		go t.pumpRemoteAudio(track, sink)
	})
	return nil
}

// pumpRemoteAudio copies RTP payloads from a remote track to the
// playback sink until the track ends or the transport closes.
func (t *Transport) pumpRemoteAudio(track *webrtc.TrackRemote, sink AudioSink) {
	rtpSink, wantsRTP := sink.(RTPAudioSink)
	for {
		packet, _, err := track.ReadRTP()
		if err != nil {
			// Track read errors after teardown are expected; a live
			// transport losing its inbound track is not.
			if !errors.Is(err, io.EOF) && t.peerConnection() != nil {
				t.reportAsync(fmt.Errorf("reading remote audio: %w", err))
			}
			return
		}
		if wantsRTP {
			err = rtpSink.WriteRTP(packet)
		} else {
			err = sink.Write(packet.Payload)
		}
		if err != nil {
			t.reportAsync(fmt.Errorf("audio playback: %w", err))
			return
		}
	}
}
