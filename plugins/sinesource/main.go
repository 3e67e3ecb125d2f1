package main

import (
	"context"
	"math"
	"sync"

	"github.com/hashicorp/go-plugin"

	sourcerpc "klangkiosk/internal/modules/analyzer/adapter/out/rpc"
)

const (
	sampleRate = 44100
	fftSize    = 2048
)

// script is the tone sequence this source loops: the three default mission
// targets with a short rest after each, so a kiosk without a microphone can
// still demonstrate the full Stimmspiel flow.
var script = []struct {
	frequencyHz float64
	frames      int
}{
	{220, 80},
	{0, 20},
	{440, 80},
	{0, 20},
	{659.26, 80},
	{0, 20},
}

type server struct {
	mu      sync.Mutex
	segment int
	frame   int
}

func (s *server) GetMetadata(_ context.Context, _ *sourcerpc.Empty) (*sourcerpc.Metadata, error) {
	return &sourcerpc.Metadata{
		Name:       "sinesource",
		Version:    "1.0.0",
		SampleRate: sampleRate,
		FFTSize:    fftSize,
	}, nil
}

func (s *server) ReadFrame(_ context.Context, _ *sourcerpc.Empty) (*sourcerpc.FrameResponse, error) {
	s.mu.Lock()
	segment := script[s.segment]
	s.frame++
	if s.frame >= segment.frames {
		s.frame = 0
		s.segment = (s.segment + 1) % len(script)
	}
	s.mu.Unlock()

	bins := make([]float64, fftSize/2)
	for i := range bins {
		bins[i] = 0.004
	}
	if segment.frequencyHz > 0 {
		peak := int(math.Round(segment.frequencyHz * fftSize / sampleRate))
		if peak > 0 && peak < len(bins) {
			bins[peak] = 0.9
			if peak-1 > 0 {
				bins[peak-1] = 0.3
			}
			if peak+1 < len(bins) {
				bins[peak+1] = 0.3
			}
		}
	}
	return &sourcerpc.FrameResponse{Bins: bins, SampleRate: sampleRate, FFTSize: fftSize}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: sourcerpc.HandshakeConfig,
		Plugins:         sourcerpc.SourceMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
