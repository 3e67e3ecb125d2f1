package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	sourcerpc "klangkiosk/internal/modules/analyzer/adapter/out/rpc"
	"klangkiosk/internal/modules/analyzer/domain"
	analyzerout "klangkiosk/internal/modules/analyzer/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 2 * time.Second
)

// GRPCSourceHost runs capture-source plugins. Unlike one-shot command
// plugins, a frame stream keeps its plugin process alive between reads: Open
// spawns it once and Close kills it.
type GRPCSourceHost struct{}

func NewGRPCSourceHost() analyzerout.SourceHost {
	return &GRPCSourceHost{}
}

func (h *GRPCSourceHost) Describe(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	if !manifest.Enabled {
		return domain.Metadata{}, domain.ErrSourceDisabled
	}
	client, closeFn, err := connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, SampleRate: meta.SampleRate, FFTSize: meta.FFTSize}, nil
}

func (h *GRPCSourceHost) Open(_ context.Context, manifest domain.Manifest) (analyzerout.FrameSource, error) {
	if !manifest.Enabled {
		return nil, domain.ErrSourceDisabled
	}
	return &pluginStream{manifest: manifest}, nil
}

// pluginStream is a FrameSource backed by a live plugin process.
type pluginStream struct {
	manifest domain.Manifest
	client   sourcerpc.CaptureSourceClient
	closeFn  func()
}

func (s *pluginStream) Open(ctx context.Context) error {
	if s.client != nil {
		return nil
	}
	client, closeFn, err := connect(s.manifest)
	if err != nil {
		return err
	}
	callCtx, cancel := callContext(ctx)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		closeFn()
		return fmt.Errorf("source handshake: %w", err)
	}
	s.client = client
	s.closeFn = closeFn
	return nil
}

func (s *pluginStream) Read(ctx context.Context) (domain.Frame, error) {
	if s.client == nil {
		return domain.Frame{}, domain.ErrStreamClosed
	}
	callCtx, cancel := callContext(ctx)
	defer cancel()
	frame, err := s.client.ReadFrame(callCtx)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("read frame: %w", err)
	}
	return domain.Frame{Bins: frame.Bins, SampleRate: frame.SampleRate, FFTSize: frame.FFTSize}, nil
}

func (s *pluginStream) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	s.client = nil
	s.closeFn = nil
	return nil
}

func connect(manifest domain.Manifest) (sourcerpc.CaptureSourceClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  sourcerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          sourcerpc.SourceMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start source client: %w", err)
	}
	raw, err := rpcClient.Dispense(sourcerpc.SourceMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense source: %w", err)
	}
	typed, ok := raw.(sourcerpc.CaptureSourceClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("source rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, defaultCallTimeout)
}
