package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	SourceMapKey      = "klangkiosk"
	serviceName       = "klangkiosk.source.v1.CaptureSource"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodReadFrame   = "/" + serviceName + "/ReadFrame"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "KLANGKIOSK_SOURCE",
	MagicCookieValue: "klangkiosk",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	SampleRate int    `json:"sample_rate"`
	FFTSize    int    `json:"fft_size"`
}

type FrameResponse struct {
	Bins       []float64 `json:"bins"`
	SampleRate int       `json:"sample_rate"`
	FFTSize    int       `json:"fft_size"`
}

type CaptureSourceServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	ReadFrame(ctx context.Context, in *Empty) (*FrameResponse, error)
}

type CaptureSourceClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	ReadFrame(ctx context.Context) (*FrameResponse, error)
}

type captureSourceClient struct {
	conn *grpc.ClientConn
}

func NewCaptureSourceClient(conn *grpc.ClientConn) CaptureSourceClient {
	return &captureSourceClient{conn: conn}
}

func (c *captureSourceClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *captureSourceClient) ReadFrame(ctx context.Context) (*FrameResponse, error) {
	out := &FrameResponse{}
	if err := c.conn.Invoke(ctx, methodReadFrame, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterCaptureSourceServer(server grpc.ServiceRegistrar, impl CaptureSourceServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CaptureSourceServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "ReadFrame",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.ReadFrame(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodReadFrame}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.ReadFrame(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/source-rpc-v1.proto",
	}, impl)
}

type GRPCSourcePlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CaptureSourceServer
}

func (p *GRPCSourcePlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCaptureSourceServer(server, p.Impl)
	return nil
}

func (p *GRPCSourcePlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCaptureSourceClient(conn), nil
}

func SourceMap(impl CaptureSourceServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		SourceMapKey: &GRPCSourcePlugin{Impl: impl},
	}
}
