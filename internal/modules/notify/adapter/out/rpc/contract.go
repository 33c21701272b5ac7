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
	PluginMapKey      = "octowatch"
	serviceName       = "octowatch.channel.v1.Channel"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodDeliver     = "/" + serviceName + "/Deliver"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "OCTOWATCH_CHANNEL",
	MagicCookieValue: "octowatch",
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
	Name    string `json:"name"`
	Version string `json:"version"`
}

type DeliverRequest struct {
	Message string `json:"message"`
	Tag     string `json:"tag"`
}

type DeliverResponse struct {
	Accepted bool   `json:"accepted"`
	Detail   string `json:"detail"`
}

type ChannelServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Deliver(ctx context.Context, in *DeliverRequest) (*DeliverResponse, error)
}

type ChannelClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Deliver(ctx context.Context, in *DeliverRequest) (*DeliverResponse, error)
}

type channelClient struct {
	conn *grpc.ClientConn
}

func NewChannelClient(conn *grpc.ClientConn) ChannelClient {
	return &channelClient{conn: conn}
}

func (c *channelClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *channelClient) Deliver(ctx context.Context, in *DeliverRequest) (*DeliverResponse, error) {
	out := &DeliverResponse{}
	if err := c.conn.Invoke(ctx, methodDeliver, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterChannelServer(server grpc.ServiceRegistrar, impl ChannelServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*ChannelServer)(nil),
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
				MethodName: "Deliver",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &DeliverRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Deliver(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDeliver}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*DeliverRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Deliver(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/channel-rpc-v1.proto",
	}, impl)
}

type GRPCChannel struct {
	plugin.NetRPCUnsupportedPlugin
	Impl ChannelServer
}

func (p *GRPCChannel) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterChannelServer(server, p.Impl)
	return nil
}

func (p *GRPCChannel) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewChannelClient(conn), nil
}

func PluginMap(impl ChannelServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCChannel{Impl: impl},
	}
}
