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
	PluginMapKey            = "notifier"
	serviceName             = "tempo.notifier.v1.Notifier"
	jsonCodecName           = "json"
	methodRequestPermission = "/" + serviceName + "/RequestPermission"
	methodSchedule          = "/" + serviceName + "/Schedule"
	methodCancel            = "/" + serviceName + "/Cancel"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TEMPO_NOTIFIER",
	MagicCookieValue: "tempo",
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

type PermissionResponse struct {
	Granted bool `json:"granted"`
}

type ScheduleRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	TriggerInMS int64  `json:"trigger_in_ms"`
}

type ScheduleResponse struct {
	Handle string `json:"handle"`
}

type CancelRequest struct {
	Handle string `json:"handle"`
}

type NotifierServer interface {
	RequestPermission(ctx context.Context, in *Empty) (*PermissionResponse, error)
	Schedule(ctx context.Context, in *ScheduleRequest) (*ScheduleResponse, error)
	Cancel(ctx context.Context, in *CancelRequest) (*Empty, error)
}

type NotifierClient interface {
	RequestPermission(ctx context.Context) (*PermissionResponse, error)
	Schedule(ctx context.Context, in *ScheduleRequest) (*ScheduleResponse, error)
	Cancel(ctx context.Context, in *CancelRequest) error
}

type notifierClient struct {
	conn *grpc.ClientConn
}

func NewNotifierClient(conn *grpc.ClientConn) NotifierClient {
	return &notifierClient{conn: conn}
}

func (c *notifierClient) RequestPermission(ctx context.Context) (*PermissionResponse, error) {
	out := &PermissionResponse{}
	if err := c.conn.Invoke(ctx, methodRequestPermission, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notifierClient) Schedule(ctx context.Context, in *ScheduleRequest) (*ScheduleResponse, error) {
	out := &ScheduleResponse{}
	if err := c.conn.Invoke(ctx, methodSchedule, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notifierClient) Cancel(ctx context.Context, in *CancelRequest) error {
	return c.conn.Invoke(ctx, methodCancel, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](fullMethod string, call func(context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterNotifierServer(server grpc.ServiceRegistrar, impl NotifierServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*NotifierServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "RequestPermission", Handler: unary(methodRequestPermission, impl.RequestPermission)},
			{MethodName: "Schedule", Handler: unary(methodSchedule, impl.Schedule)},
			{MethodName: "Cancel", Handler: unary(methodCancel, impl.Cancel)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/notifier-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl NotifierServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterNotifierServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewNotifierClient(conn), nil
}

func PluginMap(impl NotifierServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
