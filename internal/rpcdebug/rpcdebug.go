// Package rpcdebug exposes a read-only gRPC introspection service over the
// running interpreter's GC stats and namespace/Var registry, with the
// service schema parsed from an embedded .proto string at process start —
// no protoc-generated code, the same runtime-proto-parsing approach the
// teacher's internal/evaluator/builtins_grpc.go uses for user-defined
// services via jhump/protoreflect's desc/protoparse + dynamic packages.
package rpcdebug

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/namespace"
)

const debugProtoSource = `
syntax = "proto3";
package coreclj.debug;

message StatsRequest {}
message StatsReply {
	int64 bytes_allocated = 1;
	int64 alloc_count = 2;
	int64 collect_count = 3;
	int64 threshold = 4;
}

message ListNamespacesRequest {}
message NamespaceInfo {
	string name = 1;
	int32 var_count = 2;
}
message ListNamespacesReply {
	repeated NamespaceInfo namespaces = 1;
}

message ListVarsRequest {
	string namespace = 1;
}
message VarInfo {
	string id = 1;
	string qualified_name = 2;
	bool macro = 3;
	bool dynamic = 4;
	bool bound = 5;
}
message ListVarsReply {
	repeated VarInfo vars = 1;
}

service DebugService {
	rpc GetStats(StatsRequest) returns (StatsReply);
	rpc ListNamespaces(ListNamespacesRequest) returns (ListNamespacesReply);
	rpc ListVars(ListVarsRequest) returns (ListVarsReply);
}
`

// Service implements the DebugService rpc methods by reading Heap and Env
// state directly — it never mutates the running interpreter.
type Service struct {
	Heap *gc.Heap
	Env  *namespace.Env

	fileDesc *desc.FileDescriptor
	svcDesc  *desc.ServiceDescriptor
}

// New parses the embedded proto schema and binds it to heap/env.
func New(h *gc.Heap, env *namespace.Env) (*Service, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{"debug.proto": debugProtoSource}),
	}
	fds, err := parser.ParseFiles("debug.proto")
	if err != nil {
		return nil, fmt.Errorf("rpcdebug: parsing embedded proto: %w", err)
	}
	fd := fds[0]
	sd := fd.FindService("coreclj.debug.DebugService")
	if sd == nil {
		return nil, fmt.Errorf("rpcdebug: embedded proto is missing DebugService")
	}
	return &Service{Heap: h, Env: env, fileDesc: fd, svcDesc: sd}, nil
}

// Register wires the service into a *grpc.Server using a hand-built
// ServiceDesc over dynamic messages, the same pattern the teacher's
// builtinGrpcRegister uses for user protocol registration (spec.md
// supplement — the introspection RPC surface has no analogue in spec.md's
// distilled scope, but SPEC_FULL.md's domain stack calls for exercising
// jhump/protoreflect + grpc for real rather than leaving them unwired).
func (s *Service) Register(server *grpc.Server) {
	method := func(name string, handler func(ctx context.Context, in *dynamic.Message) (*dynamic.Message, error)) grpc.MethodDesc {
		return grpc.MethodDesc{
			MethodName: name,
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				md := s.svcDesc.FindMethodByName(name)
				in := dynamic.NewMessage(md.GetInputType())
				if err := dec(in); err != nil {
					return nil, err
				}
				return handler(ctx, in)
			},
		}
	}

	gsd := &grpc.ServiceDesc{
		ServiceName: s.svcDesc.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Streams:     []grpc.StreamDesc{},
		Methods: []grpc.MethodDesc{
			method("GetStats", s.getStats),
			method("ListNamespaces", s.listNamespaces),
			method("ListVars", s.listVars),
		},
		Metadata: "debug.proto",
	}
	server.RegisterService(gsd, s)
}

func (s *Service) replyMessage(methodName string) *dynamic.Message {
	md := s.svcDesc.FindMethodByName(methodName)
	return dynamic.NewMessage(md.GetOutputType())
}

func setFields(msg *dynamic.Message, fields map[string]interface{}) error {
	for name, val := range fields {
		if err := msg.TrySetFieldByName(name, val); err != nil {
			return fmt.Errorf("setting field %s: %w", name, err)
		}
	}
	return nil
}

func (s *Service) getStats(ctx context.Context, in *dynamic.Message) (*dynamic.Message, error) {
	stats := s.Heap.Stats()
	out := s.replyMessage("GetStats")
	err := setFields(out, map[string]interface{}{
		"bytes_allocated": stats.BytesAllocated,
		"alloc_count":     stats.AllocCount,
		"collect_count":   stats.CollectCount,
		"threshold":       stats.Threshold,
	})
	return out, err
}

func (s *Service) listNamespaces(ctx context.Context, in *dynamic.Message) (*dynamic.Message, error) {
	out := s.replyMessage("ListNamespaces")
	infoDesc := s.svcDesc.GetFile().FindMessage("coreclj.debug.NamespaceInfo")
	var infos []interface{}
	for name, ns := range s.Env.Namespaces() {
		info := dynamic.NewMessage(infoDesc)
		if err := setFields(info, map[string]interface{}{
			"name":      name,
			"var_count": int32(len(ns.Mappings())),
		}); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := out.TrySetFieldByName("namespaces", infos); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) listVars(ctx context.Context, in *dynamic.Message) (*dynamic.Message, error) {
	nsNameVal, err := in.TryGetFieldByName("namespace")
	if err != nil {
		return nil, err
	}
	targetName, _ := nsNameVal.(string)

	out := s.replyMessage("ListVars")
	varInfoDesc := s.svcDesc.GetFile().FindMessage("coreclj.debug.VarInfo")

	ns, ok := s.Env.Find(targetName)
	if !ok {
		return out, nil
	}
	var infos []interface{}
	for _, v := range ns.Mappings() {
		info := dynamic.NewMessage(varInfoDesc)
		if err := setFields(info, map[string]interface{}{
			"id":             v.ID.String(),
			"qualified_name": v.Qualified(),
			"macro":          v.Macro,
			"dynamic":        v.Dynamic,
			"bound":          v.Root != nil,
		}); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := out.TrySetFieldByName("vars", infos); err != nil {
		return nil, err
	}
	return out, nil
}
