package invoicesrc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	InvoiceServiceName    = "invoices.v1.InvoiceService"
	ListInvoicesMethod    = "/" + InvoiceServiceName + "/ListInvoices"
	authorizationMetadata = "authorization"
)

// InvoiceServer is the server side of the invoice service. The response is
// the JSON envelope carried as a google.protobuf.Struct.
type InvoiceServer interface {
	ListInvoices(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

func listInvoicesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InvoiceServer).ListInvoices(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListInvoicesMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InvoiceServer).ListInvoices(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// InvoiceServiceDesc describes the single-method invoice service.
var InvoiceServiceDesc = grpc.ServiceDesc{
	ServiceName: InvoiceServiceName,
	HandlerType: (*InvoiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListInvoices", Handler: listInvoicesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "invoices/v1/invoices.proto",
}

// RegisterInvoiceServer attaches srv to a gRPC server.
func RegisterInvoiceServer(s grpc.ServiceRegistrar, srv InvoiceServer) {
	s.RegisterService(&InvoiceServiceDesc, srv)
}

// EnvelopeStruct renders invoices as the Struct payload of ListInvoices.
func EnvelopeStruct(list []models.Invoice) (*structpb.Struct, error) {
	b, err := EncodeInvoices(list)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func decodeStruct(s *structpb.Struct) ([]models.Invoice, error) {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return DecodeInvoicesBytes(b)
}

// GRPCSource calls ListInvoices on a remote invoice service.
type GRPCSource struct {
	conn   grpc.ClientConnInterface
	closer func() error
	signer *Signer
}

// NewGRPCSource dials target without transport security. The connection is
// established lazily on the first call.
func NewGRPCSource(target string, signer *Signer, opts ...grpc.DialOption) (*GRPCSource, error) {
	s := &GRPCSource{signer: signer}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.authInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.closer = conn.Close
	return s, nil
}

func (s *GRPCSource) authInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.RequestIDHeaderName, uuid.NewString())

	auth, err := s.signer.Authorization()
	if err != nil {
		return fmt.Errorf("sign request: %w", err)
	}
	if auth != "" {
		md.Set(authorizationMetadata, auth)
	}

	return invoker(metadata.NewOutgoingContext(ctx, md), method, req, reply, cc, opts...)
}

// FetchAll calls ListInvoices. Status codes map onto fetch kinds:
// Unavailable is Network, Canceled is Unknown, everything else is Server.
func (s *GRPCSource) FetchAll(ctx context.Context) ([]models.Invoice, error) {
	out := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, ListInvoicesMethod, &emptypb.Empty{}, out); err != nil {
		return nil, mapGRPCError(err)
	}

	list, err := decodeStruct(out)
	if err != nil {
		return nil, common.NewFetchError(common.FetchUnknown, err)
	}
	return list, nil
}

// Close releases the underlying connection.
func (s *GRPCSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func mapGRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return common.AsFetchError(err)
	}
	switch st.Code() {
	case codes.Unavailable:
		return common.NewFetchError(common.FetchNetwork, err)
	case codes.Canceled:
		return common.NewFetchError(common.FetchUnknown, err)
	default:
		return common.NewFetchError(common.FetchServer, err)
	}
}

// SourceServer exposes any Source as an InvoiceServer. When secret is set,
// callers must present a bearer token signed with it.
type SourceServer struct {
	source Source
	secret []byte
}

// NewSourceServer serves source over gRPC. With an empty secret every caller
// is accepted.
func NewSourceServer(source Source, secret []byte) *SourceServer {
	return &SourceServer{source: source, secret: secret}
}

// ListInvoices checks the bearer token, then returns the source contents as
// the wire envelope. A source failure is reported as Unavailable.
func (s *SourceServer) ListInvoices(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if len(s.secret) > 0 {
		md, _ := metadata.FromIncomingContext(ctx)
		vals := md.Get(authorizationMetadata)
		if len(vals) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}
		if _, err := VerifyAuthorization(vals[0], s.secret); err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
	}

	list, err := s.source.FetchAll(ctx)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	res, err := EnvelopeStruct(list)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return res, nil
}
