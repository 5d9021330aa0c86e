package grpc

// Service definition for agricgrow.lending.v1.LendingService. Messages are
// the application DTOs carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/olonibua/agricgrow-sub000/internal/application/dto"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "agricgrow.lending.v1.LendingService"

// LendingServiceServer is the server API for LendingService.
type LendingServiceServer interface {
	AssessRisk(context.Context, *dto.AssessRiskRequest) (*dto.RiskAssessmentResponse, error)
	PreviewSchedule(context.Context, *dto.PreviewScheduleRequest) (*dto.ScheduleResponse, error)
	SubmitApplication(context.Context, *dto.SubmitApplicationRequest) (*dto.LoanApplicationResponse, error)
	GetApplication(context.Context, *dto.GetApplicationRequest) (*dto.LoanApplicationResponse, error)
	ApproveLoan(context.Context, *dto.ApproveLoanRequest) (*dto.ApproveLoanResponse, error)
	GetLoan(context.Context, *dto.GetLoanRequest) (*dto.LoanResponse, error)
	RecordRepayment(context.Context, *dto.RecordRepaymentRequest) (*dto.RepaymentResponse, error)
	SweepOverdue(context.Context, *dto.SweepOverdueRequest) (*dto.SweepOverdueResponse, error)
	mustEmbedUnimplementedLendingServiceServer()
}

// UnimplementedLendingServiceServer provides forward-compatible default implementations.
type UnimplementedLendingServiceServer struct{}

func (UnimplementedLendingServiceServer) AssessRisk(context.Context, *dto.AssessRiskRequest) (*dto.RiskAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessRisk not implemented")
}
func (UnimplementedLendingServiceServer) PreviewSchedule(context.Context, *dto.PreviewScheduleRequest) (*dto.ScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PreviewSchedule not implemented")
}
func (UnimplementedLendingServiceServer) SubmitApplication(context.Context, *dto.SubmitApplicationRequest) (*dto.LoanApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitApplication not implemented")
}
func (UnimplementedLendingServiceServer) GetApplication(context.Context, *dto.GetApplicationRequest) (*dto.LoanApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetApplication not implemented")
}
func (UnimplementedLendingServiceServer) ApproveLoan(context.Context, *dto.ApproveLoanRequest) (*dto.ApproveLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApproveLoan not implemented")
}
func (UnimplementedLendingServiceServer) GetLoan(context.Context, *dto.GetLoanRequest) (*dto.LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedLendingServiceServer) RecordRepayment(context.Context, *dto.RecordRepaymentRequest) (*dto.RepaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordRepayment not implemented")
}
func (UnimplementedLendingServiceServer) SweepOverdue(context.Context, *dto.SweepOverdueRequest) (*dto.SweepOverdueResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SweepOverdue not implemented")
}
func (UnimplementedLendingServiceServer) mustEmbedUnimplementedLendingServiceServer() {}

// RegisterLendingServiceServer registers the LendingServiceServer with the gRPC server.
func RegisterLendingServiceServer(s grpclib.ServiceRegistrar, srv LendingServiceServer) {
	s.RegisterService(&lendingServiceDesc, srv)
}

var lendingServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LendingServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AssessRisk", Handler: unaryHandler("AssessRisk", LendingServiceServer.AssessRisk)},
		{MethodName: "PreviewSchedule", Handler: unaryHandler("PreviewSchedule", LendingServiceServer.PreviewSchedule)},
		{MethodName: "SubmitApplication", Handler: unaryHandler("SubmitApplication", LendingServiceServer.SubmitApplication)},
		{MethodName: "GetApplication", Handler: unaryHandler("GetApplication", LendingServiceServer.GetApplication)},
		{MethodName: "ApproveLoan", Handler: unaryHandler("ApproveLoan", LendingServiceServer.ApproveLoan)},
		{MethodName: "GetLoan", Handler: unaryHandler("GetLoan", LendingServiceServer.GetLoan)},
		{MethodName: "RecordRepayment", Handler: unaryHandler("RecordRepayment", LendingServiceServer.RecordRepayment)},
		{MethodName: "SweepOverdue", Handler: unaryHandler("SweepOverdue", LendingServiceServer.SweepOverdue)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "agricgrow/lending/v1/lending.proto",
}

// unaryHandler builds the decode/intercept/dispatch glue protoc-gen-go-grpc
// would otherwise generate once per method.
func unaryHandler[Req, Resp any](
	method string,
	call func(LendingServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LendingServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LendingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
