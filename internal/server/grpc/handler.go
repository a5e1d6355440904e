package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	pb "github.com/dmitrijs2005/zkpauth/internal/proto"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Internal failures
// carry no detail.
func toStatus(err error) error {
	if errors.Is(err, common.ErrorUnauthorized) {
		return status.Error(codes.Unauthenticated, "unauthenticated")
	}

	switch common.KindOf(err) {
	case common.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case common.KindPermissionDenied:
		return status.Error(codes.PermissionDenied, err.Error())
	case common.KindInvalidArgument:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	if err := s.auth.Register(ctx, req.User, req.Y1, req.Y2); err != nil {
		return nil, toStatus(err)
	}
	return &pb.RegisterResponse{}, nil
}

func (s *GRPCServer) CreateAuthenticationChallenge(ctx context.Context, req *pb.AuthenticationChallengeRequest) (*pb.AuthenticationChallengeResponse, error) {
	ch, err := s.auth.CreateChallenge(ctx, req.User, req.R1, req.R2)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.AuthenticationChallengeResponse{AuthId: ch.AuthID, C: zkp.EncodeInt(ch.C)}, nil
}

func (s *GRPCServer) VerifyAuthentication(ctx context.Context, req *pb.AuthenticationAnswerRequest) (*pb.AuthenticationAnswerResponse, error) {
	sess, err := s.auth.VerifyAuthentication(ctx, req.AuthId, req.S)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.AuthenticationAnswerResponse{SessionId: sess.SessionID, AccessToken: sess.AccessToken}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Whoami(ctx context.Context, req *pb.WhoamiRequest) (*pb.WhoamiResponse, error) {
	token, _ := ctx.Value(accessTokenKey).(string)

	id, err := s.auth.Whoami(ctx, token)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.WhoamiResponse{User: id.Username, SessionId: id.SessionID}, nil
}
