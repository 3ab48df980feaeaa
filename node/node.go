// Package node lets a machine render jobs sent from other machines.
//
// A render node runs one job at a time with it's local renderer
// and settings. Jobs are sent with a RenderNode gRPC call.
package node

import (
	"context"
	"errors"
	"sync"

	"github.com/imagvfx/renderq"
	"github.com/imagvfx/renderq/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// ErrNodeBusy is returned when a node is already rendering a job.
var ErrNodeBusy = errors.New("render node is busy")

const (
	serviceName  = "renderq.RenderNode"
	renderMethod = "/" + serviceName + "/Render"
	statusMethod = "/" + serviceName + "/Status"
)

// RenderRequest asks a node to render a job.
type RenderRequest struct {
	Job renderq.Job
}

// RenderResponse is the result of a job rendered by a node.
// A failed render is not an RPC error, Error tells it instead.
type RenderResponse struct {
	// Job is the rendered job. It has an ID given by the node when
	// the requested job didn't have one.
	Job      renderq.Job
	Results  []renderq.CommandResult
	ExitCode int
	Error    string `json:",omitempty"`
}

// StatusRequest asks a node what it's doing.
type StatusRequest struct{}

// StatusResponse tells whether a node is rendering, and which job.
type StatusResponse struct {
	Busy bool
	Job  *renderq.Job `json:",omitempty"`
}

// RenderNodeServer is the server API for RenderNode service.
type RenderNodeServer interface {
	Render(context.Context, *RenderRequest) (*RenderResponse, error)
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
}

// Server renders jobs requested to the node.
type Server struct {
	renderer renderq.JobRenderer
	runner   *renderq.Runner
	settings *renderq.SettingsFile
	logger   log.Logger

	mu sync.Mutex
	// running is the job currently rendering. It is nil while idle.
	running *renderq.Job
	// current is the settings the node has.
	current renderq.Settings
	// pending indicates current should be applied to the runner
	// before the next render.
	pending bool
}

// NewServer creates a Server.
// Jobs are rendered with r, which should render with runner.
// Settings saved to the server go into settings, and are applied to runner.
func NewServer(r renderq.JobRenderer, runner *renderq.Runner, settings *renderq.SettingsFile, current renderq.Settings, logger log.Logger) *Server {
	return &Server{
		renderer: r,
		runner:   runner,
		settings: settings,
		current:  current,
		logger:   logger,
	}
}

// Render implements RenderNodeServer.
func (s *Server) Render(ctx context.Context, req *RenderRequest) (*RenderResponse, error) {
	j := req.Job
	if err := j.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	s.mu.Lock()
	if s.running != nil {
		s.mu.Unlock()
		return nil, status.Error(codes.ResourceExhausted, ErrNodeBusy.Error())
	}
	if s.pending {
		s.runner.Apply(s.current)
		s.pending = false
	}
	s.running = &j
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = nil
		s.mu.Unlock()
	}()

	s.logger.Noticef("render requested: %v", j.Label())
	res, err := s.renderer.Render(ctx, j)
	resp := &RenderResponse{
		Job:      res.Job,
		Results:  res.Commands,
		ExitCode: res.ExitCode(),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp, nil
}

// Status implements RenderNodeServer.
func (s *Server) Status(ctx context.Context, req *StatusRequest) (*StatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := &StatusResponse{Busy: s.running != nil}
	if s.running != nil {
		j := *s.running
		resp.Job = &j
	}
	return resp, nil
}

// Settings returns the node's settings.
func (s *Server) Settings() renderq.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SaveSettings saves the settings and applies them to the node's runner.
// When a job is rendering, they are applied right before the next job.
func (s *Server) SaveSettings(st renderq.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.settings.Save(st)
	if err != nil {
		return err
	}
	s.current = st
	if s.running != nil {
		s.pending = true
		return nil
	}
	s.runner.Apply(st)
	s.pending = false
	return nil
}

// Register registers the server to a grpc server.
func Register(gs *grpc.Server, srv RenderNodeServer) {
	gs.RegisterService(&renderNodeServiceDesc, srv)
}

var renderNodeServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RenderNodeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Render",
			Handler:    renderHandler,
		},
		{
			MethodName: "Status",
			Handler:    statusHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

func renderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RenderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RenderNodeServer).Render(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: renderMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RenderNodeServer).Render(ctx, req.(*RenderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RenderNodeServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: statusMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RenderNodeServer).Status(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client sends jobs to a render node.
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a client of the node at addr.
// The connection is made lazily, on the first call.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection to the node.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Render asks the node to render the job and waits until it finishes.
// It returns ErrNodeBusy when the node is rendering another job.
func (c *Client) Render(ctx context.Context, j renderq.Job) (*RenderResponse, error) {
	out := new(RenderResponse)
	err := c.conn.Invoke(ctx, renderMethod, &RenderRequest{Job: j}, out)
	if err != nil {
		if status.Code(err) == codes.ResourceExhausted {
			return nil, ErrNodeBusy
		}
		return nil, err
	}
	return out, nil
}

// Status asks the node's status.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	out := new(StatusResponse)
	err := c.conn.Invoke(ctx, statusMethod, &StatusRequest{}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
