package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"task-manager/internal/model"
	"task-manager/internal/service"
)

// Server exposes the task and category services over gRPC.
type Server struct {
	tasks      *service.TaskService
	categories *service.CategoryService
}

func NewServer(tasks *service.TaskService, categories *service.CategoryService) *Server {
	return &Server{tasks: tasks, categories: categories}
}

// NewGRPCServer builds a grpc.Server with the logging interceptor, the task
// manager service and the standard health service registered.
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryServerLogging)}, opts...)
	gs := grpc.NewServer(opts...)
	RegisterTaskManagerServer(gs, srv)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs
}

func (s *Server) ListTasks(ctx context.Context, _ *ListTasksRequest) (*TaskList, error) {
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return &TaskList{Tasks: tasks}, nil
}

func (s *Server) GetTask(ctx context.Context, req *IDRequest) (*model.Task, error) {
	task, err := s.tasks.GetTask(ctx, req.ID)
	return task, toStatus(err)
}

func (s *Server) CreateTask(ctx context.Context, req *model.TaskInput) (*model.Task, error) {
	task, err := s.tasks.CreateTask(ctx, *req)
	return task, toStatus(err)
}

func (s *Server) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*model.Task, error) {
	task, err := s.tasks.UpdateTask(ctx, req.ID, req.TaskPatch)
	return task, toStatus(err)
}

func (s *Server) DeleteTask(ctx context.Context, req *IDRequest) (*model.Task, error) {
	task, err := s.tasks.DeleteTask(ctx, req.ID)
	return task, toStatus(err)
}

func (s *Server) ListCategories(ctx context.Context, _ *ListCategoriesRequest) (*CategoryList, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return &CategoryList{Categories: categories}, nil
}

func (s *Server) GetCategory(ctx context.Context, req *IDRequest) (*model.Category, error) {
	category, err := s.categories.GetCategory(ctx, req.ID)
	return category, toStatus(err)
}

func (s *Server) CreateCategory(ctx context.Context, req *model.CategoryInput) (*model.Category, error) {
	category, err := s.categories.CreateCategory(ctx, *req)
	return category, toStatus(err)
}

func (s *Server) UpdateCategory(ctx context.Context, req *UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.categories.UpdateCategory(ctx, req.ID, req.CategoryPatch)
	return category, toStatus(err)
}

func (s *Server) DeleteCategory(ctx context.Context, req *IDRequest) (*model.Category, error) {
	category, err := s.categories.DeleteCategory(ctx, req.ID)
	return category, toStatus(err)
}
