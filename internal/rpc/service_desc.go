package rpc

import (
	"context"

	"google.golang.org/grpc"

	"task-manager/internal/model"
)

const ServiceName = "taskmanager.v1.TaskManager"

// TaskManagerServer is the server API of the task manager service.
type TaskManagerServer interface {
	ListTasks(context.Context, *ListTasksRequest) (*TaskList, error)
	GetTask(context.Context, *IDRequest) (*model.Task, error)
	CreateTask(context.Context, *model.TaskInput) (*model.Task, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*model.Task, error)
	DeleteTask(context.Context, *IDRequest) (*model.Task, error)
	ListCategories(context.Context, *ListCategoriesRequest) (*CategoryList, error)
	GetCategory(context.Context, *IDRequest) (*model.Category, error)
	CreateCategory(context.Context, *model.CategoryInput) (*model.Category, error)
	UpdateCategory(context.Context, *UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(context.Context, *IDRequest) (*model.Category, error)
}

// ServiceDesc describes the task manager service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskManagerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListTasks", TaskManagerServer.ListTasks),
		unary("GetTask", TaskManagerServer.GetTask),
		unary("CreateTask", TaskManagerServer.CreateTask),
		unary("UpdateTask", TaskManagerServer.UpdateTask),
		unary("DeleteTask", TaskManagerServer.DeleteTask),
		unary("ListCategories", TaskManagerServer.ListCategories),
		unary("GetCategory", TaskManagerServer.GetCategory),
		unary("CreateCategory", TaskManagerServer.CreateCategory),
		unary("UpdateCategory", TaskManagerServer.UpdateCategory),
		unary("DeleteCategory", TaskManagerServer.DeleteCategory),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskmanager/v1",
}

func RegisterTaskManagerServer(s grpc.ServiceRegistrar, srv TaskManagerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method descriptor that decodes Req, runs the interceptor
// chain and dispatches to call.
func unary[Req, Resp any](name string, call func(TaskManagerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TaskManagerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(TaskManagerServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
