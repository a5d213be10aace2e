package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"task-manager/internal/model"
)

// Client calls a remote task manager. Failed calls return *Error.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to target without transport security. Extra options are
// applied after the defaults.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(UnaryClientRequestID),
	}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return NewClient(conn), nil
}

func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Ping asks the server's health service whether the task manager is serving.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return fromStatus(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("task manager is %s", resp.GetStatus())
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out interface{}) error {
	return fromStatus(c.conn.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(codecName)))
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out TaskList
	if err := c.invoke(ctx, "ListTasks", &ListTasksRequest{}, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	var out model.Task
	if err := c.invoke(ctx, "GetTask", &IDRequest{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error) {
	var out model.Task
	if err := c.invoke(ctx, "CreateTask", &input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uint, patch model.TaskPatch) (*model.Task, error) {
	var out model.Task
	if err := c.invoke(ctx, "UpdateTask", &UpdateTaskRequest{ID: id, TaskPatch: patch}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uint) (*model.Task, error) {
	var out model.Task
	if err := c.invoke(ctx, "DeleteTask", &IDRequest{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out CategoryList
	if err := c.invoke(ctx, "ListCategories", &ListCategoriesRequest{}, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	var out model.Category
	if err := c.invoke(ctx, "GetCategory", &IDRequest{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCategory(ctx context.Context, input model.CategoryInput) (*model.Category, error) {
	var out model.Category
	if err := c.invoke(ctx, "CreateCategory", &input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uint, patch model.CategoryPatch) (*model.Category, error) {
	var out model.Category
	if err := c.invoke(ctx, "UpdateCategory", &UpdateCategoryRequest{ID: id, CategoryPatch: patch}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) (*model.Category, error) {
	var out model.Category
	if err := c.invoke(ctx, "DeleteCategory", &IDRequest{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
