// Package server exposes the compiler and the task sink over HTTP. The
// routes mirror the original forwarding service (add_task, update_task,
// list_tasks) plus a compile endpoint; everything except the liveness
// root sits behind an X-API-Key check.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/dt-pm-tools/ticket2task/internal/compile"
	"github.com/dt-pm-tools/ticket2task/internal/ticket"
	"github.com/dt-pm-tools/ticket2task/internal/todoist"
)

// Sink is the outbound task boundary. *todoist.Client satisfies it.
type Sink interface {
	CreateTask(ctx context.Context, task compile.Task) (*todoist.RemoteTask, error)
	UpdateTask(ctx context.Context, id string, task compile.Task) error
	ListTasks(ctx context.Context) ([]todoist.RemoteTask, error)
}

// Server wires the compiler and sink into a gin engine.
type Server struct {
	compiler *compile.Compiler
	sink     Sink
	apiKey   string
}

// New builds the HTTP surface. apiKey is the shared X-API-Key secret.
func New(compiler *compile.Compiler, sink Sink, apiKey string) *Server {
	return &Server{compiler: compiler, sink: sink, apiKey: apiKey}
}

// Router returns the configured gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ticket2task is live"})
	})

	auth := r.Group("/", s.requireAPIKey)
	auth.POST("/add_task", s.addTask)
	auth.POST("/update_task", s.updateTask)
	auth.GET("/list_tasks", s.listTasks)
	auth.POST("/compile", s.compile)

	return r
}

func (s *Server) requireAPIKey(c *gin.Context) {
	if c.GetHeader("X-API-Key") != s.apiKey {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Forbidden"})
	}
}

type addTaskRequest struct {
	TaskName string `json:"task_name" binding:"required"`
	DueDate  string `json:"due_date"`
}

func (s *Server) addTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	task := compile.Task{Content: req.TaskName, DueDate: req.DueDate}
	remote, err := s.sink.CreateTask(c.Request.Context(), task)
	if err != nil {
		log.Error("creating task", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to add task to Todoist"})
		return
	}

	log.Info("task created", "id", remote.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Task added successfully", "id": remote.ID})
}

type updateTaskRequest struct {
	TaskID   string `json:"task_id" binding:"required"`
	TaskName string `json:"task_name"`
	DueDate  string `json:"due_date"`
}

func (s *Server) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.TaskName == "" && req.DueDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No updates provided"})
		return
	}

	task := compile.Task{Content: req.TaskName, DueDate: req.DueDate}
	if err := s.sink.UpdateTask(c.Request.Context(), req.TaskID, task); err != nil {
		log.Error("updating task", "id", req.TaskID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.sink.ListTasks(c.Request.Context())
	if err != nil {
		log.Error("listing tasks", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// compile accepts raw ticket XML in the body and returns the normalized
// Task payload; push=true forwards it to the sink as well.
func (s *Server) compile(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "reading request body failed"})
		return
	}

	extractor := compile.Extractor(c.DefaultQuery("extractor", string(compile.ExtractorRules)))

	task, err := s.compiler.Compile(c.Request.Context(), raw, extractor)
	switch {
	case errors.Is(err, ticket.ErrMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	case errors.Is(err, compile.ErrBadModelOutput):
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	case err != nil:
		log.Error("compiling ticket", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	if c.Query("push") == "true" {
		remote, err := s.sink.CreateTask(c.Request.Context(), task)
		if err != nil {
			log.Error("pushing compiled task", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to add task to Todoist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Task added successfully", "id": remote.ID, "task": task})
		return
	}

	c.JSON(http.StatusOK, task)
}
