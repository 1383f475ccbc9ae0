package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/vessel"
	"github.com/aretw0/vessel/pkg/config"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// BuildResponse summarises a finished build for the calling agent.
type BuildResponse struct {
	Path      string       `json:"path" jsonschema_description:"Where the STL file was written"`
	Triangles int          `json:"triangles" jsonschema_description:"Number of triangles in the exported mesh"`
	Warnings  []string     `json:"warnings" jsonschema_description:"Recoverable problems such as skipped fillets"`
	Stats     domain.Stats `json:"stats" jsonschema_description:"Counts of bodies built and rounded"`
}

// ValidateResponse reports whether a configuration can be built.
type ValidateResponse struct {
	Valid    bool     `json:"valid" jsonschema_description:"True when the configuration can be built"`
	Errors   []string `json:"errors,omitempty" jsonschema_description:"Reasons the configuration was rejected"`
	Warnings []string `json:"warnings,omitempty" jsonschema_description:"Problems that do not stop a build"`
}

// Engine defines what the MCP server needs from vessel.
type Engine interface {
	Validate(cfg *config.Config) ([]error, error)
	Build(ctx context.Context, cfg *config.Config) (*domain.VesselModel, error)
	WriteFile(ctx context.Context, model *domain.VesselModel, cfg *config.Config) (string, int, error)
}

// Server wraps the vessel Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("vessel-mcp", strings.TrimSpace(vessel.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	buildTool := mcp.NewTool("build_vessel",
		mcp.WithDescription("Build the hollow vascular tree described by a configuration and write it as STL."),
		mcp.WithString("config_path", mcp.Description("Path to a YAML or JSON configuration file (optional)")),
		mcp.WithString("config", mcp.Description("Inline YAML or JSON configuration, used when config_path is empty (optional)")),
		mcp.WithString("output", mcp.Description("Override for the output file path (optional)")),
		mcp.WithOutputSchema[BuildResponse](),
	)
	s.mcpServer.AddTool(buildTool, mcp.NewStructuredToolHandler(s.handleBuild))

	validateTool := mcp.NewTool("validate_config",
		mcp.WithDescription("Check a configuration without building any geometry."),
		mcp.WithString("config_path", mcp.Description("Path to a YAML or JSON configuration file (optional)")),
		mcp.WithString("config", mcp.Description("Inline YAML or JSON configuration (optional)")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))
}

func (s *Server) handleBuild(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (BuildResponse, error) {
	cfg, err := loadConfig(args)
	if err != nil {
		return BuildResponse{}, err
	}
	if out, _ := args["output"].(string); out != "" {
		cfg.Output.Folder, cfg.Output.Filename = filepath.Dir(out), filepath.Base(out)
	}

	model, err := s.engine.Build(ctx, cfg)
	if err != nil {
		return BuildResponse{}, fmt.Errorf("build failed: %w", err)
	}
	path, n, err := s.engine.WriteFile(ctx, model, cfg)
	if err != nil {
		return BuildResponse{}, fmt.Errorf("export failed: %w", err)
	}

	return BuildResponse{
		Path:      path,
		Triangles: n,
		Warnings:  model.WarningMessages(),
		Stats:     model.Stats,
	}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	cfg, err := loadConfig(args)
	if err == nil {
		var warnings []error
		warnings, err = s.engine.Validate(cfg)
		if err == nil {
			return ValidateResponse{Valid: true, Warnings: messages(warnings)}, nil
		}
	}

	errs := schema.ValidationErrors(err)
	if len(errs) == 0 {
		errs = []error{err}
	}
	return ValidateResponse{Valid: false, Errors: messages(errs)}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("vessel://schema", "Configuration Schema",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(config.Schema())
		if err != nil {
			return nil, fmt.Errorf("failed to describe schema: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "vessel://schema",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// loadConfig reads config_path, falls back to inline config, then to the defaults.
func loadConfig(args map[string]interface{}) (*config.Config, error) {
	if path, _ := args["config_path"].(string); path != "" {
		return config.Load(path)
	}
	if inline, _ := args["config"].(string); inline != "" {
		return config.Parse([]byte(inline))
	}
	return config.Default(), nil
}

func messages(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

var _ Engine = (*vessel.Engine)(nil)
