package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/snapshot"
)

// Handler exposes the site content and its CMS sections as MCP tools.
type Handler struct {
	repo      sitecontent.Repository
	loader    *sitecontent.Loader
	generator *snapshot.Generator
	logger    *slog.Logger
}

// NewHandler creates a new instance of Handler
func NewHandler(repo sitecontent.Repository, loader *sitecontent.Loader, generator *snapshot.Generator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:      repo,
		loader:    loader,
		generator: generator,
		logger:    logger,
	}
}

func nameSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Section name, for example hero or music",
			},
		},
		Required: []string{"name"},
	}
}

// RegisterTools registers the site content tools with the MCP server
func (h *Handler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.Tool{
		Name:        "get_content",
		Description: "Returns the normalized site content exactly as the site renders it",
		InputSchema: mcp.ToolInputSchema{Type: "object"},
	}, h.handleGetContent)

	s.AddTool(mcp.Tool{
		Name:        "list_sections",
		Description: "Lists the CMS sections with their last update time",
		InputSchema: mcp.ToolInputSchema{Type: "object"},
	}, h.handleListSections)

	s.AddTool(mcp.Tool{
		Name:        "get_section",
		Description: "Returns the JSON document of one CMS section",
		InputSchema: nameSchema(),
	}, h.handleGetSection)

	s.AddTool(mcp.Tool{
		Name:        "put_section",
		Description: "Creates or replaces a CMS section with a JSON document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Section name, for example hero or music",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "The section document as a JSON string",
				},
			},
			Required: []string{"name", "content"},
		},
	}, h.handlePutSection)

	s.AddTool(mcp.Tool{
		Name:        "delete_section",
		Description: "Deletes a CMS section",
		InputSchema: nameSchema(),
	}, h.handleDeleteSection)

	s.AddTool(mcp.Tool{
		Name:        "regenerate_content",
		Description: "Regenerates the content.json snapshot from the CMS sections",
		InputSchema: mcp.ToolInputSchema{Type: "object"},
	}, h.handleRegenerateContent)
}

func (h *Handler) handleGetContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.loader.Load(ctx))
}

type sectionSummary struct {
	Name      string `json:"name"`
	Bytes     int    `json:"bytes"`
	UpdatedAt string `json:"updatedAt"`
}

func (h *Handler) handleListSections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sections, err := h.repo.ListSections(ctx)
	if err != nil {
		h.logger.Error("Failed to list sections", "error", err)
		return mcp.NewToolResultError("failed to list sections"), nil
	}

	summaries := make([]sectionSummary, 0, len(sections))
	for _, s := range sections {
		summaries = append(summaries, sectionSummary{
			Name:      s.Name,
			Bytes:     len(s.Content),
			UpdatedAt: s.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return jsonResult(summaries)
}

func (h *Handler) handleGetSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "name")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	section, err := h.repo.GetSection(ctx, name)
	if err != nil {
		return h.sectionError(name, err), nil
	}
	return mcp.NewToolResultText(string(section.Content)), nil
}

func (h *Handler) handlePutSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "name")
	content := json.RawMessage(stringArg(request, "content"))
	if err := sitecontent.ValidateSection(name, content); err != nil {
		return h.sectionError(name, err), nil
	}

	section, err := h.repo.PutSection(ctx, name, content)
	if err != nil {
		return h.sectionError(name, err), nil
	}
	h.logger.Info("Section saved", "section", section.Name, "id", section.ID)
	return mcp.NewToolResultText(fmt.Sprintf("Saved section %s", section.Name)), nil
}

func (h *Handler) handleDeleteSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "name")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	if err := h.repo.DeleteSection(ctx, name); err != nil {
		return h.sectionError(name, err), nil
	}
	h.logger.Info("Section deleted", "section", name)
	return mcp.NewToolResultText(fmt.Sprintf("Deleted section %s", name)), nil
}

func (h *Handler) handleRegenerateContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.generator.Generate(ctx)
	if err != nil {
		h.logger.Error("Failed to regenerate content", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to regenerate content: %v", err)), nil
	}
	return jsonResult(result)
}

// sectionError turns datastore errors into tool errors. Only unexpected
// failures are logged.
func (h *Handler) sectionError(name string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, sitecontent.ErrSectionNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("section %s not found", name))
	case errors.Is(err, sitecontent.ErrInvalidSectionName):
		return mcp.NewToolResultError(fmt.Sprintf("invalid section name %q", name))
	case errors.Is(err, sitecontent.ErrMalformedRecord):
		return mcp.NewToolResultError("section content must be valid JSON")
	default:
		h.logger.Error("Section operation failed", "section", name, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("section %s: operation failed", name))
	}
}

func stringArg(request mcp.CallToolRequest, key string) string {
	if val, ok := request.GetArguments()[key]; ok && val != nil {
		if s, ok := val.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
