package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/cinerec/pkg/recommend"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListMoviesTool(srv, svc)
	registerSearchMoviesTool(srv, svc)
	registerGetMovieTool(srv, svc)
	registerRecommendTool(srv, svc)
}

func registerListMoviesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_movies",
		mcp.WithDescription("List the movie catalog sorted by title."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of movies to return; 0 for all."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Limit int `json:"limit"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		movies, err := svc.ListMovies(ctx, args.Limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"count":  len(movies),
			"movies": movies,
		})
	})
}

func registerSearchMoviesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_movies",
		mcp.WithDescription("Find catalog movies whose title contains the query, ignoring case."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to look for in movie titles."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of movies to return; 0 for all."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Query string `json:"query"`
			Limit int    `json:"limit"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		movies, err := svc.SearchMovies(ctx, args.Query, args.Limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":  args.Query,
			"count":  len(movies),
			"movies": movies,
		})
	})
}

func registerGetMovieTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_movie",
		mcp.WithDescription("Fetch a single catalog movie by id."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Movie identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.GetMovie(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRecommendTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"recommend_movies",
		mcp.WithDescription("Ask the recommendation service for movies similar to the given one."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Identifier of the movie to find similar movies for."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.Recommend(ctx, id)
		if errors.Is(err, recommend.ErrInFlight) {
			return mcp.NewToolResultError("another recommendation request is running, try again shortly"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
