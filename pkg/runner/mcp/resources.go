package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerCatalogResource(srv, svc)
	registerMovieTemplate(srv, svc)
	registerRecommendationsTemplate(srv, svc)
}

func registerCatalogResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"cinerec://movies",
		"Catalog",
		mcp.WithResourceDescription("The full movie catalog sorted by title."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		movies, err := svc.ListMovies(ctx, 0)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"movies": movies,
			"count":  len(movies),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerMovieTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"cinerec://movies/{id}",
		"Movie Details",
		mcp.WithTemplateDescription("A single catalog movie."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, err := templateID(request)
		if err != nil {
			return nil, err
		}
		dto, err := svc.GetMovie(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"movie": dto})
	})
}

func registerRecommendationsTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"cinerec://movies/{id}/recommendations",
		"Recommendations",
		mcp.WithTemplateDescription("Movies the recommendation service considers similar."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, err := templateID(request)
		if err != nil {
			return nil, err
		}
		dto, err := svc.Recommend(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func templateID(request mcp.ReadResourceRequest) (int, error) {
	var raw string
	switch v := request.Params.Arguments["id"].(type) {
	case string:
		raw = v
	case []string:
		if len(v) > 0 {
			raw = v[0]
		}
	}
	if raw == "" {
		return 0, fmt.Errorf("movie id is required")
	}
	return ParseMovieID(raw)
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
