// Package mcp exposes read-only mirror queries over the Model Context
// Protocol so agent tooling can inspect a repository without shelling out.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jlrickert/pickup/pkg/pickup"
)

// ServerName identifies this server to MCP clients.
const ServerName = "pickup"

type listPackagesInput struct{}

type listPackagesOutput struct {
	Packages []string `json:"packages"`
}

type listFilesInput struct {
	Package string `json:"package" jsonschema:"tracked package name"`
}

type fileEntry struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

type listFilesOutput struct {
	Package string      `json:"package"`
	Files   []fileEntry `json:"files"`
}

// NewServer builds an MCP server with the mirror's read-only tools
// registered. The caller owns running it over a transport.
func NewServer(p *pickup.Pickup, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_packages",
		Description: "List the packages tracked by the local mirror.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in listPackagesInput) (*mcp.CallToolResult, listPackagesOutput, error) {
		listing, err := p.List(ctx, pickup.ListOptions{})
		if err != nil {
			return nil, listPackagesOutput{}, err
		}
		out := listPackagesOutput{Packages: []string{}}
		for _, e := range listing.Entries {
			out.Packages = append(out.Packages, e.Text)
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_files",
		Description: "List the mirrored artifact files for one tracked package.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in listFilesInput) (*mcp.CallToolResult, listFilesOutput, error) {
		if in.Package == "" {
			return nil, listFilesOutput{}, fmt.Errorf("package is required")
		}
		listing, err := p.List(ctx, pickup.ListOptions{Package: in.Package})
		if err != nil {
			return nil, listFilesOutput{}, err
		}
		out := listFilesOutput{Package: listing.Package, Files: []fileEntry{}}
		for _, e := range listing.Entries {
			out.Files = append(out.Files, fileEntry{Name: e.Text, Href: e.Href})
		}
		return nil, out, nil
	})

	return server
}

// Serve runs the server over stdio until the client disconnects or ctx is
// canceled.
func Serve(ctx context.Context, p *pickup.Pickup, version string) error {
	return NewServer(p, version).Run(ctx, &mcp.StdioTransport{})
}
