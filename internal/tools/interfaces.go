package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-lockstep/internal/finder"
)

// listInterfacesHandler returns a handler for the list_interfaces tool.
// It lists every loaded interface, optionally filtered by name prefix.
func listInterfacesHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := req.GetString("filter", "")
		return jsonResult(filterInterfaces(f.Interfaces(), filter))
	}
}

// getInterfaceHandler returns a handler for the get_interface tool.
// It returns the full definition of an interface: methods with their
// directed arguments, signals and properties.
func getInterfaceHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return nil, err
		}
		iface, ok := f.GetInterface(name)
		if !ok {
			return nil, fmt.Errorf("interface %q not found", name)
		}
		return jsonResult(iface)
	}
}
