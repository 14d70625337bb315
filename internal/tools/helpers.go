package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-lockstep/internal/idl"
)

// maxInputLen caps every string argument a tool accepts.
const maxInputLen = 1024

// jsonResult serialises v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// withLengthCheck rejects requests carrying a string argument longer than maxInputLen.
func withLengthCheck(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		for key, v := range req.GetArguments() {
			if s, ok := v.(string); ok && len(s) > maxInputLen {
				return nil, fmt.Errorf("argument %q exceeds maximum length of %d bytes", key, maxInputLen)
			}
		}
		return next(ctx, req)
	}
}

// filterInterfaces returns the refs whose name starts with prefix.
func filterInterfaces(refs []idl.InterfaceRef, prefix string) []idl.InterfaceRef {
	if prefix == "" {
		return refs
	}
	result := make([]idl.InterfaceRef, 0, len(refs))
	for _, r := range refs {
		if strings.HasPrefix(r.Name, prefix) {
			result = append(result, r)
		}
	}
	return result
}

// filterMembers returns the refs of the given kind; an empty kind keeps all.
func filterMembers(refs []idl.MemberRef, kind idl.Kind) []idl.MemberRef {
	if kind == "" {
		return refs
	}
	result := make([]idl.MemberRef, 0, len(refs))
	for _, r := range refs {
		if r.Kind == kind {
			result = append(result, r)
		}
	}
	return result
}
