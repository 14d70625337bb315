package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/idl"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
)

// findMemberHandler returns a handler for the find_member tool.
// It searches every loaded interface for members matching name,
// with an optional kind filter (method, signal, property).
func findMemberHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return nil, err
		}
		var kind idl.Kind
		if k := req.GetString("kind", ""); k != "" {
			if kind, err = idl.ParseKind(k); err != nil {
				return nil, err
			}
		}
		match := finder.MatchMode(req.GetString("match", string(finder.MatchExact)))

		return jsonResult(filterMembers(f.FindMember(name, match), kind))
	}
}

type locateResult struct {
	Name      string              `json:"name"`
	Part      finder.Part         `json:"part"`
	Interface string              `json:"interface"`
	Source    string              `json:"source"`
	Signature signature.Signature `json:"signature"`
	Pinned    bool                `json:"pinned,omitempty"`
}

// locateMemberHandler returns a handler for the locate_member tool.
// It resolves exactly one member and composes the signature for the requested
// part. Without an interface argument the pin store is consulted.
func locateMemberHandler(f *finder.Finder, pins *PinStore) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return nil, err
		}
		part, err := finder.ParsePart(req.GetString("part", ""))
		if err != nil {
			return nil, err
		}

		iface := req.GetString("interface", "")
		pinned := false
		if iface == "" {
			if iface, pinned, err = pins.Lookup(name); err != nil {
				return nil, err
			}
		}

		res, err := f.Resolve(name, iface, part)
		if err != nil {
			return nil, err
		}
		return jsonResult(locateResult{
			Name:      res.Name,
			Part:      res.Part,
			Interface: res.Interface,
			Source:    res.Source,
			Signature: res.Signature,
			Pinned:    pinned,
		})
	}
}
