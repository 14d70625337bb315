package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/indexer"
	"github.com/tender-barbarian/go-lockstep/internal/report"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
	"github.com/tender-barbarian/go-lockstep/internal/validator"
)

type checkResult struct {
	Lhs        signature.Signature `json:"lhs"`
	Rhs        signature.Signature `json:"rhs"`
	Equivalent bool                `json:"equivalent"`
	Diff       string              `json:"diff,omitempty"`
}

// checkSignatureHandler returns a handler for the check_signature tool.
// It compares two signatures under the outer-parenthesis equivalence.
func checkSignatureHandler() server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lhs, err := req.RequireString("lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := req.RequireString("rhs")
		if err != nil {
			return nil, err
		}

		res := checkResult{Lhs: signature.Signature(lhs), Rhs: signature.Signature(rhs)}
		res.Equivalent = signature.Equivalent(res.Lhs, res.Rhs)
		if !res.Equivalent {
			res.Diff = report.Diff(res.Lhs, res.Rhs)
		}
		return jsonResult(res)
	}
}

// validatePackageHandler returns a handler for the validate_package tool.
// It re-indexes the Go code under root on every call, so edits made by the
// agent are picked up, and validates each annotated type.
func validatePackageHandler(f *finder.Finder, pins *PinStore, root string) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pkgFilter := req.GetString("package", "")

		idx, err := indexer.New(root)
		if err != nil {
			return nil, err
		}
		if err := idx.Index(); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", root, err)
		}
		pinned, err := pins.Pins()
		if err != nil {
			return nil, err
		}
		v := validator.New(f, validator.WithPins(pinned))

		var r report.Report
		for _, target := range idx.Targets() {
			if pkgFilter != "" && !strings.HasPrefix(target.Package, pkgFilter) {
				continue
			}
			r.Add(report.Check(v, target))
		}
		return jsonResult(r)
	}
}
