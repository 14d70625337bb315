package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-lockstep/internal/finder"
)

// Register wires all lockstep MCP tools to s.
// Lookups go through f; validate_package indexes the Go code under root.
func Register(s *server.MCPServer, f *finder.Finder, pins *PinStore, root string) {
	s.AddTool(mcp.NewTool("list_interfaces",
		mcp.WithDescription("Lists all loaded D-Bus interfaces with member counts."),
		mcp.WithString("filter", mcp.Description("Optional prefix filter on interface name")),
	), withLengthCheck(listInterfacesHandler(f)))

	s.AddTool(mcp.NewTool("get_interface",
		mcp.WithDescription("Returns the full definition of an interface: methods, signals and properties."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Interface name, e.g. org.freedesktop.DBus")),
	), withLengthCheck(getInterfaceHandler(f)))

	s.AddTool(mcp.NewTool("find_member",
		mcp.WithDescription("Searches for members by name across all loaded interfaces."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Member name")),
		mcp.WithString("kind", mcp.Description("Filter by kind: method, signal, property (empty = all)")),
		mcp.WithString("match", mcp.Description(`Match mode: "exact" (default), "prefix", or "contains"`)),
	), withLengthCheck(findMemberHandler(f)))

	s.AddTool(mcp.NewTool("locate_member",
		mcp.WithDescription("Resolves exactly one member and returns the signature of the requested part. Fails when the member is missing or offered by several interfaces."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Member name")),
		mcp.WithString("part", mcp.Description("args, return, signal (default) or property")),
		mcp.WithString("interface", mcp.Description("Interface to search; defaults to the pinned interface, if any")),
	), withLengthCheck(locateMemberHandler(f, pins)))

	s.AddTool(mcp.NewTool("check_signature",
		mcp.WithDescription("Reports whether two D-Bus signatures are equivalent, allowing one pair of outer parentheses to differ."),
		mcp.WithString("lhs", mcp.Required(), mcp.Description("First signature")),
		mcp.WithString("rhs", mcp.Required(), mcp.Description("Second signature")),
	), withLengthCheck(checkSignatureHandler()))

	s.AddTool(mcp.NewTool("validate_package",
		mcp.WithDescription("Indexes the Go code and validates every type marked with //lockstep:validate."),
		mcp.WithString("package", mcp.Description("Optional prefix filter on package import path")),
	), withLengthCheck(validatePackageHandler(f, pins, root)))

	s.AddTool(mcp.NewTool("pin_interface",
		mcp.WithDescription("Pins a member name to an interface so later lookups without an interface use it."),
		mcp.WithString("member", mcp.Required(), mcp.Description("Member name")),
		mcp.WithString("interface", mcp.Required(), mcp.Description("Interface name")),
	), withLengthCheck(pins.pinHandler(f)))

	s.AddTool(mcp.NewTool("unpin_interface",
		mcp.WithDescription("Removes a stored pin."),
		mcp.WithString("member", mcp.Required(), mcp.Description("Member name")),
	), withLengthCheck(pins.unpinHandler()))

	s.AddTool(mcp.NewTool("list_pins",
		mcp.WithDescription("Lists all pins, configured and stored."),
	), withLengthCheck(pins.listHandler()))
}
