package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-lockstep/internal/config"
	"github.com/tender-barbarian/go-lockstep/internal/finder"
)

// PinStore persists member to interface pins under the project root.
// A pin is used whenever a member is resolved without an explicit interface,
// so an agent can settle an ambiguity once and have it stick.
type PinStore struct {
	mu       sync.RWMutex
	root     string
	defaults map[string]string
}

// NewPinStore creates a store under root. defaults (usually the configured
// pins) apply to members that have no stored pin.
func NewPinStore(root string, defaults map[string]string) *PinStore {
	return &PinStore{root: root, defaults: defaults}
}

func (ps *PinStore) path() string {
	return filepath.Join(ps.root, ".lockstep", "pins.json")
}

func (ps *PinStore) load() (map[string]string, error) {
	data, err := os.ReadFile(ps.path())
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading pins: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing pins: %w", err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

func (ps *PinStore) save(m map[string]string) error {
	p := ps.path()
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("creating pins dir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pins: %w", err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("writing pins: %w", err)
	}
	return nil
}

// Pins returns the defaults overlaid with the stored pins.
func (ps *PinStore) Pins() (map[string]string, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	stored, err := ps.load()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(ps.defaults)+len(stored))
	maps.Copy(m, ps.defaults)
	// A stored pin replaces a default for the same member in any case.
	for k := range stored {
		for d := range ps.defaults {
			if d != k && strings.EqualFold(d, k) {
				delete(m, d)
			}
		}
	}
	maps.Copy(m, stored)
	return m, nil
}

// Lookup returns the interface pinned for member, compared case-insensitively.
func (ps *PinStore) Lookup(member string) (string, bool, error) {
	pins, err := ps.Pins()
	if err != nil {
		return "", false, err
	}
	iface, ok := config.LookupPin(pins, member)
	return iface, ok, nil
}

// pinHandler returns a handler for the pin_interface tool. The interface must
// exist in the loaded documents.
func (ps *PinStore) pinHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		member, err := req.RequireString("member")
		if err != nil {
			return nil, err
		}
		iface, err := req.RequireString("interface")
		if err != nil {
			return nil, err
		}
		if _, ok := f.GetInterface(iface); !ok {
			return nil, fmt.Errorf("interface %q not found", iface)
		}
		ps.mu.Lock()
		defer ps.mu.Unlock()
		m, err := ps.load()
		if err != nil {
			return nil, err
		}
		m[member] = iface
		if err := ps.save(m); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText("ok"), nil
	}
}

func (ps *PinStore) unpinHandler() server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		member, err := req.RequireString("member")
		if err != nil {
			return nil, err
		}
		ps.mu.Lock()
		defer ps.mu.Unlock()
		m, err := ps.load()
		if err != nil {
			return nil, err
		}
		if _, ok := m[member]; !ok {
			return nil, fmt.Errorf("pin %q not found", member)
		}
		delete(m, member)
		if err := ps.save(m); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText("ok"), nil
	}
}

func (ps *PinStore) listHandler() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		m, err := ps.Pins()
		if err != nil {
			return nil, err
		}
		return jsonResult(m)
	}
}
