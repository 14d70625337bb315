package indexer

import (
	"fmt"
	"strings"

	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/validator"
)

// DirectivePrefix marks a type for validation, e.g.
//
//	//lockstep:validate signal=AddNode interface=org.example.Registry
const DirectivePrefix = "//lockstep:validate"

// ParseDirective parses a directive comment into validator options.
// Accepted words are signal, args, return and property, optionally followed by
// =Member, and interface=Name. At most one part may be given.
func ParseDirective(text string) (validator.Options, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(text), DirectivePrefix)
	if !ok {
		return validator.Options{}, fmt.Errorf("not a %s directive", DirectivePrefix)
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return validator.Options{}, fmt.Errorf("malformed directive %q", text)
	}

	var opts validator.Options
	for _, word := range strings.Fields(rest) {
		key, value, _ := strings.Cut(word, "=")
		if key == "interface" {
			if value == "" {
				return validator.Options{}, fmt.Errorf("directive %q: interface needs a name", text)
			}
			opts.Interface = value
			continue
		}
		part, err := finder.ParsePart(key)
		if err != nil || key == "" {
			return validator.Options{}, fmt.Errorf("directive %q: unknown word %q", text, word)
		}
		if opts.Part != "" {
			return validator.Options{}, fmt.Errorf("directive %q: more than one part", text)
		}
		opts.Part = part
		opts.Member = value
	}
	if opts.Part == "" {
		opts.Part = finder.PartSignal
	}
	return opts, nil
}
