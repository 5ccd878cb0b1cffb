package rule

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a rule file:
//
//	rules:
//	  - name: ExitVehicleRequest
//	    pattern: '(public static class ExitVehicleRequest \{\s*private String ticketNumber;\s*)\}'
//	    replacement: "${1}\n    public String getTicketNumber() { return ticketNumber; }\n}"
type File struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Parse decodes and compiles a YAML rule file.
func Parse(data []byte) (Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("%w: no rules defined", ErrInvalidRule)
	}
	return NewSet(f.Rules...)
}

// Load reads a rule file from any afs supported location (file, mem, gs, s3 ...).
func Load(ctx context.Context, fs afs.Service, URL string) (Set, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules %s: %w", URL, err)
	}
	ret, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", URL, err)
	}
	return ret, nil
}
