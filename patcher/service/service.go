package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	oa "github.com/viant/patch-toolbox/auth"
	"github.com/viant/patch-toolbox/patcher/rule"
)

var (
	// ErrNoMatch is returned in strict mode when a rule did not match.
	ErrNoMatch = errors.New("rule did not match")
	// ErrDirty is returned when the target has uncommitted changes and a clean worktree was required.
	ErrDirty = errors.New("uncommitted changes")
)

type Service struct {
	fs           afs.Service
	rules        rule.Set
	url          string
	message      string
	diffBytes    int
	backupSuffix string
	verbose      bool
	useText      bool
	logger       *log.Logger
	auth         *oa.Service
}

func NewService(cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	s := &Service{
		fs:           afs.New(),
		rules:        rule.ControllerSet(),
		url:          cfg.URL,
		message:      cfg.Message,
		diffBytes:    cfg.DiffBytes,
		backupSuffix: cfg.BackupSuffix,
		verbose:      cfg.Verbose,
		useText:      !cfg.UseData,
		logger:       log.New(os.Stderr, "", log.LstdFlags),
		auth:         oa.New(),
	}
	if s.url == "" {
		s.url = rule.ControllerPath
	}
	if s.message == "" {
		s.message = DefaultMessage
	}
	if s.diffBytes <= 0 {
		s.diffBytes = 8192
	}
	if s.backupSuffix == "" {
		s.backupSuffix = ".orig"
	}
	return s
}

// LoadRules replaces the active rules with the ones defined at URL.
func (s *Service) LoadRules(ctx context.Context, URL string) error {
	set, err := rule.Load(ctx, s.fs, s.resolve(URL))
	if err != nil {
		return err
	}
	s.rules = set
	return nil
}

func (s *Service) SetRules(set rule.Set) { s.rules = set }

func (s *Service) SetFS(fs afs.Service) { s.fs = fs }

func (s *Service) SetLogger(l *log.Logger) { s.logger = l }

func (s *Service) Rules() rule.Set { return s.rules }

func (s *Service) Message() string { return s.message }

func (s *Service) UseTextField() bool { return s.useText }

// PatchText applies the active rules to text without touching storage.
func (s *Service) PatchText(ctx context.Context, text string) (string, []rule.Outcome) {
	patched, outcomes := s.rules.Apply(text)
	s.logOutcomes(ctx, outcomes)
	return patched, outcomes
}

// Patch reads the target, applies all rules in order and overwrites the target with the result.
// Rules that do not match are skipped silently unless the input is strict.
func (s *Service) Patch(ctx context.Context, in *PatchInput) (*PatchOutput, error) {
	if in == nil {
		in = &PatchInput{}
	}
	runID := uuid.New().String()
	ctx = WithRunID(ctx, runID)
	URL := s.resolve(in.URL)

	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}
	original := string(data)
	patched, outcomes := s.PatchText(ctx, original)
	out := &PatchOutput{
		RunID:     runID,
		URL:       URL,
		Changed:   patched != original,
		Outcomes:  outcomes,
		Unmatched: rule.Unmatched(outcomes),
	}
	if in.Strict && len(out.Unmatched) > 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoMatch, strings.Join(out.Unmatched, ", "), URL)
	}
	if in.DryRun {
		out.Diff = lineDiff(original, patched, s.diffBytes)
		return out, nil
	}
	if in.RequireClean {
		if err := s.ensureClean(URL); err != nil {
			return nil, err
		}
	}
	if in.Backup {
		backupURL := URL + s.backupSuffix
		if err := s.fs.Upload(ctx, backupURL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to write backup %s: %w", backupURL, err)
		}
		out.BackupURL = backupURL
	}
	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(patched)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", URL, err)
	}
	out.Written = true
	out.Message = s.message
	s.logf(ctx, "wrote url=%s changed=%v", URL, out.Changed)
	return out, nil
}

// Preview patches inline text, or the content at URL, in memory and returns the result with a diff.
func (s *Service) Preview(ctx context.Context, in *PreviewInput) (*PreviewOutput, error) {
	if in == nil {
		in = &PreviewInput{}
	}
	ctx = WithRunID(ctx, uuid.New().String())
	original := in.Text
	if original == "" {
		URL := s.resolve(in.URL)
		data, err := s.fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", URL, err)
		}
		original = string(data)
	}
	patched, outcomes := s.PatchText(ctx, original)
	return &PreviewOutput{
		Text:      patched,
		Changed:   patched != original,
		Outcomes:  outcomes,
		Unmatched: rule.Unmatched(outcomes),
		Diff:      lineDiff(original, patched, s.diffBytes),
	}, nil
}

// ListRules returns the active rule definitions in application order.
func (s *Service) ListRules(_ context.Context, _ *ListRulesInput) *ListRulesOutput {
	return &ListRulesOutput{Rules: s.rules.Rules()}
}

// WriteRules renders the active rules as "name<TAB>pattern" lines.
func (s *Service) WriteRules(w io.Writer) error {
	for _, r := range s.rules.Rules() {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Pattern); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) resolve(location string) string {
	if strings.TrimSpace(location) == "" {
		location = s.url
	}
	return url.Normalize(location, file.Scheme)
}

func (s *Service) logOutcomes(ctx context.Context, outcomes []rule.Outcome) {
	for _, o := range outcomes {
		s.logf(ctx, "rule=%s matched=%v count=%d guarded=%v", o.Name, o.Matched, o.Count, o.Guarded)
	}
}

func (s *Service) logf(ctx context.Context, format string, args ...any) {
	if !s.verbose || s.logger == nil {
		return
	}
	ns, _ := s.auth.Namespace(ctx)
	s.logger.Printf("[PATCH] run=%s ns=%s "+format, append([]any{RunID(ctx), ns}, args...)...)
}
