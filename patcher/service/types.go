package service

import "github.com/viant/patch-toolbox/patcher/rule"

type PatchInput struct {
	URL          string `json:"url,omitempty" description:"file path or afs URL (file://, mem://, gs:// ...); defaults to the controller source"`
	DryRun       bool   `json:"dryRun,omitempty" description:"compute result and diff without writing"`
	Backup       bool   `json:"backup,omitempty" description:"copy the original next to the target before writing"`
	Strict       bool   `json:"strict,omitempty" description:"fail when any rule does not match"`
	RequireClean bool   `json:"requireClean,omitempty" description:"refuse to write a file with uncommitted git changes"`
}

type PatchOutput struct {
	RunID     string         `json:"runId"`
	URL       string         `json:"url"`
	Changed   bool           `json:"changed"`
	Written   bool           `json:"written"`
	Outcomes  []rule.Outcome `json:"outcomes"`
	Unmatched []string       `json:"unmatched,omitempty"`
	Diff      string         `json:"diff,omitempty"`
	BackupURL string         `json:"backupUrl,omitempty"`
	Message   string         `json:"message,omitempty"`
}

type PreviewInput struct {
	URL  string `json:"url,omitempty" description:"file path or afs URL; ignored when text is set"`
	Text string `json:"text,omitempty" description:"inline source text to patch in memory"`
}

type PreviewOutput struct {
	Text      string         `json:"text"`
	Changed   bool           `json:"changed"`
	Outcomes  []rule.Outcome `json:"outcomes"`
	Unmatched []string       `json:"unmatched,omitempty"`
	Diff      string         `json:"diff,omitempty"`
}

type ListRulesInput struct{}

type ListRulesOutput struct {
	Rules []rule.Rule `json:"rules"`
}
