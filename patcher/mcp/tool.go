package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"

	"github.com/viant/patch-toolbox/patcher/service"
)

//go:embed tools/patchApply.md
var descPatchApply string

//go:embed tools/patchPreview.md
var descPatchPreview string

//go:embed tools/patchListRules.md
var descPatchListRules string

func registerTools(base *protoserver.DefaultHandler, h *Handler) error {
	if err := protoserver.RegisterTool[*service.PatchInput, *service.PatchOutput](base.Registry, "patchApply", descPatchApply, h.patchApply); err != nil {
		return err
	}
	if err := protoserver.RegisterTool[*service.PreviewInput, *service.PreviewOutput](base.Registry, "patchPreview", descPatchPreview, h.patchPreview); err != nil {
		return err
	}
	if err := protoserver.RegisterTool[*service.ListRulesInput, *service.ListRulesOutput](base.Registry, "patchListRules", descPatchListRules, h.patchListRules); err != nil {
		return err
	}
	return nil
}

func (h *Handler) patchApply(ctx context.Context, in *service.PatchInput) (*schema.CallToolResult, *jsonrpc.Error) {
	if in == nil {
		return buildErrorResult("input is required")
	}
	out, err := h.service.Patch(ctx, in)
	if err != nil {
		return buildToolErrorResult(h.service, err.Error()), nil
	}
	return buildSuccessResult(h.service, out)
}

func (h *Handler) patchPreview(ctx context.Context, in *service.PreviewInput) (*schema.CallToolResult, *jsonrpc.Error) {
	if in == nil || (in.Text == "" && strings.TrimSpace(in.URL) == "") {
		return buildErrorResult("text or url is required")
	}
	out, err := h.service.Preview(ctx, in)
	if err != nil {
		return buildToolErrorResult(h.service, err.Error()), nil
	}
	return buildSuccessResult(h.service, out)
}

func (h *Handler) patchListRules(ctx context.Context, in *service.ListRulesInput) (*schema.CallToolResult, *jsonrpc.Error) {
	return buildSuccessResult(h.service, h.service.ListRules(ctx, in))
}

func buildErrorResult(message string) (*schema.CallToolResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.InvalidParams, message, nil)
}

func buildSuccessResult(svc *service.Service, payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	if svc.UseTextField() {
		b, _ := json.Marshal(payload)
		return &schema.CallToolResult{Content: []schema.CallToolResultContentElem{{Type: "text", Text: string(b)}}}, nil
	}
	return &schema.CallToolResult{StructuredContent: map[string]any{"result": payload}}, nil
}

func buildToolErrorResult(svc *service.Service, message string) *schema.CallToolResult {
	isErr := true
	if svc.UseTextField() {
		return &schema.CallToolResult{IsError: &isErr, Content: []schema.CallToolResultContentElem{{Type: "text", Text: message}}}
	}
	return &schema.CallToolResult{IsError: &isErr, StructuredContent: map[string]any{"error": message}}
}
