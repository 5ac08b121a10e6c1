package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/modekit"
	"github.com/modekit/modekit/pkg/prompt"
)

// DocumentOutput is the wire form of a stored document.
type DocumentOutput struct {
	Name        string   `json:"name" jsonschema:"document name"`
	Kind        string   `json:"kind" jsonschema:"chatmode or instruction"`
	Filename    string   `json:"filename" jsonschema:"filename inside the prompts directory"`
	Description string   `json:"description,omitempty" jsonschema:"short description from the header"`
	Tools       []string `json:"tools,omitempty" jsonschema:"tool names, chatmodes only"`
	SourceURL   string   `json:"source_url,omitempty" jsonschema:"where the document was installed or updated from"`
	Body        string   `json:"body" jsonschema:"markdown body"`
	Violations  []string `json:"violations,omitempty" jsonschema:"non-fatal validation findings"`
}

func toDocumentOutput(doc *prompt.Document) DocumentOutput {
	out := DocumentOutput{
		Name:        doc.Name,
		Kind:        string(doc.Kind),
		Filename:    doc.Filename(),
		Description: doc.Description(),
		Tools:       doc.Tools(),
		SourceURL:   doc.SourceURL(),
		Body:        doc.Body,
	}
	for _, v := range prompt.Validate(doc) {
		out.Violations = append(out.Violations, v.String())
	}
	return out
}

// SummaryOutput is one row of a listing.
type SummaryOutput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Title       string `json:"title,omitempty" jsonschema:"first heading of the body"`
	Lead        string `json:"lead,omitempty" jsonschema:"first paragraph after the title"`
	SourceURL   string `json:"source_url,omitempty"`
}

type ListOutput struct {
	Items []SummaryOutput `json:"items"`
	Count int             `json:"count"`
}

func (s *Server) list(ctx context.Context, kind prompt.Kind) (ListOutput, error) {
	summaries, err := s.mgr.ListSummaries(log.ContextWithLogger(ctx, s.logger), kind)
	if err != nil {
		return ListOutput{}, err
	}
	out := ListOutput{Items: make([]SummaryOutput, 0, len(summaries)), Count: len(summaries)}
	for _, sum := range summaries {
		out.Items = append(out.Items, SummaryOutput{
			Name:        sum.Name,
			Description: sum.Description,
			Title:       sum.Title,
			Lead:        sum.Lead,
			SourceURL:   sum.SourceURL,
		})
	}
	return out, nil
}

type ListInput struct{}

func (s *Server) listChatmodesHandler(ctx context.Context, _ *mcp.CallToolRequest, _ ListInput) (*mcp.CallToolResult, ListOutput, error) {
	out, err := s.list(ctx, prompt.KindChatmode)
	return nil, out, err
}

func (s *Server) listInstructionsHandler(ctx context.Context, _ *mcp.CallToolRequest, _ ListInput) (*mcp.CallToolResult, ListOutput, error) {
	out, err := s.list(ctx, prompt.KindInstruction)
	return nil, out, err
}

// GetInput selects a document by name; the full filename is accepted too.
type GetInput struct {
	Name string `json:"name" jsonschema:"document name, with or without the kind suffix"`
}

func (s *Server) getChatmodeHandler(ctx context.Context, _ *mcp.CallToolRequest, in GetInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.mgr.Get(ctx, prompt.KindChatmode, in.Name)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

func (s *Server) getInstructionHandler(ctx context.Context, _ *mcp.CallToolRequest, in GetInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.mgr.Get(ctx, prompt.KindInstruction, in.Name)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

type CreateChatmodeInput struct {
	Name        string   `json:"name" jsonschema:"chatmode name"`
	Description string   `json:"description" jsonschema:"short description of the mode"`
	Content     string   `json:"content" jsonschema:"markdown body with the mode instructions"`
	Tools       []string `json:"tools,omitempty" jsonschema:"tool names the mode may use"`
}

func (s *Server) createChatmodeHandler(ctx context.Context, _ *mcp.CallToolRequest, in CreateChatmodeInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.mgr.Create(s.opCtx(ctx), modekit.CreateInput{
		Kind:        prompt.KindChatmode,
		Name:        in.Name,
		Description: in.Description,
		Body:        in.Content,
		Tools:       in.Tools,
	})
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

type CreateInstructionInput struct {
	Name        string `json:"name" jsonschema:"instruction name"`
	Description string `json:"description" jsonschema:"short description of the instruction"`
	Content     string `json:"content" jsonschema:"markdown body with the instructions"`
}

func (s *Server) createInstructionHandler(ctx context.Context, _ *mcp.CallToolRequest, in CreateInstructionInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.mgr.Create(s.opCtx(ctx), modekit.CreateInput{
		Kind:        prompt.KindInstruction,
		Name:        in.Name,
		Description: in.Description,
		Body:        in.Content,
	})
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

type UpdateChatmodeInput struct {
	Name        string   `json:"name" jsonschema:"chatmode name"`
	Description *string  `json:"description,omitempty" jsonschema:"new description, omitted to keep the current one"`
	Content     *string  `json:"content,omitempty" jsonschema:"new body, omitted to keep the current one"`
	Tools       []string `json:"tools,omitempty" jsonschema:"replacement tool list, omitted to keep the current one"`
}

func (s *Server) updateChatmodeHandler(ctx context.Context, _ *mcp.CallToolRequest, in UpdateChatmodeInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.mgr.Update(s.opCtx(ctx), modekit.UpdateInput{
		Kind:        prompt.KindChatmode,
		Name:        in.Name,
		Description: in.Description,
		Body:        in.Content,
		Tools:       in.Tools,
	})
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

type UpdateInstructionInput struct {
	Name        string  `json:"name" jsonschema:"instruction name"`
	Description *string `json:"description,omitempty" jsonschema:"new description, omitted to keep the current one"`
	Content     *string `json:"content,omitempty" jsonschema:"new body, omitted to keep the current one"`
}

func (s *Server) updateInstructionHandler(ctx context.Context, _ *mcp.CallToolRequest, in UpdateInstructionInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.mgr.Update(s.opCtx(ctx), modekit.UpdateInput{
		Kind:        prompt.KindInstruction,
		Name:        in.Name,
		Description: in.Description,
		Body:        in.Content,
	})
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

// DeleteOutput reports where the pre-deletion backup landed.
type DeleteOutput struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	BackupPath string `json:"backup_path" jsonschema:"full copy of the document taken before removal"`
	DeletedAt  string `json:"deleted_at"`
}

func (s *Server) deleteDoc(ctx context.Context, kind prompt.Kind, name string) (DeleteOutput, error) {
	rec, err := s.mgr.Delete(s.opCtx(ctx), kind, name)
	if err != nil {
		return DeleteOutput{}, err
	}
	return DeleteOutput{
		Name:       rec.Name,
		Kind:       string(rec.Kind),
		BackupPath: rec.Path,
		DeletedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Server) deleteChatmodeHandler(ctx context.Context, _ *mcp.CallToolRequest, in GetInput) (*mcp.CallToolResult, DeleteOutput, error) {
	out, err := s.deleteDoc(ctx, prompt.KindChatmode, in.Name)
	return nil, out, err
}

func (s *Server) deleteInstructionHandler(ctx context.Context, _ *mcp.CallToolRequest, in GetInput) (*mcp.CallToolResult, DeleteOutput, error) {
	out, err := s.deleteDoc(ctx, prompt.KindInstruction, in.Name)
	return nil, out, err
}

func (s *Server) updateChatmodeFromSourceHandler(ctx context.Context, _ *mcp.CallToolRequest, in GetInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.mgr.UpdateFromSource(s.opCtx(ctx), prompt.KindChatmode, in.Name)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

// PromptsDirectoryOutput reports the managed directory.
type PromptsDirectoryOutput struct {
	Path     string `json:"path"`
	ReadOnly bool   `json:"read_only"`
}

func (s *Server) promptsDirectoryHandler(_ context.Context, _ *mcp.CallToolRequest, _ ListInput) (*mcp.CallToolResult, PromptsDirectoryOutput, error) {
	return nil, PromptsDirectoryOutput{Path: s.mgr.PromptsDir(), ReadOnly: s.mgr.ReadOnly()}, nil
}

type BrowseInput struct {
	Search   string `json:"search,omitempty" jsonschema:"substring matched against name, description, and tags"`
	Category string `json:"category,omitempty" jsonschema:"filter by kind, category, or tag"`
}

type LibraryEntryOutput struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Description string   `json:"description,omitempty"`
	Author      string   `json:"author,omitempty"`
	License     string   `json:"license,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type BrowseOutput struct {
	Entries []LibraryEntryOutput `json:"entries"`
	Count   int                  `json:"count"`
	Stale   bool                 `json:"stale,omitempty" jsonschema:"true when the library index could not be refreshed and cached data is shown"`
}

func (s *Server) browseLibraryHandler(ctx context.Context, _ *mcp.CallToolRequest, in BrowseInput) (*mcp.CallToolResult, BrowseOutput, error) {
	res, err := s.mgr.Browse(s.opCtx(ctx), in.Search, in.Category)
	if err != nil {
		return nil, BrowseOutput{}, err
	}
	out := BrowseOutput{Count: len(res.Entries), Stale: res.Stale}
	for _, e := range res.Entries {
		out.Entries = append(out.Entries, LibraryEntryOutput{
			Name:        e.Name,
			Kind:        string(e.Kind),
			Description: e.Description,
			Author:      e.Author,
			License:     e.License,
			Category:    e.Category,
			Tags:        e.Tags,
		})
	}
	return nil, out, nil
}

type InstallInput struct {
	Name string `json:"name" jsonschema:"exact library entry name"`
	As   string `json:"as,omitempty" jsonschema:"local name to store the document under, defaults to the entry name"`
}

func (s *Server) installFromLibraryHandler(ctx context.Context, _ *mcp.CallToolRequest, in InstallInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.mgr.Install(s.opCtx(ctx), modekit.InstallInput{Name: in.Name, As: in.As})
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

// RefreshOutput reports the state of the library cache after a forced
// refresh.
type RefreshOutput struct {
	Entries   int    `json:"entries"`
	FetchedAt string `json:"fetched_at"`
	Stale     bool   `json:"stale,omitempty" jsonschema:"true when the refresh failed and the previous snapshot remains"`
}

func (s *Server) refreshLibraryHandler(ctx context.Context, _ *mcp.CallToolRequest, _ ListInput) (*mcp.CallToolResult, RefreshOutput, error) {
	snap, err := s.mgr.RefreshLibrary(s.opCtx(ctx))
	if err != nil {
		return nil, RefreshOutput{}, err
	}
	return nil, RefreshOutput{
		Entries:   len(snap.Entries),
		FetchedAt: snap.FetchedAt.UTC().Format(time.RFC3339),
		Stale:     snap.Stale,
	}, nil
}

// opCtx attaches the server logger so manager operations log through it.
func (s *Server) opCtx(ctx context.Context) context.Context {
	return log.ContextWithLogger(ctx, s.logger)
}
