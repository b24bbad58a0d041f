package api

import "github.com/phrazzld/workspace-api/internal/domain"

// WorkspaceResponse is the wire shape of a workspace. The id is not part of
// the wire format.
type WorkspaceResponse struct {
	Name string `json:"Name"`
}

// SearchWorkspacesRequest is the body of a search request.
type SearchWorkspacesRequest struct {
	QueryString string `json:"queryString"`
}

func workspaceToResponse(rec domain.Record) WorkspaceResponse {
	return WorkspaceResponse{Name: rec.Name}
}

func workspacesToResponse(recs []domain.Record) []WorkspaceResponse {
	out := make([]WorkspaceResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, workspaceToResponse(rec))
	}
	return out
}
