package risksdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListRisks returns the risks matching filter. See the package docs for the
// filter syntax.
func (s *Session) ListRisks(ctx context.Context, filter string) ([]Risk, error) {
	path := "/v1/risks"
	if filter != "" {
		path += "?" + url.Values{"filter": {filter}}.Encode()
	}

	var out ListRisksResponse
	if err := s.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Risks, nil
}

func (s *Session) GetRisk(ctx context.Context, id int64) (*Risk, error) {
	var risk Risk
	if err := s.getJSON(ctx, fmt.Sprintf("/v1/risks/%d", id), &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

// CreateRisk records a new risk related to the caller.
func (s *Session) CreateRisk(ctx context.Context, req CreateRiskRequest) (*Risk, error) {
	var risk Risk
	if err := s.sendJSON(ctx, http.MethodPost, "/v1/risks", req, &risk, http.StatusCreated); err != nil {
		return nil, err
	}
	return &risk, nil
}

func (s *Session) UpdateRisk(ctx context.Context, id int64, req UpdateRiskRequest) (*Risk, error) {
	var risk Risk
	if err := s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/v1/risks/%d", id), req, &risk, http.StatusOK); err != nil {
		return nil, err
	}
	return &risk, nil
}

func (s *Session) DeleteRisk(ctx context.Context, id int64) error {
	return s.sendNoContent(ctx, http.MethodDelete, fmt.Sprintf("/v1/risks/%d", id))
}

// RelateUser relates a user to a risk.
func (s *Session) RelateUser(ctx context.Context, riskID, userID int64) error {
	return s.sendNoContent(ctx, http.MethodPost, fmt.Sprintf("/v1/risks/%d/users/%d", riskID, userID))
}

func (s *Session) UnrelateUser(ctx context.Context, riskID, userID int64) error {
	return s.sendNoContent(ctx, http.MethodDelete, fmt.Sprintf("/v1/risks/%d/users/%d", riskID, userID))
}
