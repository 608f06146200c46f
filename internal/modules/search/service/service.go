package service

import (
	"encoding/json"
	"fmt"

	"anoa.com/wismacare/internal/entity"
	"github.com/meilisearch/meilisearch-go"
)

const requestIndex = "maintenance_requests"

// RequestDocument is the flattened searchable projection of a request.
type RequestDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	ResidentID  string `json:"resident_id"`
	CreatedAt   int64  `json:"created_at"`
}

type SearchService interface {
	IndexRequest(request *entity.MaintenanceRequest) error
	RemoveRequest(id string) error
	Search(query string, limit int64) ([]RequestDocument, error)
}

type searchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	return &searchService{client: client}
}

func toDocument(request *entity.MaintenanceRequest) RequestDocument {
	return RequestDocument{
		ID:          request.ID.String(),
		Title:       request.Title,
		Description: request.Description,
		Category:    request.Category,
		Priority:    request.Priority,
		Location:    request.Location,
		Status:      request.Status,
		ResidentID:  request.ResidentID.String(),
		CreatedAt:   request.CreatedAt.Unix(),
	}
}

func strPtr(s string) *string { return &s }

func (s *searchService) IndexRequest(request *entity.MaintenanceRequest) error {
	doc := toDocument(request)
	_, err := s.client.Index(requestIndex).AddDocuments([]RequestDocument{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("failed to index request %s: %w", doc.ID, err)
	}
	return nil
}

func (s *searchService) RemoveRequest(id string) error {
	_, err := s.client.Index(requestIndex).DeleteDocument(id)
	if err != nil {
		return fmt.Errorf("failed to remove request %s from index: %w", id, err)
	}
	return nil
}

func (s *searchService) Search(query string, limit int64) ([]RequestDocument, error) {
	if limit <= 0 {
		limit = 20
	}

	resp, err := s.client.Index(requestIndex).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, fmt.Errorf("failed to decode search hits: %w", err)
	}

	docs := make([]RequestDocument, 0, len(resp.Hits))
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode search hits: %w", err)
	}

	return docs, nil
}
