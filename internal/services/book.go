package services

import (
	"context"

	"github.com/restu-lomboe/grip-principle/types"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	List(ctx context.Context) ([]types.Book, error)
	Create(ctx context.Context, book types.Book) (types.Book, error)
	Update(ctx context.Context, id int, book string) error
	Delete(ctx context.Context, id int) error
}

// BookService encapsulates book use-cases.
type BookService struct {
	repo         BookRepository
	publisher    Publisher
	auditChannel string
}

func NewBookService(repo BookRepository, publisher Publisher, auditChannel string) *BookService {
	return &BookService{
		repo:         repo,
		publisher:    publisher,
		auditChannel: auditChannel,
	}
}

func (s *BookService) List(ctx context.Context) ([]types.Book, error) {
	return s.repo.List(ctx)
}

func (s *BookService) Create(ctx context.Context, book types.Book) (types.Book, error) {
	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return types.Book{}, err
	}
	publishAudit(ctx, s.publisher, s.auditChannel, AuditEvent{
		Action: "created",
		Entity: "book",
		ID:     created.ID,
	})
	return created, nil
}

func (s *BookService) Update(ctx context.Context, id int, book string) error {
	if err := s.repo.Update(ctx, id, book); err != nil {
		return err
	}
	publishAudit(ctx, s.publisher, s.auditChannel, AuditEvent{
		Action: "updated",
		Entity: "book",
		ID:     id,
	})
	return nil
}

func (s *BookService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publishAudit(ctx, s.publisher, s.auditChannel, AuditEvent{
		Action: "deleted",
		Entity: "book",
		ID:     id,
	})
	return nil
}
