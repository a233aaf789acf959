package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/restu-lomboe/grip-principle/internal/services"
	"github.com/restu-lomboe/grip-principle/types"
)

// BookHandler provides HTTP handlers for the bookshelf.
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler constructs a handler with the provided service.
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// BookRouter registers book routes on the given router. Every route sits
// behind the auth gateway.
func BookRouter(r chi.Router, bookService *services.BookService, requireAuth func(http.Handler) http.Handler) {
	handler := NewBookHandler(bookService)

	r.Route("/book", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", handler.ListBooks)
		r.Post("/create", handler.CreateBook)
		r.Patch("/{bookID}", handler.UpdateBook)
		r.Delete("/{bookID}", handler.DeleteBook)
	})
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.List(r.Context())
	if err != nil {
		log.Printf("list books: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBookRequest(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.bookService.Create(r.Context(), types.Book{Book: req.Book}); err != nil {
		log.Printf("create book: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "create book successfully")
}

// UpdateBook replaces the book field at the given id. An id with no matching
// row still reports success; see the book store for the idempotency contract.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseBookID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := decodeBookRequest(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.bookService.Update(r.Context(), id, req.Book); err != nil {
		log.Printf("update book %d: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "update book successfully")
}

func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseBookID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.bookService.Delete(r.Context(), id); err != nil {
		log.Printf("delete book %d: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "delete book successfully")
}

type BookRequest struct {
	Book string `json:"book"`
}

func decodeBookRequest(r *http.Request) (BookRequest, error) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BookRequest{}, errors.New("invalid request")
	}
	req.Book = strings.TrimSpace(req.Book)
	if req.Book == "" {
		return BookRequest{}, errors.New("book is required")
	}
	return req, nil
}

func parseBookID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "bookID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid book id")
	}
	return id, nil
}
