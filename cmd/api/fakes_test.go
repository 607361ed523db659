package main

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	authorModel "bookapi-backend/internal/domains/author/model"
	bookModel "bookapi-backend/internal/domains/book/model"
	"bookapi-backend/internal/domains/user"
)

// memStore is an in-memory stand-in for the PostgreSQL schema, including
// the ON DELETE CASCADE from authors to books.
type memStore struct {
	mu sync.Mutex

	nextAuthorID int64
	nextBookID   int64
	nextUserID   int64

	authors map[int64]authorModel.Author
	books   map[int64]bookModel.Book
	bookOf  map[int64]*int64 // book id -> author id
	users   map[string]user.User

	bookLists   int
	authorLists int
}

func newMemStore() *memStore {
	return &memStore{
		authors: map[int64]authorModel.Author{},
		books:   map[int64]bookModel.Book{},
		bookOf:  map[int64]*int64{},
		users:   map[string]user.User{},
	}
}

func (s *memStore) addAuthor(lastName string, firstName *string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAuthorID++
	s.authors[s.nextAuthorID] = authorModel.Author{ID: s.nextAuthorID, LastName: lastName, FirstName: firstName}
	return s.nextAuthorID
}

func (s *memStore) addBook(title, coverText string, comment *string, authorID *int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBookID++
	s.books[s.nextBookID] = bookModel.Book{ID: s.nextBookID, Title: title, CoverText: coverText, Comment: comment}
	s.bookOf[s.nextBookID] = s.existingAuthor(authorID)
	return s.nextBookID
}

func (s *memStore) counts() (books, authors int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books), len(s.authors)
}

func (s *memStore) listCalls() (books, authors int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookLists, s.authorLists
}

func (s *memStore) existingAuthor(id *int64) *int64 {
	if id == nil {
		return nil
	}
	if _, ok := s.authors[*id]; !ok {
		return nil
	}
	v := *id
	return &v
}

func (s *memStore) renderBook(id int64) bookModel.Book {
	b := s.books[id]
	b.Author = nil
	if authorID := s.bookOf[id]; authorID != nil {
		a := s.authors[*authorID]
		b.Author = &bookModel.AuthorRef{ID: a.ID, LastName: a.LastName, FirstName: a.FirstName}
	}
	return b
}

func (s *memStore) renderAuthor(id int64) authorModel.Author {
	a := s.authors[id]
	a.Books = []authorModel.BookSummary{}
	for _, bookID := range sortedIDs(s.books) {
		if owner := s.bookOf[bookID]; owner != nil && *owner == id {
			b := s.books[bookID]
			a.Books = append(a.Books, authorModel.BookSummary{ID: b.ID, Title: b.Title, CoverText: b.CoverText})
		}
	}
	return a
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func window(ids []int64, limit, offset int) []int64 {
	if offset >= len(ids) {
		return nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end]
}

// ========================================
// AUTHORS
// ========================================

type memAuthors struct{ *memStore }

func (r memAuthors) List(_ context.Context, limit, offset int) ([]authorModel.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authorLists++

	out := []authorModel.Author{}
	for _, id := range window(sortedIDs(r.authors), limit, offset) {
		out = append(out, r.renderAuthor(id))
	}
	return out, nil
}

func (r memAuthors) GetByID(_ context.Context, id int64) (*authorModel.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[id]; !ok {
		return nil, authorModel.ErrAuthorNotFound
	}
	a := r.renderAuthor(id)
	return &a, nil
}

func (r memAuthors) Create(_ context.Context, a *authorModel.Author) (*authorModel.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextAuthorID++
	created := *a
	created.ID = r.nextAuthorID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	created.Books = nil
	r.authors[created.ID] = created
	out := r.renderAuthor(created.ID)
	return &out, nil
}

func (r memAuthors) Update(_ context.Context, a *authorModel.Author) (*authorModel.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.authors[a.ID]
	if !ok {
		return nil, authorModel.ErrAuthorNotFound
	}
	current.LastName = a.LastName
	current.FirstName = a.FirstName
	current.UpdatedAt = time.Now()
	r.authors[a.ID] = current
	out := r.renderAuthor(a.ID)
	return &out, nil
}

func (r memAuthors) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[id]; !ok {
		return authorModel.ErrAuthorNotFound
	}
	delete(r.authors, id)
	for bookID, owner := range r.bookOf {
		if owner != nil && *owner == id {
			delete(r.books, bookID)
			delete(r.bookOf, bookID)
		}
	}
	return nil
}

// ========================================
// BOOKS
// ========================================

type memBooks struct{ *memStore }

func (r memBooks) List(_ context.Context, limit, offset int) ([]bookModel.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookLists++

	out := []bookModel.Book{}
	for _, id := range window(sortedIDs(r.books), limit, offset) {
		out = append(out, r.renderBook(id))
	}
	return out, nil
}

func (r memBooks) GetByID(_ context.Context, id int64) (*bookModel.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return nil, bookModel.ErrBookNotFound
	}
	b := r.renderBook(id)
	return &b, nil
}

func (r memBooks) Create(_ context.Context, b *bookModel.Book) (*bookModel.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextBookID++
	created := *b
	created.ID = r.nextBookID
	created.Author = nil
	r.books[created.ID] = created
	r.bookOf[created.ID] = r.existingAuthor(b.AuthorID())
	out := r.renderBook(created.ID)
	return &out, nil
}

func (r memBooks) Update(_ context.Context, b *bookModel.Book) (*bookModel.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.books[b.ID]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	current.Title = b.Title
	current.CoverText = b.CoverText
	r.books[b.ID] = current
	r.bookOf[b.ID] = r.existingAuthor(b.AuthorID())
	out := r.renderBook(b.ID)
	return &out, nil
}

func (r memBooks) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return bookModel.ErrBookNotFound
	}
	delete(r.books, id)
	delete(r.bookOf, id)
	return nil
}

// ========================================
// USERS
// ========================================

type memUsers struct{ *memStore }

func (r memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) Create(_ context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := r.users[email]; ok {
		return nil, user.ErrEmailAlreadyExists
	}
	r.nextUserID++
	created := *u
	created.ID = r.nextUserID
	created.Email = email
	r.users[email] = created
	return &created, nil
}
