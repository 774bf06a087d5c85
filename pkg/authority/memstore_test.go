package authority

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/doodlesbykumbi/localauth/pkg/model"
)

// memStore is an in-memory Store used to exercise the harvester, registry and
// resolver without a database.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	authorities map[string]*model.Authority
	entries     []model.Entry
	subjects    []model.SubjectEntry
	terms       []model.DomainTerm
	bindings    map[[2]int64]bool

	// failWritesAfter makes the writer fail once this many entries are written (-1 disables)
	failWritesAfter int
	// searchErr is returned by every search when set
	searchErr error
}

func newMemStore() *memStore {
	return &memStore{
		authorities:     make(map[string]*model.Authority),
		bindings:        make(map[[2]int64]bool),
		failWritesAfter: -1,
	}
}

var _ Store = (*memStore)(nil)

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) Transaction(ctx context.Context, fn func(Store) error) error {
	s.mu.Lock()
	authorities := make(map[string]*model.Authority, len(s.authorities))
	for k, v := range s.authorities {
		authorities[k] = v
	}
	entries := append([]model.Entry(nil), s.entries...)
	terms := append([]model.DomainTerm(nil), s.terms...)
	bindings := make(map[[2]int64]bool, len(s.bindings))
	for k, v := range s.bindings {
		bindings[k] = v
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.authorities, s.entries, s.terms, s.bindings = authorities, entries, terms, bindings
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) FindAuthorityByName(ctx context.Context, name string) (*model.Authority, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authorities[name]
	if !ok {
		return nil, ErrAuthorityNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *memStore) CreateAuthority(ctx context.Context, name string) (*model.Authority, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authorities[name]; ok {
		return nil, errors.New("duplicate key value violates unique constraint")
	}
	a := &model.Authority{ID: s.id(), Name: name, CreatedAt: time.Now()}
	s.authorities[name] = a
	copied := *a
	return &copied, nil
}

func (s *memStore) DeleteAuthority(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authorities[name]
	if !ok {
		return ErrAuthorityNotFound
	}
	delete(s.authorities, name)
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.AuthorityID != a.ID {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	for k := range s.bindings {
		if k[1] == a.ID {
			delete(s.bindings, k)
		}
	}
	return nil
}

func (s *memStore) ListAuthorities(ctx context.Context) ([]AuthoritySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []AuthoritySummary
	for _, a := range s.authorities {
		out = append(out, AuthoritySummary{Name: a.Name, CreatedAt: a.CreatedAt, Entries: int64(s.countLocked(a.ID))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) countLocked(authorityID int64) int {
	n := 0
	for _, e := range s.entries {
		if e.AuthorityID == authorityID {
			n++
		}
	}
	return n
}

func (s *memStore) entryCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authorities[name]
	if !ok {
		return 0
	}
	return s.countLocked(a.ID)
}

func (s *memStore) entriesOf(name string) []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authorities[name]
	if !ok {
		return nil
	}
	var out []model.Entry
	for _, e := range s.entries {
		if e.AuthorityID == a.ID {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) bindingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bindings)
}

func (s *memStore) termCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.terms)
}

func matchesScope(dt model.DomainTerm, scope Scope) bool {
	name, ok := scope.Model()
	if !ok {
		return dt.Model == nil
	}
	return dt.Model != nil && *dt.Model == name
}

func (s *memStore) FindDomainTerm(ctx context.Context, scope Scope, term string) (*model.DomainTerm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, dt := range s.terms {
		if dt.Term == term && matchesScope(dt, scope) {
			copied := dt
			return &copied, nil
		}
	}
	return nil, ErrDomainTermNotFound
}

func (s *memStore) FindAnyDomainTerm(ctx context.Context, term string) (*model.DomainTerm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *model.DomainTerm
	for i := range s.terms {
		dt := s.terms[i]
		if dt.Term != term {
			continue
		}
		if dt.Model == nil {
			return &dt, nil
		}
		if found == nil {
			found = &dt
		}
	}
	if found == nil {
		return nil, ErrDomainTermNotFound
	}
	return found, nil
}

func (s *memStore) FindOrCreateDomainTerm(ctx context.Context, scope Scope, term string) (*model.DomainTerm, error) {
	if dt, err := s.FindDomainTerm(ctx, scope, term); err == nil {
		return dt, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dt := model.DomainTerm{ID: s.id(), Term: term}
	if name, ok := scope.Model(); ok {
		dt.Model = &name
	}
	s.terms = append(s.terms, dt)
	return &dt, nil
}

func (s *memStore) AttachAuthority(ctx context.Context, domainTermID, authorityID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{domainTermID, authorityID}
	if s.bindings[key] {
		return false, nil
	}
	s.bindings[key] = true
	return true, nil
}

func (s *memStore) AuthorityIDs(ctx context.Context, domainTermID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for k := range s.bindings {
		if k[0] == domainTermID {
			ids = append(ids, k[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memStore) SearchEntries(ctx context.Context, authorityIDs []int64, lowPrefix string, limit int) ([]Hit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	allowed := make(map[int64]bool, len(authorityIDs))
	for _, id := range authorityIDs {
		allowed[id] = true
	}
	var hits []Hit
	for _, e := range s.entries {
		if len(hits) == limit {
			break
		}
		if allowed[e.AuthorityID] && strings.HasPrefix(strings.ToLower(e.Label), lowPrefix) {
			hits = append(hits, Hit{URI: e.URI, Label: e.Label})
		}
	}
	return hits, nil
}

func (s *memStore) SearchSubjects(ctx context.Context, lowPrefix string, limit int) ([]Hit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	var hits []Hit
	for _, e := range s.subjects {
		if len(hits) == limit {
			break
		}
		if strings.HasPrefix(e.LowerLabel, lowPrefix) {
			hits = append(hits, Hit{URI: e.URL, Label: e.Label})
		}
	}
	return hits, nil
}

func (s *memStore) addSubject(url, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, model.SubjectEntry{ID: s.id(), URL: url, Label: label, LowerLabel: strings.ToLower(label)})
}

func (s *memStore) Writer() BulkWriter {
	return memWriter{s: s}
}

func (s *memStore) Ping(ctx context.Context) error {
	return nil
}

type memWriter struct {
	s *memStore
}

func (w memWriter) WriteEntries(ctx context.Context, entries []model.Entry) (int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	for i, e := range entries {
		if w.s.failWritesAfter >= 0 && i >= w.s.failWritesAfter {
			return i, errors.New("null value in column \"label\" violates not-null constraint")
		}
		e.ID = w.s.id()
		w.s.entries = append(w.s.entries, e)
	}
	return len(entries), nil
}

// mapOpener serves sources from memory
type mapOpener map[string]string

func (m mapOpener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	content, ok := m[location]
	if !ok {
		return nil, errors.New("no such source: " + location)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

type entryFixture struct {
	authorityID int64
	label       string
}

type entryFixtures []entryFixture

func (f entryFixtures) entries() []model.Entry {
	out := make([]model.Entry, 0, len(f))
	for _, e := range f {
		out = append(out, model.Entry{
			AuthorityID: e.authorityID,
			URI:         "http://example.org/" + strings.ReplaceAll(strings.ToLower(e.label), " ", "-"),
			Label:       e.label,
		})
	}
	return out
}
