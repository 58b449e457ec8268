package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/search"
	"github.com/oksasatya/bootcamp-directory/pkg/mailer"
)

// ErrNoMatch is returned by Geocoder for an unknown address.
var ErrNoMatch = errors.New("no geocode match")

// Geocoder answers from a fixed address table.
type Geocoder struct {
	Places map[string]entity.Location
}

func (g *Geocoder) Geocode(_ context.Context, address string) (*entity.Location, error) {
	loc, ok := g.Places[address]
	if !ok {
		return nil, ErrNoMatch
	}
	return &loc, nil
}

// Point builds a located address at lat/lng.
func Point(lat, lng float64, city string) entity.Location {
	return entity.Location{Type: "Point", Coordinates: [2]float64{lng, lat}, City: city}
}

// Files keeps uploads in memory.
type Files struct {
	mu    sync.Mutex
	Saved map[string][]byte
	Err   error
}

func (f *Files) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Saved == nil {
		f.Saved = map[string][]byte{}
	}
	f.Saved[name] = buf.Bytes()
	return name, nil
}

// Mailer records sent messages; Err fails every send.
type Mailer struct {
	mu   sync.Mutex
	Sent []mailer.Message
	Err  error
}

func (m *Mailer) Send(_ context.Context, msg mailer.Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

// Last returns the most recent message.
func (m *Mailer) Last() (mailer.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return mailer.Message{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// Revocations is an in-memory denylist.
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (r *Revocations) Revoke(_ context.Context, token string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revoked == nil {
		r.revoked = map[string]time.Time{}
	}
	r.revoked[token] = until
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.revoked[token]
	return ok && time.Now().Before(until), nil
}

// Index is a substring-matching stand-in for the search index.
type Index struct {
	mu   sync.Mutex
	docs map[string]entity.Bootcamp
}

func (x *Index) Upsert(_ context.Context, b *entity.Bootcamp) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.docs == nil {
		x.docs = map[string]entity.Bootcamp{}
	}
	x.docs[b.ID] = *b
	return nil
}

func (x *Index) Delete(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.docs, id)
	return nil
}

func (x *Index) Search(_ context.Context, q string, size int) ([]search.Hit, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	q = strings.ToLower(q)
	out := []search.Hit{}
	for _, b := range x.docs {
		if len(out) == size {
			break
		}
		if strings.Contains(strings.ToLower(b.Name+" "+b.Description), q) {
			out = append(out, search.Hit{ID: b.ID, Name: b.Name, Slug: b.Slug, Description: b.Description, Careers: b.Careers, Score: 1})
		}
	}
	return out, nil
}

func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.docs)
}
