// Package testutil provides an in-memory implementation of the repository
// interfaces for service and handler tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/internal/domain/repository"
)

// Store holds every table. Ids are UUIDs and creation times strictly increase
// so default ordering is deterministic.
type Store struct {
	mu        sync.Mutex
	clock     time.Time
	users     map[string]*entity.User
	bootcamps map[string]*entity.Bootcamp
	courses   map[string]*entity.Course
	reviews   map[string]*entity.Review
}

func NewStore() *Store {
	return &Store{
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:     map[string]*entity.User{},
		bootcamps: map[string]*entity.Bootcamp{},
		courses:   map[string]*entity.Course{},
		reviews:   map[string]*entity.Review{},
	}
}

func (s *Store) Users() *Users         { return &Users{s} }
func (s *Store) Bootcamps() *Bootcamps { return &Bootcamps{s} }
func (s *Store) Courses() *Courses     { return &Courses{s} }
func (s *Store) Reviews() *Reviews     { return &Reviews{s} }

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func duplicate(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// page projects items to documents, applies equality filters and pages them
// newest first.
func page[T any](items []T, created func(T) time.Time, spec query.Spec) (query.Result, error) {
	sort.Slice(items, func(i, j int) bool { return created(items[i]).After(created(items[j])) })

	docs := make([]query.Document, 0, len(items))
	for _, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return query.Result{}, err
		}
		var doc query.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return query.Result{}, err
		}
		if matches(doc, spec.Filters) {
			docs = append(docs, doc)
		}
	}

	res := query.Result{Total: int64(len(docs)), Page: spec.Page, Limit: spec.Limit}
	if res.Page < 1 {
		res.Page = query.DefaultPage
	}
	if res.Limit < 1 {
		res.Limit = query.DefaultLimit
	}
	from := (res.Page - 1) * res.Limit
	to := from + res.Limit
	if from > len(docs) {
		from = len(docs)
	}
	if to > len(docs) {
		to = len(docs)
	}
	res.Items = docs[from:to]
	return res, nil
}

func matches(doc query.Document, filters []query.Filter) bool {
	for _, f := range filters {
		if f.Op != query.OpEq || len(f.Values) != 1 {
			continue
		}
		v, ok := doc[f.Field]
		if !ok || fmt.Sprint(v) != f.Values[0] {
			return false
		}
	}
	return true
}

type Users struct{ s *Store }

func (r *Users) List(_ context.Context, spec query.Spec) (query.Result, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		items = append(items, *u)
	}
	return page(items, func(u entity.User) time.Time { return u.CreatedAt }, spec)
}

func (r *Users) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.users {
		if o.Email == u.Email {
			return duplicate("users_email_key")
		}
	}
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.s.tick()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *Users) find(pred func(*entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if pred(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *Users) GetByResetToken(_ context.Context, digest string, now time.Time) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return digest != "" && u.ResetPasswordToken == digest &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now)
	})
}

func (r *Users) GetByConfirmToken(_ context.Context, digest string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return digest != "" && u.ConfirmEmailToken == digest })
}

func (r *Users) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, o := range r.s.users {
		if id != u.ID && o.Email == u.Email {
			return duplicate("users_email_key")
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

type Bootcamps struct{ s *Store }

func (r *Bootcamps) List(_ context.Context, spec query.Spec) (query.Result, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]entity.Bootcamp, 0, len(r.s.bootcamps))
	for _, b := range r.s.bootcamps {
		items = append(items, *b)
	}
	return page(items, func(b entity.Bootcamp) time.Time { return b.CreatedAt }, spec)
}

func (r *Bootcamps) GetByID(_ context.Context, id string) (*entity.Bootcamp, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bootcamps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *Bootcamps) CountByUser(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, b := range r.s.bootcamps {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *Bootcamps) Create(_ context.Context, b *entity.Bootcamp) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.bootcamps {
		if o.Name == b.Name {
			return duplicate("bootcamps_name_key")
		}
	}
	if b.Photo == "" {
		b.Photo = entity.DefaultPhoto
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}
	b.ID = uuid.NewString()
	b.CreatedAt = r.s.tick()
	cp := *b
	r.s.bootcamps[b.ID] = &cp
	return nil
}

func (r *Bootcamps) Update(_ context.Context, b *entity.Bootcamp) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.bootcamps[b.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *b
	cp.AverageCost, cp.AverageRating, cp.Photo = cur.AverageCost, cur.AverageRating, cur.Photo
	r.s.bootcamps[b.ID] = &cp
	return nil
}

// Delete cascades to the bootcamp's courses and reviews.
func (r *Bootcamps) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bootcamps[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.bootcamps, id)
	for cid, c := range r.s.courses {
		if c.BootcampID == id {
			delete(r.s.courses, cid)
		}
	}
	for rid, rv := range r.s.reviews {
		if rv.BootcampID == id {
			delete(r.s.reviews, rid)
		}
	}
	return nil
}

func (r *Bootcamps) WithinRadius(_ context.Context, lat, lng, radius float64) ([]entity.Bootcamp, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entity.Bootcamp{}
	for _, b := range r.s.bootcamps {
		if b.Location == nil {
			continue
		}
		if CentralAngle(lat, lng, b.Location.Latitude(), b.Location.Longitude()) <= radius {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Bootcamps) UpdatePhoto(_ context.Context, id, photo string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bootcamps[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Photo = photo
	return nil
}

func (r *Bootcamps) RecalculateAverageCost(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bootcamps[id]
	if !ok {
		return repository.ErrNotFound
	}
	var sum float64
	n := 0
	for _, c := range r.s.courses {
		if c.BootcampID == id {
			sum += c.Tuition
			n++
		}
	}
	b.AverageCost = nil
	if n > 0 {
		avg := math.Ceil(sum/float64(n)/10) * 10
		b.AverageCost = &avg
	}
	return nil
}

func (r *Bootcamps) RecalculateAverageRating(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bootcamps[id]
	if !ok {
		return repository.ErrNotFound
	}
	sum, n := 0, 0
	for _, rv := range r.s.reviews {
		if rv.BootcampID == id {
			sum += rv.Rating
			n++
		}
	}
	b.AverageRating = nil
	if n > 0 {
		avg := float64(sum) / float64(n)
		b.AverageRating = &avg
	}
	return nil
}

// CentralAngle is the haversine angle in radians between two points.
func CentralAngle(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad / 2
	dLng := (lng2 - lng1) * rad / 2
	h := math.Pow(math.Sin(dLat), 2) + math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Pow(math.Sin(dLng), 2)
	return 2 * math.Asin(math.Sqrt(h))
}

type Courses struct{ s *Store }

func (r *Courses) List(_ context.Context, spec query.Spec) (query.Result, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]entity.Course, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		items = append(items, *c)
	}
	return page(items, func(c entity.Course) time.Time { return c.CreatedAt }, spec)
}

func (r *Courses) ListByBootcamp(_ context.Context, bootcampID string) ([]entity.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entity.Course{}
	for _, c := range r.s.courses {
		if c.BootcampID == bootcampID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Courses) GetByID(_ context.Context, id string) (*entity.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *Courses) Create(_ context.Context, c *entity.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bootcamps[c.BootcampID]; !ok {
		return repository.ErrNotFound
	}
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.tick()
	cp := *c
	r.s.courses[c.ID] = &cp
	return nil
}

func (r *Courses) Update(_ context.Context, c *entity.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	r.s.courses[c.ID] = &cp
	return nil
}

func (r *Courses) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.courses, id)
	return nil
}

type Reviews struct{ s *Store }

func (r *Reviews) List(_ context.Context, spec query.Spec) (query.Result, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]entity.Review, 0, len(r.s.reviews))
	for _, rv := range r.s.reviews {
		items = append(items, *rv)
	}
	return page(items, func(rv entity.Review) time.Time { return rv.CreatedAt }, spec)
}

func (r *Reviews) ListByBootcamp(_ context.Context, bootcampID string) ([]entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entity.Review{}
	for _, rv := range r.s.reviews {
		if rv.BootcampID == bootcampID {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Reviews) GetByID(_ context.Context, id string) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rv
	return &cp, nil
}

func (r *Reviews) Create(_ context.Context, rv *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bootcamps[rv.BootcampID]; !ok {
		return repository.ErrNotFound
	}
	for _, o := range r.s.reviews {
		if o.BootcampID == rv.BootcampID && o.UserID == rv.UserID {
			return duplicate("reviews_bootcamp_id_user_id_key")
		}
	}
	rv.ID = uuid.NewString()
	rv.CreatedAt = r.s.tick()
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return nil
}

func (r *Reviews) Update(_ context.Context, rv *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[rv.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return nil
}

func (r *Reviews) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

var (
	_ repository.UserRepository     = (*Users)(nil)
	_ repository.BootcampRepository = (*Bootcamps)(nil)
	_ repository.CourseRepository   = (*Courses)(nil)
	_ repository.ReviewRepository   = (*Reviews)(nil)
)
