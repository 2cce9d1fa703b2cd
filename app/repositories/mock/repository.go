package mock

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"myblog/app/models"
	"myblog/app/repositories"
)

// Users is an in-memory UserRepository. Posts and comments consult it to join
// author profiles the way the real stores do.
type Users struct {
	users  map[string]*models.User
	nextID int
	mutex  sync.RWMutex
}

type PostRepository struct {
	users    *Users
	comments *CommentRepository
	posts    map[string]*models.Post
	nextID   int
	mutex    sync.RWMutex

	// IncPVErr, when set, is returned by IncPV without touching the counter.
	IncPVErr error
}

type CommentRepository struct {
	users    *Users
	comments map[string]*models.Comment
	nextID   int
	mutex    sync.RWMutex
}

// Repositories bundles a consistent set of in-memory repositories.
type Repositories struct {
	Users    *Users
	Posts    *PostRepository
	Comments *CommentRepository
}

func New() *Repositories {
	users := &Users{users: make(map[string]*models.User), nextID: 1}
	comments := &CommentRepository{users: users, comments: make(map[string]*models.Comment), nextID: 1}
	posts := &PostRepository{users: users, comments: comments, posts: make(map[string]*models.Post), nextID: 1}
	return &Repositories{Users: users, Posts: posts, Comments: comments}
}

func (m *Users) profile(id string) *models.Author {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if u, ok := m.users[id]; ok {
		return u.Profile()
	}
	return &models.Author{ID: id}
}

// UserRepository implementation
func (m *Users) Create(ctx context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Name == user.Name {
			return repositories.ErrDuplicate
		}
	}
	user.ID = strconv.Itoa(m.nextID)
	m.nextID++
	user.BeforeCreate()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *Users) GetByName(ctx context.Context, name string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, u := range m.users {
		if u.Name == name {
			out := *u
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = strconv.Itoa(m.nextID)
	m.nextID++
	post.BeforeCreate()
	stored := *post
	stored.Author = nil
	m.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := m.GetRawByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Author = m.users.profile(post.AuthorID)
	post.CommentsCount, _ = m.comments.CountByPost(ctx, post.ID)
	return post, nil
}

func (m *PostRepository) GetRawByID(ctx context.Context, id string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *post
	return out.WithRawAuthor(), nil
}

func (m *PostRepository) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Post, error) {
	m.mutex.RLock()
	var ids []int
	for id, post := range m.posts {
		if opts.AuthorID != "" && post.AuthorID != opts.AuthorID {
			continue
		}
		n, _ := strconv.Atoi(id)
		ids = append(ids, n)
	}
	m.mutex.RUnlock()

	// Most recent first
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	if opts.Offset >= len(ids) {
		return []*models.Post{}, nil
	}
	ids = ids[opts.Offset:]
	if opts.Limit > 0 && len(ids) > opts.Limit {
		ids = ids[:opts.Limit]
	}

	posts := make([]*models.Post, 0, len(ids))
	for _, n := range ids {
		post, err := m.GetByID(ctx, strconv.Itoa(n))
		if err != nil {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (m *PostRepository) Update(ctx context.Context, id, title, content string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return repositories.ErrNotFound
	}
	post.Title = title
	post.Content = content
	post.UpdatedAt = time.Now()
	return nil
}

func (m *PostRepository) IncPV(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.IncPVErr != nil {
		return m.IncPVErr
	}
	post, exists := m.posts[id]
	if !exists {
		return repositories.ErrNotFound
	}
	post.PV++
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.posts, id)
	return nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = strconv.Itoa(m.nextID)
	m.nextID++
	comment.BeforeCreate()
	stored := *comment
	stored.Author = nil
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *comment
	out.Author = &models.Author{ID: out.AuthorID}
	return &out, nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	m.mutex.RLock()
	var comments []*models.Comment
	for _, comment := range m.comments {
		if comment.PostID == postID {
			out := *comment
			comments = append(comments, &out)
		}
	}
	m.mutex.RUnlock()

	// Oldest first
	sort.Slice(comments, func(i, j int) bool {
		a, _ := strconv.Atoi(comments[i].ID)
		b, _ := strconv.Atoi(comments[j].ID)
		return a < b
	})
	for _, c := range comments {
		c.Author = m.users.profile(c.AuthorID)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}

func (m *CommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	count := 0
	for _, comment := range m.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (m *CommentRepository) Delete(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, comment := range m.comments {
		if comment.PostID == postID {
			delete(m.comments, id)
		}
	}
	return nil
}
